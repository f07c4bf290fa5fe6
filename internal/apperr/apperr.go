// Package apperr defines the closed set of error variants returned by the
// exercise service and its store.
package apperr

import (
	"errors"
	"fmt"
)

// Kind groups error codes by how a caller should react to them.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindDuplicateUsername
	KindNotFound
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicateUsername:
		return "duplicate_username"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Code identifies a single error variant.
type Code string

const (
	CodeValidation        Code = "validation"
	CodeMissingUserID     Code = "missing_user_id"
	CodeInvalidEntry      Code = "invalid_entry"
	CodeDuplicateUsername Code = "duplicate_username"
	CodeNotFound          Code = "not_found"
	CodePersistence       Code = "persistence"
)

// Kind reports the kind a code belongs to.
func (c Code) Kind() Kind {
	switch c {
	case CodeValidation, CodeMissingUserID, CodeInvalidEntry:
		return KindValidation
	case CodeDuplicateUsername:
		return KindDuplicateUsername
	case CodeNotFound:
		return KindNotFound
	case CodePersistence:
		return KindPersistence
	default:
		return KindUnknown
	}
}

// Error is the tagged error value. Field names the first offending input
// field for validation variants.
type Error struct {
	Code    Code
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so the package level
// sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrValidation        = &Error{Code: CodeValidation}
	ErrMissingUserID     = &Error{Code: CodeMissingUserID}
	ErrInvalidEntry      = &Error{Code: CodeInvalidEntry}
	ErrDuplicateUsername = &Error{Code: CodeDuplicateUsername}
	ErrNotFound          = &Error{Code: CodeNotFound}
	ErrPersistence       = &Error{Code: CodePersistence}
)

// Validation reports bad input on field.
func Validation(field, msg string) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: msg}
}

// MissingUserID reports a query issued without a user id.
func MissingUserID() *Error {
	return &Error{Code: CodeMissingUserID, Field: "userId", Message: "userId is required"}
}

// InvalidEntry reports a log entry that cannot be stored.
func InvalidEntry(field, msg string) *Error {
	return &Error{Code: CodeInvalidEntry, Field: field, Message: msg}
}

// DuplicateUsername reports that the requested username is already taken.
func DuplicateUsername() *Error {
	return &Error{Code: CodeDuplicateUsername, Field: "username", Message: "username already taken"}
}

// NotFound reports a missing resource.
func NotFound(what, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", what, id)}
}

// Persistence wraps an infrastructure failure. Errors that already carry a
// code are returned unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Code: CodePersistence, Message: op, Err: err}
}

// KindOf returns the kind of err, or KindPersistence for errors outside the
// taxonomy.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code.Kind()
	}
	return KindPersistence
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
