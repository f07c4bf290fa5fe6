package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("create user: %w", DuplicateUsername())

	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindDuplicateUsername, KindOf(err))
}

func TestValidationVariantsShareKind(t *testing.T) {
	for _, err := range []error{
		Validation("username", "username is required"),
		MissingUserID(),
		InvalidEntry("duration", "duration must be a number"),
	} {
		assert.Equal(t, KindValidation, KindOf(err), err.Error())
	}
}

func TestMissingUserID_CarriesField(t *testing.T) {
	ae, ok := As(MissingUserID())
	require.True(t, ok)
	assert.Equal(t, "userId", ae.Field)
	assert.ErrorIs(t, ae, ErrMissingUserID)
	assert.NotErrorIs(t, ae, ErrValidation)
}

func TestPersistence_WrapsForeignErrors(t *testing.T) {
	err := Persistence("load log", sql.ErrConnDone)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "load log")
}

func TestPersistence_KeepsTaggedErrors(t *testing.T) {
	nf := NotFound("user", "42")
	assert.Same(t, error(nf), Persistence("load log", nf))
	assert.NoError(t, Persistence("noop", nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindPersistence, KindOf(errors.New("boom")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("user", "x")))
	assert.Equal(t, "not_found", KindNotFound.String())
}

func TestDuplicateUsername_FixedMessage(t *testing.T) {
	ae, ok := As(DuplicateUsername())
	require.True(t, ok)
	assert.Equal(t, "username", ae.Field)
	assert.Equal(t, "username already taken", ae.Message)
}
