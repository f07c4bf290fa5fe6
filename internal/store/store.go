// Package store persists users and their exercise logs.
package store

import (
	"context"

	"github.com/isdelr/exercise-tracker/internal/models"
)

// AppendOptions controls AppendEntry.
type AppendOptions struct {
	// CreateIfMissing creates a user with an empty username when the id is
	// unknown instead of failing with a not found error.
	CreateIfMissing bool
}

// Stats summarises store contents.
type Stats struct {
	Users   int
	Entries int
}

// Store is the persistence collaborator used by the exercise service.
// Lookups of unknown users fail with an apperr not found error; other
// failures are apperr persistence errors.
type Store interface {
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	CreateUser(ctx context.Context, username string) (models.User, error)
	// AppendEntry atomically appends entry to the user's log and returns the
	// updated user log.
	AppendEntry(ctx context.Context, userID string, entry models.LogEntry, opts AppendOptions) (models.UserLog, error)
	LoadLog(ctx context.Context, userID string) (models.UserLog, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	Stats(ctx context.Context) (Stats, error)
	Optimize(ctx context.Context) error
}
