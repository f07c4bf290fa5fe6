package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/isdelr/exercise-tracker/internal/apperr"
	"github.com/isdelr/exercise-tracker/internal/models"
	"github.com/isdelr/exercise-tracker/internal/query"
	"github.com/isdelr/exercise-tracker/internal/store"
	"github.com/rs/zerolog/log"
)

// ExerciseServiceProvider defines the interface for exercise tracking services.
type ExerciseServiceProvider interface {
	CreateUser(ctx context.Context, username string) (models.User, error)
	AppendEntry(ctx context.Context, in AppendInput) (AppendResult, error)
	QueryLog(ctx context.Context, in LogInput) (query.Result, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// AppendInput is a raw append request. Date may be empty.
type AppendInput struct {
	UserID      string
	Description string
	Duration    string
	Date        string
}

// AppendResult echoes the user and the entry that was appended.
type AppendResult struct {
	User  models.User
	Entry models.LogEntry
}

// LogInput is a raw log query. Empty bounds are treated as not supplied.
type LogInput struct {
	UserID string
	From   string
	To     string
	Limit  string
}

// ExerciseService provides business logic for users and their exercise logs.
type ExerciseService struct {
	store           store.Store
	engine          *query.Engine
	createIfMissing bool
	now             func() time.Time
}

// ExerciseServiceOption configures an ExerciseService.
type ExerciseServiceOption func(*ExerciseService)

// WithCreateIfMissing makes AppendEntry create unknown users instead of
// failing with not found.
func WithCreateIfMissing(v bool) ExerciseServiceOption {
	return func(s *ExerciseService) { s.createIfMissing = v }
}

// WithClock overrides the clock used for default entry dates.
func WithClock(now func() time.Time) ExerciseServiceOption {
	return func(s *ExerciseService) { s.now = now }
}

// NewExerciseService creates a new ExerciseService.
func NewExerciseService(st store.Store, engine *query.Engine, opts ...ExerciseServiceOption) *ExerciseService {
	s := &ExerciseService{
		store:  st,
		engine: engine,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers a new username. A taken username fails with
// apperr.ErrDuplicateUsername and changes nothing.
func (s *ExerciseService) CreateUser(ctx context.Context, username string) (models.User, error) {
	if username == "" {
		return models.User{}, apperr.Validation("username", "username is required")
	}

	// Fast path only; the store's unique constraint is authoritative.
	_, err := s.store.FindUserByUsername(ctx, username)
	switch {
	case err == nil:
		return models.User{}, apperr.DuplicateUsername()
	case !errors.Is(err, apperr.ErrNotFound):
		return models.User{}, apperr.Persistence("create user", err)
	}

	user, err := s.store.CreateUser(ctx, username)
	if err != nil {
		return models.User{}, apperr.Persistence("create user", err)
	}
	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User created")
	return user, nil
}

// AppendEntry validates and appends one entry to the end of a user's log.
func (s *ExerciseService) AppendEntry(ctx context.Context, in AppendInput) (AppendResult, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return AppendResult{}, apperr.Validation("userId", "userId is required")
	}

	entry, err := s.parseEntry(in)
	if err != nil {
		return AppendResult{}, err
	}

	ul, err := s.store.AppendEntry(ctx, userID, entry, store.AppendOptions{CreateIfMissing: s.createIfMissing})
	if err != nil {
		return AppendResult{}, apperr.Persistence("append entry", err)
	}
	if len(ul.Entries) == 0 {
		return AppendResult{}, apperr.Persistence("append entry", errors.New("appended entry missing from returned log"))
	}

	log.Debug().Str("user_id", userID).Int("entries", len(ul.Entries)).Msg("Exercise appended")
	return AppendResult{User: ul.User, Entry: ul.Entries[len(ul.Entries)-1]}, nil
}

func (s *ExerciseService) parseEntry(in AppendInput) (models.LogEntry, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.LogEntry{}, apperr.InvalidEntry("description", "description is required")
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(in.Duration), 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return models.LogEntry{}, apperr.InvalidEntry("duration", "duration must be a number")
	}
	if duration <= 0 {
		return models.LogEntry{}, apperr.InvalidEntry("duration", "duration must be greater than zero")
	}

	date := models.Day(s.now().UTC())
	if strings.TrimSpace(in.Date) != "" {
		date, err = models.ParseDate(in.Date)
		if err != nil {
			return models.LogEntry{}, apperr.InvalidEntry("date", "date must be a date in YYYY-MM-DD format")
		}
	}

	return models.LogEntry{Description: description, Duration: duration, Date: date}, nil
}

// QueryLog returns a bounded view of a user's log. An unknown user yields an
// empty result rather than an error.
func (s *ExerciseService) QueryLog(ctx context.Context, in LogInput) (query.Result, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return query.Result{}, apperr.MissingUserID()
	}

	params, err := query.ParseParams(in.From, in.To, in.Limit)
	if err != nil {
		return query.Result{}, err
	}

	ul, err := s.store.LoadLog(ctx, userID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		log.Debug().Str("user_id", userID).Msg("Log query for unknown user")
		return s.engine.Run(userID, nil, params), nil
	case err != nil:
		return query.Result{}, apperr.Persistence("query log", err)
	}

	return s.engine.Run(userID, &ul, params), nil
}

// ListUsers enumerates all users.
func (s *ExerciseService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Persistence("list users", err)
	}
	return users, nil
}
