package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/exercise-tracker/internal/apperr"
	"github.com/isdelr/exercise-tracker/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements Store on top of the schema created by database.Migrate.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// FindUserByUsername retrieves a user by exact username.
func (s *SQLiteStore) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, username, created_at FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user with username", username)
	}
	if err != nil {
		return models.User{}, apperr.Persistence("find user by username", err)
	}
	return user, nil
}

// FindUserByID retrieves a single user by their ID.
func (s *SQLiteStore) FindUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := findUserByID(ctx, s.db, id)
	if err != nil {
		return models.User{}, apperr.Persistence("find user by id", err)
	}
	return user, nil
}

// CreateUser inserts a user with a fresh id. The UNIQUE constraint on
// username is what guarantees uniqueness under concurrent creation.
func (s *SQLiteStore) CreateUser(ctx context.Context, username string) (models.User, error) {
	user := models.User{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users(id, username, created_at) VALUES(?, ?, ?)",
		user.ID, user.Username, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.DuplicateUsername()
		}
		return models.User{}, apperr.Persistence("create user", err)
	}
	return user, nil
}

// AppendEntry pushes entry onto the end of the user's log in one transaction
// and returns the updated log.
func (s *SQLiteStore) AppendEntry(ctx context.Context, userID string, entry models.LogEntry, opts AppendOptions) (models.UserLog, error) {
	var out models.UserLog
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		// Both statements write, so the transaction takes the write lock up
		// front and never has to upgrade a read snapshot.
		if opts.CreateIfMissing {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO users(id, username, created_at) VALUES(?, NULL, ?) ON CONFLICT(id) DO NOTHING",
				userID, time.Now().UTC()); err != nil {
				return fmt.Errorf("create missing user: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO exercises(user_id, description, duration, date) SELECT id, ?, ?, ? FROM users WHERE id = ?",
			entry.Description, entry.Duration, entry.Date.Format(models.DateLayout), userID)
		if err != nil {
			return fmt.Errorf("insert exercise: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("user", userID)
		}

		out, err = loadLog(ctx, tx, userID)
		return err
	})
	if err != nil {
		return models.UserLog{}, apperr.Persistence("append entry", err)
	}
	return out, nil
}

// LoadLog returns the user and their entries in insertion order.
func (s *SQLiteStore) LoadLog(ctx context.Context, userID string) (models.UserLog, error) {
	ul, err := loadLog(ctx, s.db, userID)
	if err != nil {
		return models.UserLog{}, apperr.Persistence("load log", err)
	}
	return ul, nil
}

// ListUsers returns every user in creation order.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, username, created_at FROM users ORDER BY rowid")
	if err != nil {
		return nil, apperr.Persistence("list users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Persistence("list users", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("list users", err)
	}
	return users, nil
}

// Stats counts users and log entries.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM users), (SELECT COUNT(*) FROM exercises)").
		Scan(&st.Users, &st.Entries)
	if err != nil {
		return Stats{}, apperr.Persistence("stats", err)
	}
	return st, nil
}

// Optimize lets SQLite refresh its query planner statistics and folds the
// WAL back into the main database file.
func (s *SQLiteStore) Optimize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return apperr.Persistence("optimize", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)"); err != nil {
		return apperr.Persistence("wal checkpoint", err)
	}
	return nil
}

func findUserByID(ctx context.Context, q queryer, id string) (models.User, error) {
	row := q.QueryRowContext(ctx, "SELECT id, username, created_at FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user", id)
	}
	return user, err
}

func loadLog(ctx context.Context, q queryer, userID string) (models.UserLog, error) {
	user, err := findUserByID(ctx, q, userID)
	if err != nil {
		return models.UserLog{}, err
	}

	rows, err := q.QueryContext(ctx,
		"SELECT description, duration, date FROM exercises WHERE user_id = ? ORDER BY seq", userID)
	if err != nil {
		return models.UserLog{}, err
	}
	defer rows.Close()

	ul := models.UserLog{User: user, Entries: []models.LogEntry{}}
	for rows.Next() {
		var (
			entry models.LogEntry
			date  string
		)
		if err := rows.Scan(&entry.Description, &entry.Duration, &date); err != nil {
			return models.UserLog{}, err
		}
		entry.Date, err = time.Parse(models.DateLayout, date)
		if err != nil {
			return models.UserLog{}, fmt.Errorf("stored date for user %s: %w", userID, err)
		}
		ul.Entries = append(ul.Entries, entry)
	}
	return ul, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (models.User, error) {
	var (
		user     models.User
		username sql.NullString
	)
	if err := row.Scan(&user.ID, &username, &user.CreatedAt); err != nil {
		return models.User{}, err
	}
	user.Username = username.String
	return user, nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
