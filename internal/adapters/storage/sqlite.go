// Package storage provides the SQLite implementation of the storage ports:
// the schema migrator, the pooled connection handling and the task, session
// and stats repositories over the single pomodoro.db file.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pomokit/pomokit/internal/ports"
	"modernc.org/sqlite"
)

// DBFileName is the database file created inside the application data
// directory.
const DBFileName = "pomodoro.db"

// maxOpenConns bounds the connection pool. Commands hold at most one
// connection each, so a handful is plenty and nested acquires cannot
// exhaust the pool.
const maxOpenConns = 4

// sqliteStorage implements ports.Storage over one database file.
type sqliteStorage struct {
	db          *sql.DB
	taskRepo    ports.TaskRepository
	sessionRepo ports.SessionRepository
	statsRepo   ports.StatsRepository
}

var _ ports.Storage = (*sqliteStorage)(nil)

// Open opens (or creates) the database file inside dataDir and brings the
// schema to the current version before handing out repositories.
func Open(dataDir string) (ports.Storage, error) {
	return OpenPath(filepath.Join(dataDir, DBFileName))
}

// OpenPath opens the database at an explicit file path.
func OpenPath(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// foreign_keys drives the ON DELETE SET NULL link from sessions to
	// tasks; busy_timeout lets the engine wait out short lock contention
	// before we see SQLITE_BUSY at all.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	if err := Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &sqliteStorage{
		db:          db,
		taskRepo:    newTaskRepository(db),
		sessionRepo: newSessionRepository(db),
		statsRepo:   newStatsRepository(db),
	}, nil
}

// OpenMemory creates an in-memory store for testing. The pool is pinned to
// a single connection because every connection to :memory: would otherwise
// get its own empty database.
func OpenMemory() (ports.Storage, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &sqliteStorage{
		db:          db,
		taskRepo:    newTaskRepository(db),
		sessionRepo: newSessionRepository(db),
		statsRepo:   newStatsRepository(db),
	}, nil
}

// Tasks returns the task repository.
func (s *sqliteStorage) Tasks() ports.TaskRepository {
	return s.taskRepo
}

// Sessions returns the session repository.
func (s *sqliteStorage) Sessions() ports.SessionRepository {
	return s.sessionRepo
}

// Stats returns the stats repository.
func (s *sqliteStorage) Stats() ports.StatsRepository {
	return s.statsRepo
}

// Close closes the connection pool.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// execer is satisfied by *sql.DB and *sql.Tx so the daily-stat upserts can
// run inside whichever transaction triggered them.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// maxBusyRetries bounds how often a contended write is retried before the
// lock error is surfaced to the caller.
const maxBusyRetries = 10

// withBusyRetry runs fn, retrying a bounded number of times when the
// engine reports lock contention. Non-lock errors surface immediately.
func withBusyRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !isBusyError(err) || attempt >= maxBusyRetries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
}

// isBusyError checks whether an error is transient lock contention.
func isBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code() & 0xff
	return code == 5 || code == 6 // SQLITE_BUSY, SQLITE_LOCKED
}

// Timestamps are persisted as RFC 3339 UTC strings so SQLite's date
// handling and external consumers agree on the format.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return ts, nil
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	ts, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
