package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// schemaVersion is the highest migration known to this build.
const schemaVersion = 2

// Migrations are strictly additive and must tolerate re-application: an
// interrupted run may leave later steps partially applied without the
// version row, and the next start has to converge rather than fail.
var migrations = []func(ctx context.Context, db *sql.DB) error{
	migrateV1,
	migrateV2,
}

// Migrate brings a possibly-absent or older database to the current schema
// version. The version row is written once, after every pending step has
// succeeded. Re-running against a current database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS db_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("failed to create version table: %w", err)
	}

	current := 0
	err := db.QueryRowContext(ctx,
		"SELECT version FROM db_version ORDER BY version DESC LIMIT 1").Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if current >= schemaVersion {
		return nil
	}

	for v := current + 1; v <= schemaVersion; v++ {
		if err := migrations[v-1](ctx, db); err != nil {
			return fmt.Errorf("migration to version %d failed: %w", v, err)
		}
	}

	if _, err := db.ExecContext(ctx,
		"INSERT OR REPLACE INTO db_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

// migrateV1 creates the original tasks table.
func migrateV1(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			completed_at TEXT
		)`)
	if err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}
	return nil
}

// migrateV2 adds the pomodoro bookkeeping columns to tasks and creates the
// session log, daily aggregates and settings tables.
func migrateV2(ctx context.Context, db *sql.DB) error {
	taskColumns := []string{
		"priority INTEGER DEFAULT 0",
		"estimated_pomodoros INTEGER DEFAULT 1",
		"actual_pomodoros INTEGER DEFAULT 0",
	}
	for _, column := range taskColumns {
		if err := addColumn(ctx, db, "tasks", column); err != nil {
			return err
		}
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pomodoro_sessions (
			id TEXT PRIMARY KEY,
			task_id TEXT,
			session_type TEXT NOT NULL CHECK(session_type IN ('work', 'short_break', 'long_break')),
			duration_minutes INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			completed_at TEXT,
			interrupted BOOLEAN DEFAULT 0,
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE SET NULL
		)`); err != nil {
		return fmt.Errorf("failed to create pomodoro_sessions table: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS daily_stats (
			date TEXT PRIMARY KEY,
			pomodoros_completed INTEGER DEFAULT 0,
			total_work_time INTEGER DEFAULT 0,
			tasks_completed INTEGER DEFAULT 0,
			created_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to create daily_stats table: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}

	return nil
}

// addColumn applies an additive column migration. A duplicate column means
// the step already ran; that is success, not failure.
func addColumn(ctx context.Context, db *sql.DB, table, columnDef string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnDef))
	if err != nil && strings.Contains(err.Error(), "duplicate column name") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to add column to %s: %w", table, err)
	}
	return nil
}
