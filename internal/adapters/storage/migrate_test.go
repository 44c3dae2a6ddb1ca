package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func schemaVersionOf(t *testing.T, db *sql.DB) int {
	t.Helper()

	var version int
	err := db.QueryRow("SELECT version FROM db_version ORDER BY version DESC LIMIT 1").Scan(&version)
	require.NoError(t, err)
	return version
}

func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	return columns
}

func TestMigrate_FreshDatabase(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db))

	require.Equal(t, schemaVersion, schemaVersionOf(t, db))

	for _, table := range []string{"tasks", "pomodoro_sessions", "daily_stats", "settings", "db_version"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoErrorf(t, err, "table %s missing after migration", table)
	}

	require.Subset(t, tableColumns(t, db, "tasks"),
		[]string{"id", "text", "completed", "created_at", "completed_at", "priority", "estimated_pomodoros", "actual_pomodoros"})
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db))

	_, err := db.Exec(`
		INSERT INTO tasks (id, text, completed, created_at, priority, estimated_pomodoros, actual_pomodoros)
		VALUES ('t1', 'existing row', 0, '2024-03-01T10:00:00Z', 2, 3, 1)`)
	require.NoError(t, err)

	// Re-running against a current database must be a no-op.
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db))

	var text string
	var priority int
	err = db.QueryRow("SELECT text, priority FROM tasks WHERE id = 't1'").Scan(&text, &priority)
	require.NoError(t, err)
	require.Equal(t, "existing row", text)
	require.Equal(t, 2, priority)
	require.Equal(t, schemaVersion, schemaVersionOf(t, db))
}

func TestMigrate_FromVersion1(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	// Build a version-1 database by hand, with a pre-existing row.
	_, err := db.Exec("CREATE TABLE db_version (version INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO db_version (version) VALUES (1)")
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			completed_at TEXT
		)`)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO tasks (id, text, completed, created_at) VALUES ('old', 'pre-migration task', 0, '2023-05-01T08:00:00Z')")
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, db))

	require.Equal(t, schemaVersion, schemaVersionOf(t, db))

	// The old row survives and reports the new columns' defaults.
	var text string
	var priority, estimated, actual int
	err = db.QueryRow(`
		SELECT text, COALESCE(priority, 0), COALESCE(estimated_pomodoros, 1), COALESCE(actual_pomodoros, 0)
		FROM tasks WHERE id = 'old'`).Scan(&text, &priority, &estimated, &actual)
	require.NoError(t, err)
	require.Equal(t, "pre-migration task", text)
	require.Equal(t, 0, priority)
	require.Equal(t, 1, estimated)
	require.Equal(t, 0, actual)
}

func TestMigrate_ConvergesAfterPartialRun(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	// Simulate an interrupted run: version 1 recorded, but part of the
	// version-2 work already applied.
	_, err := db.Exec("CREATE TABLE db_version (version INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO db_version (version) VALUES (1)")
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			completed_at TEXT
		)`)
	require.NoError(t, err)
	_, err = db.Exec("ALTER TABLE tasks ADD COLUMN priority INTEGER DEFAULT 0")
	require.NoError(t, err)

	// Duplicate column adds must read as already applied, not as failure.
	require.NoError(t, Migrate(ctx, db))
	require.Equal(t, schemaVersion, schemaVersionOf(t, db))
	require.Contains(t, tableColumns(t, db, "tasks"), "estimated_pomodoros")
}

func TestMigrate_SameResultFromV0AndV1(t *testing.T) {
	ctx := context.Background()

	fromZero := openRawDB(t)
	require.NoError(t, Migrate(ctx, fromZero))

	fromOne := openRawDB(t)
	_, err := fromOne.Exec("CREATE TABLE db_version (version INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = fromOne.Exec("INSERT INTO db_version (version) VALUES (1)")
	require.NoError(t, err)
	_, err = fromOne.Exec(`
		CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			completed_at TEXT
		)`)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, fromOne))

	require.ElementsMatch(t, tableColumns(t, fromZero, "tasks"), tableColumns(t, fromOne, "tasks"))
	require.ElementsMatch(t, tableColumns(t, fromZero, "pomodoro_sessions"), tableColumns(t, fromOne, "pomodoro_sessions"))
	require.ElementsMatch(t, tableColumns(t, fromZero, "daily_stats"), tableColumns(t, fromOne, "daily_stats"))
	require.Equal(t, schemaVersionOf(t, fromZero), schemaVersionOf(t, fromOne))
}
