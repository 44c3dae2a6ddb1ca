package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pomokit/pomokit/internal/domain"
	"github.com/pomokit/pomokit/internal/ports"
)

// statsRepository implements ports.StatsRepository using SQLite. The write
// side of the aggregates lives in the bump helpers below, which run inside
// the task/session repositories' transactions.
type statsRepository struct {
	db *sql.DB
}

// newStatsRepository creates a new stats repository.
func newStatsRepository(db *sql.DB) ports.StatsRepository {
	return &statsRepository{db: db}
}

const defaultDailyStatsLimit = 30
const defaultHeatmapDays = 365

// bumpTaskCompleted increments the date's tasks_completed, creating the
// row on first use. Single-statement upsert: two concurrent completions on
// the same date both count.
func bumpTaskCompleted(ctx context.Context, ex execer, date string, now time.Time) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO daily_stats (date, pomodoros_completed, total_work_time, tasks_completed, created_at)
		VALUES (?, 0, 0, 1, ?)
		ON CONFLICT(date) DO UPDATE SET tasks_completed = tasks_completed + 1`,
		date, formatTime(now))
	if err != nil {
		return fmt.Errorf("failed to bump tasks completed: %w", err)
	}
	return nil
}

// bumpWorkSession counts one finished pomodoro and its work minutes
// against the date. Same upsert shape as bumpTaskCompleted.
func bumpWorkSession(ctx context.Context, ex execer, date string, durationMinutes int, now time.Time) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO daily_stats (date, pomodoros_completed, total_work_time, tasks_completed, created_at)
		VALUES (?, 1, ?, 0, ?)
		ON CONFLICT(date) DO UPDATE SET
			pomodoros_completed = pomodoros_completed + 1,
			total_work_time = total_work_time + ?`,
		date, durationMinutes, formatTime(now), durationMinutes)
	if err != nil {
		return fmt.Errorf("failed to bump work session stats: %w", err)
	}
	return nil
}

// DailyStats returns up to limit aggregate rows, newest first.
func (r *statsRepository) DailyStats(ctx context.Context, limit int) ([]*domain.DailyStat, error) {
	if limit <= 0 {
		limit = defaultDailyStatsLimit
	}

	query := `
		SELECT date, pomodoros_completed, total_work_time, tasks_completed
		FROM daily_stats
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanDailyStats(rows)
}

// StatsForDate returns the aggregate for one date. A missing row is the
// designed zero default, not an error.
func (r *statsRepository) StatsForDate(ctx context.Context, date string) (*domain.DailyStat, error) {
	query := `
		SELECT date, pomodoros_completed, total_work_time, tasks_completed
		FROM daily_stats
		WHERE date = ?
	`

	var stat domain.DailyStat
	err := r.db.QueryRowContext(ctx, query, date).Scan(
		&stat.Date,
		&stat.PomodorosCompleted,
		&stat.TotalWorkTime,
		&stat.TasksCompleted,
	)
	if err == sql.ErrNoRows {
		return &domain.DailyStat{Date: date}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query stats for date: %w", err)
	}

	return &stat, nil
}

// Heatmap returns one point per day with at least one qualifying work
// session in the trailing window, ascending by date. Days without
// qualifying sessions are omitted; callers wanting a dense series fill the
// gaps themselves. Sessions bucket by their start date.
func (r *statsRepository) Heatmap(ctx context.Context, days int) ([]*domain.HeatmapPoint, error) {
	if days <= 0 {
		days = defaultHeatmapDays
	}

	startDate := domain.DateKey(time.Now().UTC().AddDate(0, 0, -days))

	// Timestamps are RFC 3339, so the first ten bytes are the UTC date.
	query := `
		SELECT substr(started_at, 1, 10) AS day, COUNT(*) AS count
		FROM pomodoro_sessions
		WHERE session_type = 'work'
		  AND interrupted = 0
		  AND completed_at IS NOT NULL
		  AND substr(started_at, 1, 10) >= ?
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query, startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query heatmap: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []*domain.HeatmapPoint
	for rows.Next() {
		var point domain.HeatmapPoint
		if err := rows.Scan(&point.Date, &point.Count); err != nil {
			return nil, fmt.Errorf("failed to scan heatmap point: %w", err)
		}
		point.Level = domain.HeatmapLevel(point.Count)
		points = append(points, &point)
	}

	return points, rows.Err()
}

// Export returns a full snapshot: tasks, sessions and daily stats, each
// ordered as in its own listing operation.
func (r *statsRepository) Export(ctx context.Context) (*domain.Export, error) {
	taskRows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY priority DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for export: %w", err)
	}
	defer func() { _ = taskRows.Close() }()

	tasks, err := scanTasks(taskRows)
	if err != nil {
		return nil, err
	}

	sessionRows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM pomodoro_sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions for export: %w", err)
	}
	defer func() { _ = sessionRows.Close() }()

	sessions, err := scanSessions(sessionRows)
	if err != nil {
		return nil, err
	}

	statRows, err := r.db.QueryContext(ctx, `
		SELECT date, pomodoros_completed, total_work_time, tasks_completed
		FROM daily_stats ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats for export: %w", err)
	}
	defer func() { _ = statRows.Close() }()

	stats, err := scanDailyStats(statRows)
	if err != nil {
		return nil, err
	}

	return &domain.Export{
		Tasks:            tasks,
		PomodoroSessions: sessions,
		DailyStats:       stats,
		ExportedAt:       time.Now().UTC(),
	}, nil
}

// scanDailyStats scans multiple daily stat rows.
func scanDailyStats(rows *sql.Rows) ([]*domain.DailyStat, error) {
	var stats []*domain.DailyStat

	for rows.Next() {
		var stat domain.DailyStat
		if err := rows.Scan(&stat.Date, &stat.PomodorosCompleted, &stat.TotalWorkTime, &stat.TasksCompleted); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	return stats, rows.Err()
}
