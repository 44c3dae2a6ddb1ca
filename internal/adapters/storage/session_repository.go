package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pomokit/pomokit/internal/domain"
	"github.com/pomokit/pomokit/internal/ports"
)

// sessionRepository implements ports.SessionRepository using SQLite.
type sessionRepository struct {
	db *sql.DB
}

// newSessionRepository creates a new session repository.
func newSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, task_id, session_type, duration_minutes, started_at, completed_at, interrupted`

// Start appends a new session to the log. The session type was validated
// by the domain constructor; the table CHECK constraint backs it up.
func (r *sessionRepository) Start(ctx context.Context, session *domain.PomodoroSession) error {
	if !domain.ValidSessionType(session.Type) {
		return domain.ErrInvalidSessionType
	}

	query := `
		INSERT INTO pomodoro_sessions (id, task_id, session_type, duration_minutes, started_at, completed_at, interrupted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.TaskID,
		string(session.Type),
		session.DurationMinutes,
		formatTime(session.StartedAt),
		formatTimePtr(session.CompletedAt),
		session.Interrupted,
	)

	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// FindByID retrieves a session by its unique identifier.
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*domain.PomodoroSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM pomodoro_sessions WHERE id = ?`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return session, nil
}

// Complete finishes a session. When a work session completes without
// interruption, the session row, the linked task's actual count and
// today's daily stat are written in one transaction; a crash cannot leave
// a committed partial state. Completing an already-completed session is a
// no-op so the aggregates never double-count.
func (r *sessionRepository) Complete(ctx context.Context, id string, wasCompleted, wasInterrupted bool) error {
	return withBusyRetry(ctx, func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var sessionType string
		var taskID sql.NullString
		var durationMinutes int
		var completedAt sql.NullString
		err = tx.QueryRowContext(ctx,
			"SELECT session_type, task_id, duration_minutes, completed_at FROM pomodoro_sessions WHERE id = ?",
			id).Scan(&sessionType, &taskID, &durationMinutes, &completedAt)
		if err == sql.ErrNoRows {
			return domain.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up session: %w", err)
		}

		if completedAt.Valid {
			return nil
		}

		now := time.Now().UTC()
		var newCompletedAt any
		if wasCompleted {
			newCompletedAt = formatTime(now)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE pomodoro_sessions SET completed_at = ?, interrupted = ? WHERE id = ?",
			newCompletedAt, wasInterrupted, id); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		if sessionType == string(domain.SessionTypeWork) && wasCompleted && !wasInterrupted {
			if taskID.Valid {
				if _, err := tx.ExecContext(ctx,
					"UPDATE tasks SET actual_pomodoros = actual_pomodoros + 1 WHERE id = ?",
					taskID.String); err != nil {
					return fmt.Errorf("failed to bump task pomodoro count: %w", err)
				}
			}

			if err := bumpWorkSession(ctx, tx, domain.DateKey(now), durationMinutes, now); err != nil {
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit session completion: %w", err)
		}
		return nil
	})
}

// FindByTask retrieves all sessions linked to a task, newest first.
func (r *sessionRepository) FindByTask(ctx context.Context, taskID string) ([]*domain.PomodoroSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM pomodoro_sessions WHERE task_id = ? ORDER BY started_at DESC`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions by task: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// scanSession scans a single session row.
func scanSession(row scanner) (*domain.PomodoroSession, error) {
	var session domain.PomodoroSession
	var taskID sql.NullString
	var startedAt string
	var completedAt sql.NullString

	err := row.Scan(
		&session.ID,
		&taskID,
		&session.Type,
		&session.DurationMinutes,
		&startedAt,
		&completedAt,
		&session.Interrupted,
	)
	if err != nil {
		return nil, err
	}

	if taskID.Valid {
		session.TaskID = &taskID.String
	}
	if session.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if session.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}

	return &session, nil
}

// scanSessions scans multiple session rows.
func scanSessions(rows *sql.Rows) ([]*domain.PomodoroSession, error) {
	var sessions []*domain.PomodoroSession

	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}
