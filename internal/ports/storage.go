// Package ports defines the interfaces between the application layer and
// the storage adapter. The repositories own all SQL; cross-table effects
// of a single user action (task completion, session completion) happen
// inside one repository call so callers cannot observe partial state.
package ports

import (
	"context"

	"github.com/pomokit/pomokit/internal/domain"
)

// TaskRepository defines task persistence and priority/estimate bookkeeping.
type TaskRepository interface {
	// Save persists a new task.
	Save(ctx context.Context, task *domain.Task) error

	// FindByID retrieves a task by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindAll retrieves all tasks, highest priority first, then newest first.
	FindAll(ctx context.Context) ([]*domain.Task, error)

	// Search does a fuzzy match of tasks by text.
	Search(ctx context.Context, query string) ([]*domain.Task, error)

	// SetCompleted toggles a task's completion flag. Transitioning to
	// completed also bumps today's tasks_completed aggregate, in the same
	// transaction.
	SetCompleted(ctx context.Context, id string, completed bool) error

	// Update modifies text, priority and estimate in place. Completion
	// state and the actual pomodoro counter are not touched.
	Update(ctx context.Context, id, text string, priority, estimatedPomodoros int) error

	// Delete removes a task. Sessions referencing it keep their rows with
	// the task link nulled by the storage engine.
	Delete(ctx context.Context, id string) error
}

// SessionRepository defines the append-only pomodoro session log.
type SessionRepository interface {
	// Start appends a new session and returns its id.
	Start(ctx context.Context, session *domain.PomodoroSession) error

	// FindByID retrieves a session by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.PomodoroSession, error)

	// Complete finishes a session. For a completed, non-interrupted work
	// session the linked task's actual count and today's daily stat are
	// updated atomically with the session row.
	Complete(ctx context.Context, id string, wasCompleted, wasInterrupted bool) error

	// FindByTask retrieves a task's sessions, newest first.
	FindByTask(ctx context.Context, taskID string) ([]*domain.PomodoroSession, error)
}

// StatsRepository derives the read-only views over the log and aggregates.
type StatsRepository interface {
	// DailyStats returns up to limit aggregate rows, newest first.
	DailyStats(ctx context.Context, limit int) ([]*domain.DailyStat, error)

	// StatsForDate returns the aggregate for one date, zero-valued when no
	// row exists.
	StatsForDate(ctx context.Context, date string) (*domain.DailyStat, error)

	// Heatmap returns one point per day with at least one qualifying work
	// session in the trailing window, ascending by date.
	Heatmap(ctx context.Context, days int) ([]*domain.HeatmapPoint, error)

	// Export returns a full snapshot of tasks, sessions and daily stats.
	Export(ctx context.Context) (*domain.Export, error)
}

// Storage is the combined repository interface handed to the service layer.
type Storage interface {
	Tasks() TaskRepository
	Sessions() SessionRepository
	Stats() StatsRepository

	// Close closes the underlying connection pool.
	Close() error
}
