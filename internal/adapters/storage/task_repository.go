package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/pomokit/pomokit/internal/domain"
	"github.com/pomokit/pomokit/internal/ports"
)

// taskRepository implements ports.TaskRepository using SQLite.
type taskRepository struct {
	db *sql.DB
}

// newTaskRepository creates a new task repository.
func newTaskRepository(db *sql.DB) ports.TaskRepository {
	return &taskRepository{db: db}
}

// taskColumns is the select list shared by every task query. The COALESCEs
// cover rows written before the version-2 columns existed.
const taskColumns = `id, text, completed, created_at, completed_at,
	COALESCE(priority, 0), COALESCE(estimated_pomodoros, 1), COALESCE(actual_pomodoros, 0)`

// Save persists a new task.
func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, text, completed, created_at, completed_at, priority, estimated_pomodoros, actual_pomodoros)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Text,
		task.Completed,
		formatTime(task.CreatedAt),
		formatTimePtr(task.CompletedAt),
		task.Priority,
		task.EstimatedPomodoros,
		task.ActualPomodoros,
	)

	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	return nil
}

// FindByID retrieves a task by its unique identifier.
func (r *taskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// FindAll retrieves all tasks, highest priority first, newest first within
// the same priority.
func (r *taskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY priority DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTasks(rows)
}

// Search does a fuzzy match of tasks by text.
func (r *taskRepository) Search(ctx context.Context, query string) ([]*domain.Task, error) {
	tasks, err := r.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks for fuzzy search: %w", err)
	}

	texts := make([]string, len(tasks))
	for i, task := range tasks {
		texts[i] = task.Text
	}

	matches := fuzzy.Find(query, texts)

	var result []*domain.Task
	for _, match := range matches {
		if match.Score > 0 {
			result = append(result, tasks[match.Index])
		}
	}

	return result, nil
}

// SetCompleted toggles a task's completion flag. The completion timestamp
// follows the flag, and the transition to completed bumps today's
// tasks_completed aggregate in the same transaction so a reader never sees
// one without the other.
func (r *taskRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	return withBusyRetry(ctx, func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var wasCompleted bool
		err = tx.QueryRowContext(ctx, "SELECT completed FROM tasks WHERE id = ?", id).Scan(&wasCompleted)
		if err == sql.ErrNoRows {
			return domain.ErrTaskNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up task: %w", err)
		}

		now := time.Now().UTC()
		var completedAt any
		if completed {
			completedAt = formatTime(now)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET completed = ?, completed_at = ? WHERE id = ?",
			completed, completedAt, id); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if completed && !wasCompleted {
			if err := bumpTaskCompleted(ctx, tx, domain.DateKey(now), now); err != nil {
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit task completion: %w", err)
		}
		return nil
	})
}

// Update modifies text, priority and estimate in place. Completion state
// and the actual pomodoro counter are not touched.
func (r *taskRepository) Update(ctx context.Context, id, text string, priority, estimatedPomodoros int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET text = ?, priority = ?, estimated_pomodoros = ? WHERE id = ?",
		text, priority, estimatedPomodoros, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task. The storage engine nulls the task link on any
// sessions that reference it.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTask scans a single task row.
func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var createdAt string
	var completedAt sql.NullString

	err := row.Scan(
		&task.ID,
		&task.Text,
		&task.Completed,
		&createdAt,
		&completedAt,
		&task.Priority,
		&task.EstimatedPomodoros,
		&task.ActualPomodoros,
	)
	if err != nil {
		return nil, err
	}

	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if task.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}

	return &task, nil
}

// scanTasks scans multiple task rows.
func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}
