// Package services implements the application layer (use cases) between
// the command surface and the storage ports.
package services

import (
	"context"
	"fmt"

	"github.com/pomokit/pomokit/internal/domain"
	"github.com/pomokit/pomokit/internal/ports"
)

// TaskService handles task-related use cases.
type TaskService struct {
	storage ports.Storage
}

// NewTaskService creates a new task service.
func NewTaskService(storage ports.Storage) *TaskService {
	return &TaskService{storage: storage}
}

// AddTask creates a new task and returns the full entity.
// A non-positive estimate keeps the default of one pomodoro.
func (s *TaskService) AddTask(ctx context.Context, text string, priority, estimatedPomodoros int) (*domain.Task, error) {
	task, err := domain.NewTask(text)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	task.Priority = priority
	if estimatedPomodoros > 0 {
		task.EstimatedPomodoros = estimatedPomodoros
	}

	if err := s.storage.Tasks().Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return task, nil
}

// ListTasks retrieves all tasks, highest priority first.
func (s *TaskService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.storage.Tasks().FindAll(ctx)
}

// GetTask retrieves a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.storage.Tasks().FindByID(ctx, id)
}

// SearchTasks does a fuzzy match of tasks by text.
func (s *TaskService) SearchTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	return s.storage.Tasks().Search(ctx, query)
}

// CompleteTask toggles a task's completion flag.
func (s *TaskService) CompleteTask(ctx context.Context, id string, completed bool) error {
	return s.storage.Tasks().SetCompleted(ctx, id, completed)
}

// UpdateTaskRequest contains the editable task fields.
type UpdateTaskRequest struct {
	ID                 string
	Text               string
	Priority           int
	EstimatedPomodoros int
}

// UpdateTask modifies text, priority and estimate in place.
func (s *TaskService) UpdateTask(ctx context.Context, req UpdateTaskRequest) error {
	if req.Text == "" {
		return domain.ErrEmptyTaskText
	}
	if req.EstimatedPomodoros <= 0 {
		return fmt.Errorf("estimated pomodoros must be positive")
	}
	return s.storage.Tasks().Update(ctx, req.ID, req.Text, req.Priority, req.EstimatedPomodoros)
}

// DeleteTask removes a task. Its sessions survive with the link nulled.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.storage.Tasks().Delete(ctx, id)
}

// TaskWithStats bundles a task with its session history and the minutes
// spent on it (work sessions not interrupted).
func (s *TaskService) TaskWithStats(ctx context.Context, id string) (*domain.TaskWithStats, error) {
	task, err := s.storage.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sessions, err := s.storage.Sessions().FindByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load task sessions: %w", err)
	}

	totalTimeSpent := 0
	for _, session := range sessions {
		if session.IsWorkSession() && !session.Interrupted {
			totalTimeSpent += session.DurationMinutes
		}
	}

	return &domain.TaskWithStats{
		Task:             *task,
		PomodoroSessions: sessions,
		TotalTimeSpent:   totalTimeSpent,
	}, nil
}
