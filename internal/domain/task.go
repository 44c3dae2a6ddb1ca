// Package domain contains the core entities of the pomodoro store.
// These entities represent the durable log (tasks and sessions) and its
// derived aggregates, independent of any storage or transport concern.
package domain

import (
	"errors"
	"time"
)

// Common domain errors.
var (
	ErrEmptyTaskText      = errors.New("task text cannot be empty")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidSessionType = errors.New("invalid session type")
	ErrInvalidDuration    = errors.New("duration must be positive")
)

// Task represents a unit of work the user tracks pomodoros against.
type Task struct {
	ID                 string     `json:"id"`
	Text               string     `json:"text"`
	Completed          bool       `json:"completed"`
	CreatedAt          time.Time  `json:"created_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	Priority           int        `json:"priority"`
	EstimatedPomodoros int        `json:"estimated_pomodoros"`
	ActualPomodoros    int        `json:"actual_pomodoros"`
}

// NewTask creates a new task with the given text and default bookkeeping:
// priority 0, one estimated pomodoro, no actuals yet.
func NewTask(text string) (*Task, error) {
	if text == "" {
		return nil, ErrEmptyTaskText
	}

	return &Task{
		ID:                 generateID(),
		Text:               text,
		CreatedAt:          time.Now().UTC(),
		Priority:           0,
		EstimatedPomodoros: 1,
		ActualPomodoros:    0,
	}, nil
}

// SetCompleted toggles the completion flag. The completion timestamp is set
// on the transition to completed and cleared when un-completed.
func (t *Task) SetCompleted(completed bool) {
	t.Completed = completed
	if completed {
		now := time.Now().UTC()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}
