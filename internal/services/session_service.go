package services

import (
	"context"
	"fmt"

	"github.com/pomokit/pomokit/internal/domain"
	"github.com/pomokit/pomokit/internal/ports"
)

// SessionService handles pomodoro session use cases.
type SessionService struct {
	storage ports.Storage
}

// NewSessionService creates a new session service.
func NewSessionService(storage ports.Storage) *SessionService {
	return &SessionService{storage: storage}
}

// StartSessionRequest contains the data needed to start a session.
type StartSessionRequest struct {
	TaskID          *string
	Type            domain.SessionType
	DurationMinutes int
}

// StartSession appends a new session to the log and returns it.
func (s *SessionService) StartSession(ctx context.Context, req StartSessionRequest) (*domain.PomodoroSession, error) {
	if req.TaskID != nil {
		if _, err := s.storage.Tasks().FindByID(ctx, *req.TaskID); err != nil {
			return nil, err
		}
	}

	session, err := domain.NewPomodoroSession(req.TaskID, req.Type, req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Sessions().Start(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return session, nil
}

// CompleteSession finishes a session. A completed, non-interrupted work
// session updates the linked task's count and today's stats atomically.
func (s *SessionService) CompleteSession(ctx context.Context, id string, wasCompleted, wasInterrupted bool) error {
	return s.storage.Sessions().Complete(ctx, id, wasCompleted, wasInterrupted)
}

// GetSession retrieves a single session by ID.
func (s *SessionService) GetSession(ctx context.Context, id string) (*domain.PomodoroSession, error) {
	return s.storage.Sessions().FindByID(ctx, id)
}

// TaskHistory retrieves a task's sessions, newest first.
func (s *SessionService) TaskHistory(ctx context.Context, taskID string) ([]*domain.PomodoroSession, error) {
	return s.storage.Sessions().FindByTask(ctx, taskID)
}
