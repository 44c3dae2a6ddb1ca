package domain

import "time"

// SessionType represents the kind of pomodoro session.
type SessionType string

const (
	SessionTypeWork       SessionType = "work"
	SessionTypeShortBreak SessionType = "short_break"
	SessionTypeLongBreak  SessionType = "long_break"
)

// ValidSessionType reports whether t is one of the closed set of kinds
// accepted at write time.
func ValidSessionType(t SessionType) bool {
	switch t {
	case SessionTypeWork, SessionTypeShortBreak, SessionTypeLongBreak:
		return true
	}
	return false
}

// PomodoroSession is one interval of the append-only session log. A session
// may outlive the task it was started against: TaskID becomes nil when the
// task is deleted.
type PomodoroSession struct {
	ID              string      `json:"id"`
	TaskID          *string     `json:"task_id"`
	Type            SessionType `json:"session_type"`
	DurationMinutes int         `json:"duration_minutes"`
	StartedAt       time.Time   `json:"started_at"`
	CompletedAt     *time.Time  `json:"completed_at"`
	Interrupted     bool        `json:"interrupted"`
}

// NewPomodoroSession creates a session in its running state.
func NewPomodoroSession(taskID *string, sessionType SessionType, durationMinutes int) (*PomodoroSession, error) {
	if !ValidSessionType(sessionType) {
		return nil, ErrInvalidSessionType
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	return &PomodoroSession{
		ID:              generateID(),
		TaskID:          taskID,
		Type:            sessionType,
		DurationMinutes: durationMinutes,
		StartedAt:       time.Now().UTC(),
	}, nil
}

// IsWorkSession returns true for work (non-break) sessions.
func (s *PomodoroSession) IsWorkSession() bool {
	return s.Type == SessionTypeWork
}

// Qualifies reports whether the session counts toward totals: a work
// session that completed without interruption.
func (s *PomodoroSession) Qualifies() bool {
	return s.Type == SessionTypeWork && s.CompletedAt != nil && !s.Interrupted
}
