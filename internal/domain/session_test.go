package domain

import (
	"testing"
	"time"
)

func TestNewPomodoroSession(t *testing.T) {
	taskID := "some-task"

	tests := []struct {
		name        string
		taskID      *string
		sessionType SessionType
		duration    int
		errExpected error
	}{
		{
			name:        "work session with task",
			taskID:      &taskID,
			sessionType: SessionTypeWork,
			duration:    25,
		},
		{
			name:        "break session without task",
			sessionType: SessionTypeShortBreak,
			duration:    5,
		},
		{
			name:        "long break",
			sessionType: SessionTypeLongBreak,
			duration:    15,
		},
		{
			name:        "unknown type rejected",
			sessionType: SessionType("nap"),
			duration:    25,
			errExpected: ErrInvalidSessionType,
		},
		{
			name:        "zero duration rejected",
			sessionType: SessionTypeWork,
			duration:    0,
			errExpected: ErrInvalidDuration,
		},
		{
			name:        "negative duration rejected",
			sessionType: SessionTypeWork,
			duration:    -5,
			errExpected: ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewPomodoroSession(tt.taskID, tt.sessionType, tt.duration)

			if tt.errExpected != nil {
				if err != tt.errExpected {
					t.Errorf("NewPomodoroSession() error = %v, want %v", err, tt.errExpected)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewPomodoroSession() unexpected error = %v", err)
			}
			if session.ID == "" {
				t.Error("NewPomodoroSession() did not assign an ID")
			}
			if session.CompletedAt != nil {
				t.Error("new session should not have a completion timestamp")
			}
			if session.Interrupted {
				t.Error("new session should not be interrupted")
			}
			if session.StartedAt.IsZero() {
				t.Error("NewPomodoroSession() did not set start timestamp")
			}
		})
	}
}

func TestPomodoroSession_Qualifies(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		session PomodoroSession
		want    bool
	}{
		{
			name:    "completed work session",
			session: PomodoroSession{Type: SessionTypeWork, CompletedAt: &now},
			want:    true,
		},
		{
			name:    "running work session",
			session: PomodoroSession{Type: SessionTypeWork},
			want:    false,
		},
		{
			name:    "interrupted work session",
			session: PomodoroSession{Type: SessionTypeWork, CompletedAt: &now, Interrupted: true},
			want:    false,
		},
		{
			name:    "completed break",
			session: PomodoroSession{Type: SessionTypeShortBreak, CompletedAt: &now},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Qualifies(); got != tt.want {
				t.Errorf("Qualifies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeatmapLevel(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{5, 2},
		{6, 3},
		{9, 3},
		{10, 4},
		{42, 4},
	}

	for _, tt := range tests {
		if got := HeatmapLevel(tt.count); got != tt.want {
			t.Errorf("HeatmapLevel(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}
