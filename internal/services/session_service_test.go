package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomokit/pomokit/internal/domain"
)

func TestSessionService_StartSession(t *testing.T) {
	store := newTestStorage(t)
	svc := NewSessionService(store)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, StartSessionRequest{
		Type:            domain.SessionTypeWork,
		DurationMinutes: 25,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Nil(t, session.TaskID)
	assert.Nil(t, session.CompletedAt)
}

func TestSessionService_StartSession_Validation(t *testing.T) {
	store := newTestStorage(t)
	svc := NewSessionService(store)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, StartSessionRequest{
		Type:            domain.SessionType("nap"),
		DurationMinutes: 25,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSessionType)

	_, err = svc.StartSession(ctx, StartSessionRequest{
		Type:            domain.SessionTypeWork,
		DurationMinutes: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	missing := "missing-task"
	_, err = svc.StartSession(ctx, StartSessionRequest{
		TaskID:          &missing,
		Type:            domain.SessionTypeWork,
		DurationMinutes: 25,
	})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestSessionService_CompleteUpdatesAggregates(t *testing.T) {
	store := newTestStorage(t)
	tasks := NewTaskService(store)
	sessions := NewSessionService(store)
	stats := NewStatsService(store)
	ctx := context.Background()

	task, err := tasks.AddTask(ctx, "Write report", 0, 0)
	require.NoError(t, err)

	session, err := sessions.StartSession(ctx, StartSessionRequest{
		TaskID:          &task.ID,
		Type:            domain.SessionTypeWork,
		DurationMinutes: 25,
	})
	require.NoError(t, err)

	require.NoError(t, sessions.CompleteSession(ctx, session.ID, true, false))

	updated, err := tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ActualPomodoros)

	today, err := stats.TodayStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, today.PomodorosCompleted)
	assert.Equal(t, 25, today.TotalWorkTime)

	points, err := stats.Heatmap(ctx, 365)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, domain.DateKey(time.Now()), points[0].Date)
	assert.Equal(t, 1, points[0].Count)
	assert.Equal(t, 1, points[0].Level)
}

func TestStatsService_StatsForDate(t *testing.T) {
	store := newTestStorage(t)
	svc := NewStatsService(store)
	ctx := context.Background()

	stat, err := svc.StatsForDate(ctx, "2099-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2099-01-01", stat.Date)
	assert.Zero(t, stat.PomodorosCompleted)
	assert.Zero(t, stat.TotalWorkTime)
	assert.Zero(t, stat.TasksCompleted)

	_, err = svc.StatsForDate(ctx, "January 1st")
	assert.Error(t, err)
}
