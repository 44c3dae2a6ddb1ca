package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomokit/pomokit/internal/domain"
)

func TestTaskRepository_SaveAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	task, err := domain.NewTask("Write report")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, task))

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)
	assert.Equal(t, "Write report", found.Text)
	assert.False(t, found.Completed)
	assert.Nil(t, found.CompletedAt)
	assert.Equal(t, 0, found.Priority)
	assert.Equal(t, 1, found.EstimatedPomodoros)
	assert.Equal(t, 0, found.ActualPomodoros)
	assert.WithinDuration(t, task.CreatedAt, found.CreatedAt, time.Second)
}

func TestTaskRepository_FindByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Tasks().FindByID(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepository_FindAll_Ordering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mk := func(text string, priority int, createdAt time.Time) *domain.Task {
		task, err := domain.NewTask(text)
		require.NoError(t, err)
		task.Priority = priority
		task.CreatedAt = createdAt
		require.NoError(t, repo.Save(ctx, task))
		return task
	}

	low := mk("low priority", 0, base.Add(2*time.Hour))
	highOld := mk("high, older", 5, base)
	highNew := mk("high, newer", 5, base.Add(time.Hour))
	negative := mk("deprioritized", -1, base.Add(3*time.Hour))

	tasks, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	// Priority descending, then creation timestamp descending.
	assert.Equal(t, highNew.ID, tasks[0].ID)
	assert.Equal(t, highOld.ID, tasks[1].ID)
	assert.Equal(t, low.ID, tasks[2].ID)
	assert.Equal(t, negative.ID, tasks[3].ID)
}

func TestTaskRepository_SetCompleted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, _ := domain.NewTask("Finish me")
	require.NoError(t, store.Tasks().Save(ctx, task))

	require.NoError(t, store.Tasks().SetCompleted(ctx, task.ID, true))

	found, err := store.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, found.Completed)
	require.NotNil(t, found.CompletedAt)

	today := domain.DateKey(time.Now())
	stat, err := store.Stats().StatsForDate(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, stat.TasksCompleted)

	// Un-complete clears the timestamp and leaves the aggregate alone.
	require.NoError(t, store.Tasks().SetCompleted(ctx, task.ID, false))
	found, err = store.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, found.Completed)
	assert.Nil(t, found.CompletedAt)

	stat, err = store.Stats().StatsForDate(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, stat.TasksCompleted)
}

func TestTaskRepository_SetCompleted_OnlyTransitionsBump(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, _ := domain.NewTask("Toggle repeatedly")
	require.NoError(t, store.Tasks().Save(ctx, task))

	require.NoError(t, store.Tasks().SetCompleted(ctx, task.ID, true))
	// Completing an already-completed task is not a transition.
	require.NoError(t, store.Tasks().SetCompleted(ctx, task.ID, true))

	stat, err := store.Stats().StatsForDate(ctx, domain.DateKey(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 1, stat.TasksCompleted)
}

func TestTaskRepository_SetCompleted_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.Tasks().SetCompleted(context.Background(), "missing", true)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepository_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	task, _ := domain.NewTask("Draft")
	require.NoError(t, repo.Save(ctx, task))
	require.NoError(t, repo.SetCompleted(ctx, task.ID, true))

	require.NoError(t, repo.Update(ctx, task.ID, "Final", 3, 4))

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", found.Text)
	assert.Equal(t, 3, found.Priority)
	assert.Equal(t, 4, found.EstimatedPomodoros)
	// Update must not touch completion state or the actual counter.
	assert.True(t, found.Completed)
	assert.Equal(t, 0, found.ActualPomodoros)

	assert.ErrorIs(t, repo.Update(ctx, "missing", "x", 0, 1), domain.ErrTaskNotFound)
}

func TestTaskRepository_Delete_SetsSessionTaskNull(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, _ := domain.NewTask("Doomed")
	require.NoError(t, store.Tasks().Save(ctx, task))

	session, err := domain.NewPomodoroSession(&task.ID, domain.SessionTypeWork, 25)
	require.NoError(t, err)
	require.NoError(t, store.Sessions().Start(ctx, session))

	require.NoError(t, store.Tasks().Delete(ctx, task.ID))

	_, err = store.Tasks().FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	// The session survives with its task link nulled by the engine.
	found, err := store.Sessions().FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, found.TaskID)
}

func TestTaskRepository_Delete_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.Tasks().Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskRepository_Search(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Tasks()

	for _, text := range []string{"Write quarterly report", "Review pull requests", "Water the plants"} {
		task, _ := domain.NewTask(text)
		require.NoError(t, repo.Save(ctx, task))
	}

	matches, err := repo.Search(ctx, "report")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Write quarterly report", matches[0].Text)
}
