package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hubplus/internal/cache"
	"hubplus/internal/repo/repotest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestTodoCreateValidation(t *testing.T) {
	ctx := context.Background()
	todos := repotest.NewTodos()
	svc := NewTodoService(todos, repotest.NewGoals(todos), nil, nil)

	_, err := svc.Create(ctx, 1, "   ", "", nil, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	past := time.Now().Add(-time.Hour)
	_, err = svc.Create(ctx, 1, "pay rent", "", &past, nil)
	assert.ErrorIs(t, err, ErrInvalidDueDate)

	missing := int64(42)
	_, err = svc.Create(ctx, 1, "pay rent", "", nil, &missing)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "goal_id", verr.Field)
}

func TestTodoGoalMustBelongToUser(t *testing.T) {
	ctx := context.Background()
	todos := repotest.NewTodos()
	goals := repotest.NewGoals(todos)
	svc := NewTodoService(todos, goals, nil, nil)

	g, err := NewGoalService(goals, todos, nil, nil).Create(ctx, 2, "someone else's", "", nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, "sneaky", "", nil, &g.ID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	own, err := svc.Create(ctx, 2, "fine", " trimmed ", nil, &g.ID)
	require.NoError(t, err)
	assert.Equal(t, "trimmed", own.Description)
	require.NotNil(t, own.GoalID)
	assert.Equal(t, g.ID, *own.GoalID)
}

func TestTodoListIsCachedUntilWrite(t *testing.T) {
	ctx := context.Background()
	todos := repotest.NewTodos()
	svc := NewTodoService(todos, repotest.NewGoals(todos), cache.NewTodoCache(newTestRedis(t), time.Minute), nil)

	_, err := svc.Create(ctx, 1, "first", "", nil, nil)
	require.NoError(t, err)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, todos.ListCalls())

	_, err = svc.Create(ctx, 1, "second", "", nil, nil)
	require.NoError(t, err)
	list, err = svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, todos.ListCalls())

	other, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTodoUpdate(t *testing.T) {
	ctx := context.Background()
	todos := repotest.NewTodos()
	goals := repotest.NewGoals(todos)
	audit := &recordingAudit{}
	svc := NewTodoService(todos, goals, nil, audit)

	g, err := NewGoalService(goals, todos, nil, nil).Create(ctx, 1, "launch", "", nil)
	require.NoError(t, err)
	td, err := svc.Create(ctx, 1, "draft", "", nil, &g.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, 1, 999, TodoPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, 2, td.ID, TodoPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	blank := " "
	_, err = svc.Update(ctx, 1, td.ID, TodoPatch{Title: &blank})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	title, done := "final", true
	out, err := svc.Update(ctx, 1, td.ID, TodoPatch{Title: &title, IsDone: &done, ClearGoal: true})
	require.NoError(t, err)
	assert.Equal(t, "final", out.Title)
	assert.True(t, out.IsDone)
	assert.Nil(t, out.GoalID)

	assert.Equal(t, []string{"todo:create", "todo:update"}, audit.actions())
}

func TestTodoDeleteAndComplete(t *testing.T) {
	ctx := context.Background()
	todos := repotest.NewTodos()
	svc := NewTodoService(todos, repotest.NewGoals(todos), nil, nil)

	td, err := svc.Create(ctx, 1, "walk", "", nil, nil)
	require.NoError(t, err)

	done, err := svc.Complete(ctx, 1, td.ID)
	require.NoError(t, err)
	assert.True(t, done.IsDone)

	require.NoError(t, svc.Delete(ctx, 1, td.ID))
	assert.ErrorIs(t, svc.Delete(ctx, 1, td.ID), ErrNotFound)
	_, err = svc.GetByID(ctx, 1, td.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Complete(ctx, 1, td.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTodoOverdueAndSearch(t *testing.T) {
	ctx := context.Background()
	todos := repotest.NewTodos()
	svc := NewTodoService(todos, repotest.NewGoals(todos), cache.NewTodoCache(newTestRedis(t), time.Minute), nil)

	soon := time.Now().Add(time.Hour)
	_, err := svc.Create(ctx, 1, "Buy milk", "", &soon, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "Call mom", "about MILK", nil, nil)
	require.NoError(t, err)

	found, err := svc.Search(ctx, 1, " milk ")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	overdue, err := svc.Overdue(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, overdue)

	svc.now = func() time.Time { return soon.Add(time.Minute) }
	svc.invalidateCache(ctx, 1)
	overdue, err = svc.Overdue(ctx, 1)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Buy milk", overdue[0].Title)
}
