package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/internal/service"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "taskchat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// strictly increasing clock so ordering does not depend on timer resolution
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	var tick time.Duration
	s.now = func() time.Time {
		tick += time.Millisecond
		return base.Add(tick)
	}
	return s
}

func ptr[T any](v T) *T { return &v }

func TestTasks_CreateAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.CreateTask(ctx, "alice", "Buy milk", "2 litres")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "alice", a.UserID)
	assert.Equal(t, "2 litres", a.Description)
	assert.False(t, a.Completed)

	_, err = s.CreateTask(ctx, "alice", "Call mom", "")
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, "bob", "Bob's task", "")
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "Call mom", tasks[1].Title)

	tasks, err = s.ListTasks(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTasks_CompletionIsMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	task, err := s.CreateTask(ctx, "alice", "Buy milk", "")
	require.NoError(t, err)

	got, err := s.UpdateTask(ctx, "alice", task.ID, service.TaskUpdate{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = s.UpdateTask(ctx, "alice", task.ID, service.TaskUpdate{Completed: ptr(false)})
	require.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = s.UpdateTask(ctx, "alice", task.ID, service.TaskUpdate{Title: ptr("Buy oat milk")})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, task.ID, got.ID)
	assert.True(t, got.UpdatedAt.After(task.UpdatedAt))
}

func TestTasks_OwnershipScoping(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	task, err := s.CreateTask(ctx, "alice", "Groceries", "")
	require.NoError(t, err)

	_, err = s.UpdateTask(ctx, "bob", task.ID, service.TaskUpdate{Title: ptr("hijacked")})
	assert.ErrorIs(t, err, service.ErrNotFound)

	ok, err := s.DeleteTask(ctx, "bob", task.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Groceries", tasks[0].Title)
}

func TestTasks_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	task, err := s.CreateTask(ctx, "alice", "Buy milk", "")
	require.NoError(t, err)

	ok, err := s.DeleteTask(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteTask(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteTask(ctx, "alice", "not-a-number")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.UpdateTask(ctx, "alice", task.ID, service.TaskUpdate{Completed: ptr(true)})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestConversations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.CreateConversation(ctx, "alice")
	require.NoError(t, err)
	second, err := s.CreateConversation(ctx, "alice")
	require.NoError(t, err)
	_, err = s.CreateConversation(ctx, "bob")
	require.NoError(t, err)

	_, err = s.AppendTurn(ctx, first.ID, "alice", service.RoleUser, "add Buy milk")
	require.NoError(t, err)
	_, err = s.AppendTurn(ctx, first.ID, "alice", service.RoleAssistant, "Task 'Buy milk' has been added to your list.")
	require.NoError(t, err)

	convs, err := s.ListConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, first.ID, convs[0].ID, "most recently active first")
	assert.Equal(t, second.ID, convs[1].ID)

	turns, err := s.ListTurns(ctx, first.ID, "alice")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, service.RoleUser, turns[0].Role)
	assert.Equal(t, "add Buy milk", turns[0].Content)
	assert.Equal(t, service.RoleAssistant, turns[1].Role)

	turns, err = s.ListTurns(ctx, first.ID, "bob")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestAppendTurn_RejectsUnknownRole(t *testing.T) {
	s := openTestStore(t)
	_, err := s.AppendTurn(context.Background(), 1, "alice", service.Role("system"), "x")
	assert.Error(t, err)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskchat.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.CreateTask(context.Background(), "alice", "Persisted", "")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	tasks, err := s.ListTasks(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Persisted", tasks[0].Title)
}
