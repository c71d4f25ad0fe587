// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"taskchat/internal/service"
)

// FakeStore is an in-memory implementation of service.Service for testing.
// It honours the same user scoping and completion rules as the real backends.
type FakeStore struct {
	mu            sync.RWMutex
	now           func() time.Time
	nextTaskID    int
	nextConvID    int64
	nextTurnID    int64
	tasks         []service.Task
	conversations []service.Conversation
	turns         []service.Turn

	// Error injection for testing
	CreateTaskErr         error
	ListTasksErr          error
	UpdateTaskErr         error
	DeleteTaskErr         error
	CreateConversationErr error
	ListConversationsErr  error
	ListTurnsErr          error
	AppendTurnErr         error

	// Mutations counts successful UpdateTask and DeleteTask calls.
	Mutations int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	var tick time.Duration
	return &FakeStore{
		now: func() time.Time {
			tick += time.Second
			return base.Add(tick)
		},
	}
}

// AddTask seeds a task for userID and returns it.
func (f *FakeStore) AddTask(userID, title string) service.Task {
	t, _ := f.CreateTask(context.Background(), userID, title, "")
	return t
}

// AddTurns seeds alternating user/assistant turns into conversationID,
// starting with a user turn.
func (f *FakeStore) AddTurns(conversationID int64, userID string, contents ...string) {
	for i, c := range contents {
		role := service.RoleUser
		if i%2 == 1 {
			role = service.RoleAssistant
		}
		_, _ = f.AppendTurn(context.Background(), conversationID, userID, role, c)
	}
}

// Tasks returns a snapshot of userID's tasks.
func (f *FakeStore) Tasks(userID string) []service.Task {
	tasks, _ := f.listTasks(userID)
	return tasks
}

// CreateTask implements service.TaskStore.
func (f *FakeStore) CreateTask(ctx context.Context, userID, title, description string) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextTaskID++
	now := f.now()
	t := service.Task{
		ID:          strconv.Itoa(f.nextTaskID),
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// ListTasks implements service.TaskStore.
func (f *FakeStore) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.listTasks(userID)
}

func (f *FakeStore) listTasks(userID string) ([]service.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []service.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpdateTask implements service.TaskStore.
func (f *FakeStore) UpdateTask(ctx context.Context, userID, taskID string, upd service.TaskUpdate) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID != taskID || t.UserID != userID {
			continue
		}
		if upd.Title != nil {
			t.Title = *upd.Title
		}
		if upd.Completed != nil && *upd.Completed {
			t.Completed = true
		}
		t.UpdatedAt = f.now()
		f.tasks[i] = t
		f.Mutations++
		return t, nil
	}
	return service.Task{}, service.ErrNotFound
}

// DeleteTask implements service.TaskStore.
func (f *FakeStore) DeleteTask(ctx context.Context, userID, taskID string) (bool, error) {
	if f.DeleteTaskErr != nil {
		return false, f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == taskID && t.UserID == userID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			f.Mutations++
			return true, nil
		}
	}
	return false, nil
}

// CreateConversation implements service.MessageStore.
func (f *FakeStore) CreateConversation(ctx context.Context, userID string) (service.Conversation, error) {
	if f.CreateConversationErr != nil {
		return service.Conversation{}, f.CreateConversationErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextConvID++
	now := f.now()
	c := service.Conversation{ID: f.nextConvID, UserID: userID, CreatedAt: now, UpdatedAt: now}
	f.conversations = append(f.conversations, c)
	return c, nil
}

// ListConversations implements service.MessageStore.
func (f *FakeStore) ListConversations(ctx context.Context, userID string) ([]service.Conversation, error) {
	if f.ListConversationsErr != nil {
		return nil, f.ListConversationsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []service.Conversation
	for _, c := range f.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// ListTurns implements service.MessageStore.
func (f *FakeStore) ListTurns(ctx context.Context, conversationID int64, userID string) ([]service.Turn, error) {
	if f.ListTurnsErr != nil {
		return nil, f.ListTurnsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []service.Turn
	for _, t := range f.turns {
		if t.ConversationID == conversationID && t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

// AppendTurn implements service.MessageStore.
// Unknown conversation IDs are accepted, matching the SQLite backend.
func (f *FakeStore) AppendTurn(ctx context.Context, conversationID int64, userID string, role service.Role, content string) (service.Turn, error) {
	if f.AppendTurnErr != nil {
		return service.Turn{}, f.AppendTurnErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextTurnID++
	now := f.now()
	t := service.Turn{
		ID:             f.nextTurnID,
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}
	f.turns = append(f.turns, t)
	for i, c := range f.conversations {
		if c.ID == conversationID {
			f.conversations[i].UpdatedAt = now
		}
	}
	return t, nil
}
