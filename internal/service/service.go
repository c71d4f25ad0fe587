// Package service defines the backend-agnostic interface for task and conversation storage.
package service

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a task or conversation does not exist
// or belongs to another user.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned when a backend rejects the stored credentials.
var ErrUnauthorized = errors.New("unauthorized")

// TaskStore defines the task operations the chat core depends on.
// Every call is scoped to a user; tasks of other users are never visible.
// Core packages never import a backend directly.
type TaskStore interface {
	// CreateTask creates a new open task. Description may be empty.
	CreateTask(ctx context.Context, userID, title, description string) (Task, error)

	// ListTasks returns all tasks of the user in creation order.
	ListTasks(ctx context.Context, userID string) ([]Task, error)

	// UpdateTask applies the non-nil fields of upd.
	// A completed task is never reopened: Completed=false on a completed
	// task is ignored. Returns ErrNotFound for unknown or foreign IDs.
	UpdateTask(ctx context.Context, userID, taskID string, upd TaskUpdate) (Task, error)

	// DeleteTask removes a task. Returns false if it did not exist.
	DeleteTask(ctx context.Context, userID, taskID string) (bool, error)
}

// MessageStore defines the conversation operations the chat core depends on.
type MessageStore interface {
	// CreateConversation starts a new, empty conversation.
	CreateConversation(ctx context.Context, userID string) (Conversation, error)

	// ListConversations returns the user's conversations, most recently active first.
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)

	// ListTurns returns the turns of a conversation in creation order.
	// Turns written by other users are never returned.
	ListTurns(ctx context.Context, conversationID int64, userID string) ([]Turn, error)

	// AppendTurn persists a turn at the end of the conversation.
	AppendTurn(ctx context.Context, conversationID int64, userID string, role Role, content string) (Turn, error)
}

// Service bundles both stores. Commands receive a Service from the
// backend factory.
type Service interface {
	TaskStore
	MessageStore
}

type composite struct {
	TaskStore
	MessageStore
}

// Compose builds a Service from separate task and message backends,
// e.g. Google Tasks for tasks and SQLite for conversations.
func Compose(tasks TaskStore, messages MessageStore) Service {
	return composite{TaskStore: tasks, MessageStore: messages}
}


// Close closes every part that holds resources.
func (c composite) Close() error {
	var errs []error
	for _, part := range []any{c.TaskStore, c.MessageStore} {
		if closer, ok := part.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}
