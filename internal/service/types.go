// Package service defines the backend-agnostic interface for task and conversation storage.
package service

import "time"

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Task represents a single task item owned by one user.
type Task struct {
	ID          string // opaque, assigned by the store
	UserID      string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskUpdate carries optional field changes for UpdateTask.
// Nil fields are left untouched.
type TaskUpdate struct {
	Title     *string
	Completed *bool
}

// Conversation groups an ordered sequence of turns for one user.
type Conversation struct {
	ID        int64
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Turn is one persisted chat message. Turns are immutable.
type Turn struct {
	ID             int64
	ConversationID int64
	UserID         string
	Role           Role
	Content        string
	CreatedAt      time.Time
}
