// Package handlers executes classified task operations against a task store.
//
// Handlers never mutate for delete or rename on first contact: they reply
// with a confirmation prompt, and the mutation happens later through
// Confirmer.Execute once the user has answered affirmatively.
package handlers

import (
	"context"

	"taskchat/internal/intent"
	"taskchat/internal/resolve"
	"taskchat/internal/service"
)

// Request carries everything a handler needs for one message.
type Request struct {
	UserID  string
	Message string
	Intent  intent.Intent

	// Tasks is the user's task list fetched for this message.
	// Display indices are positions in this slice.
	Tasks []service.Task

	Store service.TaskStore
}

// lookup resolves the request's task reference against its task list.
func (r *Request) lookup() resolve.Result {
	return resolve.Resolve(r.Tasks, r.Intent.TaskRef)
}

// Handler handles one intent operation.
type Handler interface {
	// Operation returns the operation this handler serves.
	Operation() intent.Operation

	// Handle returns the reply text. Store failures are returned as errors.
	Handle(ctx context.Context, req *Request) (string, error)
}

// Confirmer is a Handler whose mutation is deferred until confirmed.
type Confirmer interface {
	Handler

	// Execute performs the confirmed mutation without prompting.
	Execute(ctx context.Context, req *Request) (string, error)
}
