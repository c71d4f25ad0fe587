package handlers

import (
	"context"
	"fmt"

	"taskchat/internal/intent"
	"taskchat/internal/resolve"
)

func init() {
	Register(&DeleteHandler{})
}

// DeleteHandler deletes a task after confirmation.
type DeleteHandler struct{}

func (h *DeleteHandler) Operation() intent.Operation { return intent.OpDelete }

// Handle asks for confirmation. It never deletes.
func (h *DeleteHandler) Handle(ctx context.Context, req *Request) (string, error) {
	if req.Intent.TaskRef == "" {
		return askDeleteTarget, nil
	}

	res := req.lookup()
	if res.Kind != resolve.Single {
		return unresolvedReply(res), nil
	}
	return deletePrompt(res.Match()), nil
}

// Execute deletes the task, re-resolved against the current list.
func (h *DeleteHandler) Execute(ctx context.Context, req *Request) (string, error) {
	res := req.lookup()
	if res.Kind != resolve.Single {
		return unresolvedReply(res), nil
	}

	task := res.Match().Task
	ok, err := req.Store.DeleteTask(ctx, req.UserID, task.ID)
	if err != nil {
		return "", fmt.Errorf("delete task: %w", err)
	}
	if !ok {
		return unresolvedReply(resolve.Result{Ref: res.Ref, Numeric: res.Numeric}), nil
	}
	return deletedReply(task.Title), nil
}
