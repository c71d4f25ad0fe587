package handlers

import (
	"context"
	"errors"
	"fmt"

	"taskchat/internal/intent"
	"taskchat/internal/resolve"
	"taskchat/internal/service"
)

func init() {
	Register(&CompleteHandler{})
}

// CompleteHandler marks a task completed. It does not ask for confirmation.
type CompleteHandler struct{}

func (h *CompleteHandler) Operation() intent.Operation { return intent.OpComplete }

func (h *CompleteHandler) Handle(ctx context.Context, req *Request) (string, error) {
	if req.Intent.TaskRef == "" {
		return askCompleteRef, nil
	}

	res := req.lookup()
	if res.Kind != resolve.Single {
		return unresolvedReply(res), nil
	}

	task := res.Match().Task
	if task.Completed {
		return alreadyCompletedReply(task.Title), nil
	}

	done := true
	if _, err := req.Store.UpdateTask(ctx, req.UserID, task.ID, service.TaskUpdate{Completed: &done}); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return unresolvedReply(resolve.Result{Ref: res.Ref, Numeric: res.Numeric}), nil
		}
		return "", fmt.Errorf("complete task: %w", err)
	}
	return completedReply(task.Title), nil
}
