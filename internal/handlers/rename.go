package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskchat/internal/intent"
	"taskchat/internal/resolve"
	"taskchat/internal/service"
)

func init() {
	Register(&RenameHandler{})
}

// RenameHandler retitles a task after confirmation. The task keeps its ID.
type RenameHandler struct{}

func (h *RenameHandler) Operation() intent.Operation { return intent.OpRename }

// Handle asks for confirmation. It never renames.
func (h *RenameHandler) Handle(ctx context.Context, req *Request) (string, error) {
	newTitle := strings.TrimSpace(req.Intent.NewTitle)
	if req.Intent.TaskRef == "" || newTitle == "" {
		return askRenamePair, nil
	}

	res := req.lookup()
	if res.Kind != resolve.Single {
		return unresolvedReply(res), nil
	}
	return renamePrompt(res.Match(), newTitle), nil
}

// Execute renames the task, re-resolved against the current list.
func (h *RenameHandler) Execute(ctx context.Context, req *Request) (string, error) {
	newTitle := strings.TrimSpace(req.Intent.NewTitle)
	if newTitle == "" {
		return askRenamePair, nil
	}

	res := req.lookup()
	if res.Kind != resolve.Single {
		return unresolvedReply(res), nil
	}

	task := res.Match().Task
	_, err := req.Store.UpdateTask(ctx, req.UserID, task.ID, service.TaskUpdate{Title: &newTitle})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return unresolvedReply(resolve.Result{Ref: res.Ref, Numeric: res.Numeric}), nil
		}
		return "", fmt.Errorf("rename task: %w", err)
	}
	return renamedReply(task.Title, newTitle), nil
}
