package handlers

import (
	"context"
	"fmt"
	"strings"

	"taskchat/internal/intent"
)

func init() {
	Register(&CreateHandler{})
}

// CreateHandler adds a task.
type CreateHandler struct{}

func (h *CreateHandler) Operation() intent.Operation { return intent.OpCreate }

func (h *CreateHandler) Handle(ctx context.Context, req *Request) (string, error) {
	title := strings.TrimSpace(req.Intent.Title)
	if title == "" {
		return askTitle, nil
	}

	task, err := req.Store.CreateTask(ctx, req.UserID, title, "")
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	return addedReply(task.Title), nil
}
