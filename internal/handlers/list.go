package handlers

import (
	"context"

	"taskchat/internal/intent"
	"taskchat/internal/output"
)

func init() {
	Register(&ListHandler{})
}

// ListHandler renders the task list fetched for the request.
type ListHandler struct{}

func (h *ListHandler) Operation() intent.Operation { return intent.OpList }

func (h *ListHandler) Handle(ctx context.Context, req *Request) (string, error) {
	return output.TaskListReply(req.Tasks), nil
}
