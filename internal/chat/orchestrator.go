// Package chat runs one chat message through the task assistant.
//
// Each message goes through FETCH → RUN → PERSIST → RESPOND: history and
// tasks are loaded, a pending confirmation is detected or the message is
// classified and handed to a handler, then the user turn and the reply
// are appended to the conversation before the reply is returned.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"taskchat/internal/handlers"
	"taskchat/internal/intent"
	"taskchat/internal/llm"
	"taskchat/internal/service"
)

// ErrInvalidConversationID is returned when a conversation id is not a
// positive integer.
var ErrInvalidConversationID = errors.New("invalid conversation id")

const (
	invalidConversationReply = "Error: Invalid conversation ID provided."
	apologyReply             = "Sorry, something went wrong while processing your request. Please try again."
	helpReply                = "I'm sorry, I didn't quite catch that. You can ask me to add, list, complete, rename, or delete tasks."
	nothingPendingReply      = "There is nothing waiting for your confirmation. You can ask me to add, list, complete, rename, or delete tasks."
	missingCommandReply      = "I couldn't find the original request to process your confirmation. Please try the command again."
	repeatCommandReply       = "I couldn't process your confirmation. Please repeat your original command."
)

// Orchestrator ties the confirmation detector, the intent classifier and
// the handlers together. It is safe for concurrent use.
type Orchestrator struct {
	tasks      service.TaskStore
	messages   service.MessageStore
	model      llm.Client
	classifier *intent.Classifier
	handlers   *handlers.Registry
	logger     *zap.Logger
}

// New creates an Orchestrator. model may be nil to run on the keyword
// fallback alone; a nil registry means handlers.DefaultRegistry.
func New(tasks service.TaskStore, messages service.MessageStore, model llm.Client, registry *handlers.Registry, logger *zap.Logger) *Orchestrator {
	if registry == nil {
		registry = handlers.DefaultRegistry
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		tasks:      tasks,
		messages:   messages,
		model:      model,
		classifier: intent.NewClassifier(model, logger),
		handlers:   registry,
		logger:     logger,
	}
}

// Reply is the outcome of Chat.
type Reply struct {
	ConversationID int64
	Text           string

	// Created is true if Chat started a new conversation.
	Created bool
}

// ParseConversationID parses a caller-supplied conversation id.
func ParseConversationID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidConversationID, s)
	}
	return id, nil
}

// Chat handles message, starting a new conversation when conversationID
// is empty.
func (o *Orchestrator) Chat(ctx context.Context, userID, conversationID, message string) (Reply, error) {
	var created bool
	if strings.TrimSpace(conversationID) == "" {
		conv, err := o.messages.CreateConversation(ctx, userID)
		if err != nil {
			return Reply{}, fmt.Errorf("create conversation: %w", err)
		}
		conversationID = strconv.FormatInt(conv.ID, 10)
		created = true
	}

	text, err := o.Handle(ctx, userID, conversationID, message)
	id, _ := ParseConversationID(conversationID)
	return Reply{ConversationID: id, Text: text, Created: created}, err
}

// Handle runs one message through FETCH → RUN → PERSIST → RESPOND.
//
// Failures while working out the reply are logged and answered with a
// generic apology, so the user turn is always persisted with a reply.
// An error is returned only for a malformed conversation id (nothing is
// persisted) or when persisting the turns fails.
func (o *Orchestrator) Handle(ctx context.Context, userID, conversationID, message string) (string, error) {
	convID, err := ParseConversationID(conversationID)
	if err != nil {
		return invalidConversationReply, err
	}

	logger := o.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("user", userID),
		zap.Int64("conversation", convID),
	)

	reply := o.run(ctx, logger, userID, convID, message)

	if _, err := o.messages.AppendTurn(ctx, convID, userID, service.RoleUser, message); err != nil {
		return reply, fmt.Errorf("persist user turn: %w", err)
	}
	if _, err := o.messages.AppendTurn(ctx, convID, userID, service.RoleAssistant, reply); err != nil {
		return reply, fmt.Errorf("persist assistant turn: %w", err)
	}
	return reply, nil
}

// run produces the reply text. It never fails.
func (o *Orchestrator) run(ctx context.Context, logger *zap.Logger, userID string, convID int64, message string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while handling message", zap.Any("panic", r), zap.Stack("stack"))
			reply = apologyReply
		}
	}()

	history, tasks, err := o.fetch(ctx, userID, convID)
	if err != nil {
		logger.Error("fetch failed", zap.Error(err))
		return apologyReply
	}

	reply, err = o.respond(ctx, logger, userID, message, history, tasks)
	if err != nil {
		logger.Error("handling message failed", zap.Error(err))
		return apologyReply
	}
	return reply
}

// fetch loads the conversation history and the user's tasks concurrently.
func (o *Orchestrator) fetch(ctx context.Context, userID string, convID int64) ([]service.Turn, []service.Task, error) {
	var (
		history []service.Turn
		tasks   []service.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(recovered(func() error {
		turns, err := o.messages.ListTurns(gctx, convID, userID)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		history = turns
		return nil
	}))
	g.Go(recovered(func() error {
		list, err := o.tasks.ListTasks(gctx, userID)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		tasks = list
		return nil
	}))
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return history, tasks, nil
}

// recovered turns a panic in fn into an error.
func recovered(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}
}

func (o *Orchestrator) respond(ctx context.Context, logger *zap.Logger, userID, message string, history []service.Turn, tasks []service.Task) (string, error) {
	if replay, ok := DetectConfirmation(history, message); ok {
		logger.Debug("confirmation detected",
			zap.String("op", string(replay.Op)),
			zap.String("task_ref", replay.TaskRef))
		return o.confirm(ctx, userID, message, replay, tasks)
	}

	in := o.classifier.Classify(ctx, message, history)
	logger.Debug("message classified",
		zap.String("op", string(in.Op)),
		zap.String("source", string(in.Source)))

	switch in.Op {
	case intent.OpConfirm:
		return nothingPendingReply, nil
	case intent.OpUnknown:
		return o.converse(ctx, logger, message, history), nil
	}

	h, ok := o.handlers.Find(in.Op)
	if !ok {
		return helpReply, nil
	}
	return h.Handle(ctx, &handlers.Request{
		UserID:  userID,
		Message: message,
		Intent:  in,
		Tasks:   tasks,
		Store:   o.tasks,
	})
}

// confirm executes a mutation the user has just confirmed.
func (o *Orchestrator) confirm(ctx context.Context, userID, message string, replay Replay, tasks []service.Task) (string, error) {
	if replay.Command == "" {
		return missingCommandReply, nil
	}
	if replay.TaskRef == "" {
		return repeatCommandReply, nil
	}
	c, ok := o.handlers.Confirmer(replay.Op)
	if !ok {
		return repeatCommandReply, nil
	}
	return c.Execute(ctx, &handlers.Request{
		UserID:  userID,
		Message: message,
		Intent: intent.Intent{
			Op:                replay.Op,
			TaskRef:           replay.TaskRef,
			NewTitle:          replay.NewTitle,
			NeedsConfirmation: true,
			Source:            intent.SourceFallback,
		},
		Tasks: tasks,
		Store: o.tasks,
	})
}

// converse answers a message that is not a task operation.
func (o *Orchestrator) converse(ctx context.Context, logger *zap.Logger, message string, history []service.Turn) string {
	if o.model == nil {
		return helpReply
	}
	reply, err := o.model.Chat(ctx, message, history)
	if err != nil {
		logger.Warn("chat completion failed", zap.Error(err))
		return helpReply
	}
	return reply
}
