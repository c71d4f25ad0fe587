package intent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"taskchat/internal/llm"
	"taskchat/internal/service"
)

// Classifier classifies messages with a language model when one is
// configured, degrading to Fallback otherwise.
type Classifier struct {
	model  llm.Client
	logger *zap.Logger
}

// NewClassifier returns a Classifier. model may be nil, in which case
// every message goes through Fallback.
func NewClassifier(model llm.Client, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{model: model, logger: logger}
}

// Classify returns the intent of message. It never fails: model errors
// are logged and the deterministic fallback answers instead.
func (c *Classifier) Classify(ctx context.Context, message string, history []service.Turn) Intent {
	if c.model == nil {
		return Fallback(message)
	}

	cl, err := c.model.Classify(ctx, message, history)
	if err != nil {
		c.logger.Warn("intent classification failed, using fallback", zap.Error(err))
		return Fallback(message)
	}

	in := FromClassification(cl, message)
	if in.Op == OpUnknown {
		// The model gave up; the keyword rules get one chance to do better.
		if fb := Fallback(message); fb.Op != OpUnknown {
			c.logger.Debug("model returned unknown intent, fallback matched",
				zap.String("op", string(fb.Op)))
			return fb
		}
	}
	return in
}

// FromClassification normalizes a model classification into an Intent.
// Fields the model left empty are recovered from message with the
// fallback extractors, and NeedsConfirmation is recomputed from the
// operation rather than trusted.
func FromClassification(c llm.Classification, message string) Intent {
	op := ParseOperation(c.Intent)
	in := Intent{Op: op, Source: SourceModel, NeedsConfirmation: op.RequiresConfirmation()}

	ref := strings.TrimSpace(string(c.TaskID))
	if ref == "" {
		ref = strings.TrimSpace(c.TaskTitle)
	}

	switch op {
	case OpCreate:
		in.Title = strings.TrimSpace(c.TaskTitle)
		if in.Title == "" {
			in.Title = ExtractCreateTitle(message)
		}
	case OpRename:
		in.TaskRef = ref
		in.NewTitle = strings.TrimSpace(c.NewTitle)
		if in.TaskRef == "" || in.NewTitle == "" {
			r, n := ExtractRenamePair(message)
			if in.TaskRef == "" {
				in.TaskRef = r
			}
			if in.NewTitle == "" {
				in.NewTitle = n
			}
		}
	case OpComplete, OpDelete:
		in.TaskRef = ref
		if in.TaskRef == "" {
			in.TaskRef = ExtractTargetReference(message, op)
		}
	}
	return in
}
