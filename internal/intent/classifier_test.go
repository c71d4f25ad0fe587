package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"taskchat/internal/llm"
	"taskchat/internal/service"
)

type stubModel struct {
	result llm.Classification
	err    error
	calls  int
}

func (s *stubModel) Classify(ctx context.Context, msg string, history []service.Turn) (llm.Classification, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubModel) Chat(ctx context.Context, msg string, history []service.Turn) (string, error) {
	return "", errors.New("not implemented")
}

func TestClassifier_NoModel(t *testing.T) {
	c := NewClassifier(nil, nil)
	in := c.Classify(context.Background(), "add buy milk", nil)
	assert.Equal(t, OpCreate, in.Op)
	assert.Equal(t, SourceFallback, in.Source)
}

func TestClassifier_ModelErrorFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	model := &stubModel{err: errors.New("timeout")}
	c := NewClassifier(model, zap.New(core))

	in := c.Classify(context.Background(), "delete task 2", nil)

	assert.Equal(t, 1, model.calls)
	assert.Equal(t, OpDelete, in.Op)
	assert.Equal(t, "2", in.TaskRef)
	assert.Equal(t, SourceFallback, in.Source)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "fallback")
}

func TestClassifier_ModelResult(t *testing.T) {
	model := &stubModel{result: llm.Classification{Intent: "update_rename", TaskID: "1", NewTitle: "Buy oat milk"}}
	c := NewClassifier(model, zap.NewNop())

	in := c.Classify(context.Background(), "rename the first one", nil)

	assert.Equal(t, Intent{
		Op:                OpRename,
		TaskRef:           "1",
		NewTitle:          "Buy oat milk",
		NeedsConfirmation: true,
		Source:            SourceModel,
	}, in)
}

func TestClassifier_UnknownRetriesFallback(t *testing.T) {
	model := &stubModel{result: llm.Classification{Intent: "unknown"}}
	c := NewClassifier(model, zap.NewNop())

	in := c.Classify(context.Background(), "show my tasks", nil)
	assert.Equal(t, OpList, in.Op)
	assert.Equal(t, SourceFallback, in.Source)

	in = c.Classify(context.Background(), "how are you?", nil)
	assert.Equal(t, OpUnknown, in.Op)
	assert.Equal(t, SourceModel, in.Source)
}

func TestFromClassification(t *testing.T) {
	tests := []struct {
		name string
		cl   llm.Classification
		msg  string
		want Intent
	}{
		{
			name: "create uses model title",
			cl:   llm.Classification{Intent: "create", TaskTitle: "Buy milk"},
			msg:  "I need to buy milk",
			want: Intent{Op: OpCreate, Title: "Buy milk"},
		},
		{
			name: "create recovers title",
			cl:   llm.Classification{Intent: "CREATE"},
			msg:  "add water plants",
			want: Intent{Op: OpCreate, Title: "water plants"},
		},
		{
			name: "delete forces confirmation",
			cl:   llm.Classification{Intent: "delete", TaskTitle: "milk", NeedsConfirmation: false},
			msg:  "delete milk",
			want: Intent{Op: OpDelete, TaskRef: "milk", NeedsConfirmation: true},
		},
		{
			name: "complete never needs confirmation",
			cl:   llm.Classification{Intent: "update_complete", TaskID: "2", NeedsConfirmation: true},
			msg:  "done with 2",
			want: Intent{Op: OpComplete, TaskRef: "2"},
		},
		{
			name: "complete recovers reference",
			cl:   llm.Classification{Intent: "update_complete"},
			msg:  "complete task 3",
			want: Intent{Op: OpComplete, TaskRef: "3"},
		},
		{
			name: "rename recovers new title",
			cl:   llm.Classification{Intent: "update_rename", TaskID: "1"},
			msg:  "rename 1 to Call Robert",
			want: Intent{Op: OpRename, TaskRef: "1", NewTitle: "Call Robert", NeedsConfirmation: true},
		},
		{
			name: "unrecognised intent",
			cl:   llm.Classification{Intent: "archive"},
			msg:  "archive everything",
			want: Intent{Op: OpUnknown},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Source = SourceModel
			assert.Equal(t, tt.want, FromClassification(tt.cl, tt.msg))
		})
	}
}
