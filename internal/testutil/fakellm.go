package testutil

import (
	"context"
	"sync"

	"taskchat/internal/llm"
	"taskchat/internal/service"
)

// FakeLLM is a scripted llm.Client.
type FakeLLM struct {
	mu sync.Mutex

	// Classification is returned by Classify unless ClassifyErr is set.
	Classification llm.Classification
	ClassifyErr    error

	// Reply is returned by Chat unless ChatErr is set.
	Reply   string
	ChatErr error

	ClassifyCalls int
	ChatCalls     int
}

// Classify implements llm.Client.
func (f *FakeLLM) Classify(ctx context.Context, message string, history []service.Turn) (llm.Classification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClassifyCalls++
	if f.ClassifyErr != nil {
		return llm.Classification{}, f.ClassifyErr
	}
	return f.Classification, nil
}

// Chat implements llm.Client.
func (f *FakeLLM) Chat(ctx context.Context, message string, history []service.Turn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ChatCalls++
	if f.ChatErr != nil {
		return "", f.ChatErr
	}
	return f.Reply, nil
}
