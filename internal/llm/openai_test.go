package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/internal/service"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// newTestServer serves a single canned chat completion and records the request.
func newTestServer(t *testing.T, content string, status int) (*httptest.Server, *capturedRequest) {
	t.Helper()
	var captured capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   captured.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestOpenAIClient_Classify(t *testing.T) {
	srv, captured := newTestServer(t, `{"intent":"delete","task_id":1,"needs_confirmation":true}`, http.StatusOK)
	client := NewOpenAIClient(Config{APIKey: "test", BaseURL: srv.URL + "/v1", Timeout: 5 * time.Second})

	history := []service.Turn{
		{Role: service.RoleUser, Content: "list my tasks"},
		{Role: service.RoleAssistant, Content: "Here are your tasks:\n1. Buy milk [ ]"},
	}
	c, err := client.Classify(context.Background(), "delete task 1", history)
	require.NoError(t, err)

	assert.Equal(t, "delete", c.Intent)
	assert.Equal(t, TaskRef("1"), c.TaskID)
	assert.Equal(t, DefaultModel, captured.Model)
	assert.InDelta(t, 0.1, captured.Temperature, 0.001)
	assert.Equal(t, 200, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, `Current message: "delete task 1"`)
	assert.Contains(t, captured.Messages[1].Content, "assistant: Here are your tasks:")
}

func TestOpenAIClient_Chat(t *testing.T) {
	srv, captured := newTestServer(t, "  Hello there!  ", http.StatusOK)
	client := NewOpenAIClient(Config{APIKey: "test", Model: "local-model", BaseURL: srv.URL + "/v1"})

	history := []service.Turn{
		{Role: service.RoleUser, Content: "hi"},
		{Role: service.RoleAssistant, Content: "hello"},
	}
	reply, err := client.Chat(context.Background(), "how are you?", history)
	require.NoError(t, err)

	assert.Equal(t, "Hello there!", reply)
	assert.Equal(t, "local-model", captured.Model)
	assert.Equal(t, 500, captured.MaxTokens)
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
	assert.Equal(t, "how are you?", captured.Messages[3].Content)
}

func TestOpenAIClient_ServerError(t *testing.T) {
	srv, _ := newTestServer(t, "", http.StatusInternalServerError)
	client := NewOpenAIClient(Config{APIKey: "test", BaseURL: srv.URL + "/v1"})

	_, err := client.Classify(context.Background(), "add milk", nil)
	assert.Error(t, err)
}

func TestOpenAIClient_GarbageClassification(t *testing.T) {
	srv, _ := newTestServer(t, "I cannot help with that.", http.StatusOK)
	client := NewOpenAIClient(Config{APIKey: "test", BaseURL: srv.URL + "/v1"})

	_, err := client.Classify(context.Background(), "add milk", nil)
	assert.Error(t, err)
}

func TestOpenAIClient_Unavailable(t *testing.T) {
	client := NewOpenAIClient(Config{})

	_, err := client.Chat(context.Background(), "hi", nil)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestRecentTurns(t *testing.T) {
	history := make([]service.Turn, 8)
	for i := range history {
		history[i].ID = int64(i)
	}
	got := recentTurns(history, 5)
	require.Len(t, got, 5)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Len(t, recentTurns(history[:2], 5), 2)
}
