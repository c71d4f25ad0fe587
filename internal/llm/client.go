// Package llm talks to the language model used for intent classification
// and general conversation. The model is best-effort: every call may fail
// and callers are expected to degrade.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskchat/internal/service"
)

// ErrUnavailable is returned when no model is configured.
var ErrUnavailable = errors.New("llm not configured")

// DefaultTimeout bounds a single model request.
const DefaultTimeout = 30 * time.Second

// DefaultModel is used when the configuration names none.
const DefaultModel = "gpt-4o-mini"

// Client is the model collaborator used by the chat core.
type Client interface {
	// Classify asks the model for a structured intent.
	Classify(ctx context.Context, message string, history []service.Turn) (Classification, error)

	// Chat asks the model for a free-text conversational reply.
	Chat(ctx context.Context, message string, history []service.Turn) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string // "openai" or "none"
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New returns the client for cfg.Provider.
// A nil Client with nil error means the model is disabled.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai":
		if cfg.APIKey == "" {
			return nil, nil
		}
		return NewOpenAIClient(cfg), nil
	case "none", "off", "disabled":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// Classification is the raw structured answer of the model.
// Every field is optional; the model output is not trusted.
type Classification struct {
	Intent            string  `json:"intent"`
	TaskID            TaskRef `json:"task_id"`
	TaskTitle         string  `json:"task_title"`
	NewTitle          string  `json:"new_title"`
	NeedsConfirmation bool    `json:"needs_confirmation"`
}

// TaskRef is a task number as emitted by the model. It accepts JSON
// numbers, numeric strings and null.
type TaskRef string

// UnmarshalJSON implements json.Unmarshaler.
func (r *TaskRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = TaskRef(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task_id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*r = TaskRef(strconv.FormatInt(i, 10))
		return nil
	}
	*r = TaskRef(n.String())
	return nil
}

// ParseClassification extracts the classification JSON from a model reply.
// Markdown fences and surrounding prose are tolerated.
func ParseClassification(reply string) (Classification, error) {
	raw := extractJSON(stripMarkdownCodeFences(reply))
	if raw == "" {
		return Classification{}, fmt.Errorf("no JSON found in response")
	}
	var c Classification
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Classification{}, fmt.Errorf("invalid classification JSON: %w", err)
	}
	c.Intent = strings.ToLower(strings.TrimSpace(c.Intent))
	c.TaskTitle = strings.TrimSpace(c.TaskTitle)
	c.NewTitle = strings.TrimSpace(c.NewTitle)
	return c, nil
}

// extractJSON finds the first balanced JSON object in s.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stripMarkdownCodeFences removes a surrounding ``` or ```json fence.
func stripMarkdownCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	firstNewline := strings.Index(trimmed, "\n")
	if firstNewline == -1 {
		return s
	}
	lastFence := strings.LastIndex(trimmed, "```")
	if lastFence <= firstNewline {
		return s
	}
	return strings.TrimSpace(trimmed[firstNewline+1 : lastFence])
}
