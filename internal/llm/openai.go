package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"taskchat/internal/service"
)

const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 200
	chatTemperature     = 0.3
	chatMaxTokens       = 500
)

// OpenAIClient implements Client for the OpenAI chat completions API and
// compatible servers.
type OpenAIClient struct {
	client *openai.Client
	config Config
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(config Config) *OpenAIClient {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Model returns the configured model name.
func (o *OpenAIClient) Model() string {
	return o.config.Model
}

// IsAvailable reports whether the client has credentials.
func (o *OpenAIClient) IsAvailable() bool {
	return o.config.APIKey != "" && o.config.Model != ""
}

// Classify implements Client.Classify.
func (o *OpenAIClient) Classify(ctx context.Context, message string, history []service.Turn) (Classification, error) {
	content, err := o.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: classifierSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: buildClassifyPrompt(message, history)},
	}, classifyTemperature, classifyMaxTokens)
	if err != nil {
		return Classification{}, err
	}
	return ParseClassification(content)
}

// Chat implements Client.Chat.
func (o *OpenAIClient) Chat(ctx context.Context, message string, history []service.Turn) (string, error) {
	turns := recentTurns(history, chatHistoryTurns)
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: assistantSystemPrompt,
	})
	for _, turn := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    chatRole(turn.Role),
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	content, err := o.complete(ctx, messages, chatTemperature, chatMaxTokens)
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return content, nil
}

func (o *OpenAIClient) complete(ctx context.Context, messages []openai.ChatCompletionMessage, temperature float32, maxTokens int) (string, error) {
	if !o.IsAvailable() {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func chatRole(role service.Role) string {
	if role == service.RoleAssistant {
		return openai.ChatMessageRoleAssistant
	}
	return openai.ChatMessageRoleUser
}
