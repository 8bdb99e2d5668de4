package ai

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompatibleClient talks to any endpoint implementing the OpenAI chat
// completions API.
type OpenAICompatibleClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAICompatibleClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAICompatibleClient {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompatibleClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAICompatibleClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", classify(ctx, "llm request", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
