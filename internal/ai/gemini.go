package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	apiKey  string
	model   string
	timeout time.Duration
}

func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiClient{apiKey: apiKey, model: model, timeout: timeout}
}

func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", fmt.Errorf("create gemini client failed: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	temperature := req.Temperature
	model.Temperature = &temperature

	system, turns := splitSystem(req.Messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("gemini request has no user turn")
	}

	cs := model.StartChat()
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", classify(ctx, "gemini generation", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var output strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output.WriteString(string(text))
		}
	}
	if strings.TrimSpace(output.String()) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(output.String()), nil
}
