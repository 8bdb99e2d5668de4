package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Quick-Genius/Apna-Lawyer/internal/config"
)

var (
	ErrNotConfigured = errors.New("llm api key is not configured")
	ErrTimeout       = errors.New("llm request timed out")
	ErrEmptyResponse = errors.New("llm returned an empty response")
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Messages    []ChatMessage
	Temperature float32
}

// Completer sends one non-streaming request and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewCompleter builds the configured provider. It returns ErrNotConfigured
// when no API key is set so callers can run in degraded mode.
func NewCompleter(cfg config.LLMConfig) (Completer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Provider {
	case "openai":
		return NewOpenAICompatibleClient(cfg.BaseURL, cfg.APIKey, cfg.Model, timeout), nil
	case "gemini":
		return NewGeminiClient(cfg.APIKey, cfg.Model, timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// withTimeout bounds ctx so a stuck upstream cannot hold a request open.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// classify maps deadline failures to ErrTimeout and wraps the rest.
func classify(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

// splitSystem separates system messages from the conversation turns.
func splitSystem(messages []ChatMessage) (string, []ChatMessage) {
	var system []string
	rest := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
