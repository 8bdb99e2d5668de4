package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Quick-Genius/Apna-Lawyer/internal/ai"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
)

const assistantPersona = `You are a legal AI assistant that helps people read contracts and other legal documents.
Explain legal language in plain words and give practical guidance.

PRINCIPLES:
1. Give clear, actionable answers in plain English
2. Point out risks and red flags in the documents you are shown
3. Suggest negotiation points where they make sense
4. Explain legal terms simply
5. Stay professional and approachable
6. Say how confident you are in your reading

ANSWER SHAPE:
- Open with a short, direct answer
- Follow with a detailed explanation using bullet points
- Add specific recommendations where relevant
- Close with follow-up questions that move the conversation forward

LIMITS:
- Do not give advice that needs a licensed attorney
- Recommend a qualified lawyer for complex matters
- Focus on education and document interpretation
- Be open about what an AI reading cannot do

For a document or clause, name its type and purpose, explain what it means, flag anything unusual,
list questions to ask or points to negotiate, and mention common practice where it helps.`

const (
	apologyReply = "I apologize, but I'm experiencing technical difficulties. Please try again in a moment."
	// historyWindow is how many prior messages are shown to the model.
	historyWindow = 3

	baseConfidence = 85
	maxConfidence  = 98
)

var (
	legalVocabulary = []string{"clause", "contract", "agreement", "liability", "terms", "provision"}
	numberedMarker  = regexp.MustCompile(`\d\.`)
)

type RespondInput struct {
	UserMessage     string
	DocumentContext string
	// History is chronological. Only the last few entries are used.
	History []model.ChatMessage
}

type Reply struct {
	Content    string `json:"content"`
	Confidence int    `json:"confidence"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

type ChatOrchestrator struct {
	llm         ai.Completer
	temperature float32
}

// NewChatOrchestrator builds the orchestrator. A nil llm makes every reply a
// failed one carrying ai.ErrNotConfigured.
func NewChatOrchestrator(llm ai.Completer, temperature float32) *ChatOrchestrator {
	return &ChatOrchestrator{llm: llm, temperature: temperature}
}

func (o *ChatOrchestrator) Respond(ctx context.Context, in RespondInput) Reply {
	if o.llm == nil {
		return o.fail(ctx, ai.ErrNotConfigured)
	}

	content, err := o.llm.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.ChatMessage{
			{Role: ai.RoleSystem, Content: BuildSystemPrompt(in.DocumentContext, in.History)},
			{Role: ai.RoleUser, Content: in.UserMessage},
		},
		Temperature: o.temperature,
	})
	if err != nil {
		return o.fail(ctx, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return o.fail(ctx, ai.ErrEmptyResponse)
	}

	return Reply{
		Content:    content,
		Confidence: Confidence(content),
		Success:    true,
	}
}

func (o *ChatOrchestrator) fail(ctx context.Context, err error) Reply {
	event := logger.FromContext(ctx).Error()
	if errors.Is(err, ai.ErrNotConfigured) {
		event = logger.FromContext(ctx).Warn()
	}
	event.Err(err).Msg("chat reply failed")
	return Reply{
		Content:    apologyReply,
		Confidence: 0,
		Success:    false,
		Error:      err.Error(),
	}
}

// BuildSystemPrompt appends the document text and the recent turns to the
// assistant persona.
func BuildSystemPrompt(documentContext string, history []model.ChatMessage) string {
	var b strings.Builder
	b.WriteString(assistantPersona)

	if documentContext != "" {
		b.WriteString("\n\nDOCUMENT CONTEXT:\n")
		b.WriteString(documentContext)
		b.WriteString("\n")
	}

	if len(history) > 0 {
		if len(history) > historyWindow {
			history = history[len(history)-historyWindow:]
		}
		b.WriteString("\n\nRECENT CONVERSATION:\n")
		for _, msg := range history {
			speaker := "Assistant"
			if msg.Role == model.RoleUser {
				speaker = "User"
			}
			b.WriteString(speaker)
			b.WriteString(": ")
			b.WriteString(msg.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Confidence scores a reply from its surface features. The result is in
// [baseConfidence, maxConfidence].
func Confidence(reply string) int {
	score := baseConfidence
	if utf8.RuneCountInString(reply) > 200 {
		score += 5
	}

	lower := strings.ToLower(reply)
	for _, term := range legalVocabulary {
		if strings.Contains(lower, term) {
			score += 5
			break
		}
	}

	if numberedMarker.MatchString(reply) || strings.Contains(reply, "•") || strings.Contains(reply, "-") {
		score += 3
	}

	if score > maxConfidence {
		score = maxConfidence
	}
	return score
}
