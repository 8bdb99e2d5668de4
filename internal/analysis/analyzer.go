// Package analysis produces a structured legal verdict for extracted text.
//
// Analyze always returns a populated Result. The stage status tells callers
// whether the value came from the model (ok), from a substitute record
// (degraded) or from an error record (failed).
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/Quick-Genius/Apna-Lawyer/internal/ai"
	"github.com/Quick-Genius/Apna-Lawyer/internal/chunker"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/stage"
)

const systemPrompt = `You are an expert legal document analyzer. For the text you are given:
1. Identify the type of legal document
2. Extract the key terms and conditions
3. Highlight potential risks or concerns
4. Explain complex legal terminology in simple terms
5. Write a summary that a non-lawyer can understand
6. Suggest practical next steps

Reply with a single JSON object and nothing else, using exactly this shape:
{
  "document_type": "string",
  "summary": "string",
  "key_terms": ["string"],
  "risks": ["string"],
  "explanations": {"term": "explanation"},
  "recommendations": ["string"]
}`

type Options struct {
	ChunkSize    int
	ChunkOverlap int
	MaxChunks    int
}

type Analyzer struct {
	llm  ai.Completer
	opts Options
}

// New builds an analyzer. A nil llm means no credential is configured.
func New(llm ai.Completer, opts Options) *Analyzer {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunker.DefaultSize
	}
	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = chunker.DefaultOverlap
	}
	if opts.MaxChunks <= 0 {
		opts.MaxChunks = 8
	}
	return &Analyzer{llm: llm, opts: opts}
}

func (a *Analyzer) Configured() bool {
	return a.llm != nil
}

func (a *Analyzer) Analyze(ctx context.Context, text string) (res stage.Result[Result]) {
	log := logger.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("analysis panic: %v", r)
			log.Error().Err(err).Msg("document analysis aborted")
			res = stage.Failed(errorResult(err), err)
		}
	}()

	if strings.TrimSpace(text) == "" {
		return stage.Degraded(noTextResult(), "no text to analyze")
	}
	if a.llm == nil {
		return stage.Degraded(staticResult(), ai.ErrNotConfigured.Error())
	}

	chunks := chunker.Split(text, a.opts.ChunkSize, a.opts.ChunkOverlap)
	truncated := false
	if len(chunks) > a.opts.MaxChunks {
		chunks = chunks[:a.opts.MaxChunks]
		truncated = true
	}

	var (
		m        merger
		fallback *Result
	)
	for i, chunk := range chunks {
		reply, err := a.llm.Complete(ctx, ai.CompletionRequest{
			Messages: []ai.ChatMessage{
				{Role: ai.RoleSystem, Content: systemPrompt},
				{Role: ai.RoleUser, Content: "Analyze this legal text:\n\n" + chunk},
			},
		})
		if err != nil {
			log.Warn().Err(err).Int("chunk", i).Int("chunks", len(chunks)).Msg("analysis request failed")
			if m.count == 0 {
				return stage.Failed(errorResult(err), err)
			}
			return stage.Degraded(m.result(), fmt.Sprintf("analysis stopped at chunk %d: %v", i+1, err))
		}

		parsed, ok := parseReply(reply)
		if !ok {
			log.Debug().Int("chunk", i).Msg("analysis reply is not json")
			if fallback == nil {
				fb := rawReplyResult(reply)
				fallback = &fb
			}
			continue
		}
		m.add(parsed)
	}

	// A chunk that did not parse always set the fallback.
	switch {
	case m.count == 0:
		return stage.Degraded(*fallback, "model reply was not valid json")
	case truncated:
		return stage.Degraded(m.result(), fmt.Sprintf("only the first %d chunks were analyzed", a.opts.MaxChunks))
	default:
		return stage.OK(m.result())
	}
}

// merger combines per-chunk verdicts. The first parsed chunk names the
// document and supplies the summary; lists are unioned case-insensitively in
// first-seen order; the first explanation of a term wins.
type merger struct {
	count int
	out   Result
	seen  map[string]map[string]struct{}
}

func (m *merger) add(r Result) {
	if m.count == 0 {
		m.out = Result{
			DocumentType:    r.DocumentType,
			Summary:         r.Summary,
			KeyTerms:        []string{},
			Risks:           []string{},
			Explanations:    map[string]string{},
			Recommendations: []string{},
		}
		m.seen = map[string]map[string]struct{}{}
	}
	m.count++
	if m.out.DocumentType == "" {
		m.out.DocumentType = r.DocumentType
	}
	if m.out.Summary == "" {
		m.out.Summary = r.Summary
	}
	m.out.KeyTerms = m.union("key_terms", m.out.KeyTerms, r.KeyTerms)
	m.out.Risks = m.union("risks", m.out.Risks, r.Risks)
	m.out.Recommendations = m.union("recommendations", m.out.Recommendations, r.Recommendations)
	for term, meaning := range r.Explanations {
		if _, ok := m.out.Explanations[term]; !ok {
			m.out.Explanations[term] = meaning
		}
	}
}

func (m *merger) union(field string, dst, src []string) []string {
	set, ok := m.seen[field]
	if !ok {
		set = map[string]struct{}{}
		m.seen[field] = set
	}
	for _, item := range src {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, dup := set[key]; dup {
			continue
		}
		set[key] = struct{}{}
		dst = append(dst, item)
	}
	return dst
}

func (m *merger) result() Result {
	if m.out.DocumentType == "" {
		m.out.DocumentType = "Legal Document"
	}
	return m.out
}
