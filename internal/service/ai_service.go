package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/d60-Lab/smartblog/internal/genai"
)

const keyGuidanceURL = "https://aistudio.google.com/app/apikey"

var (
	ErrAINotConfigured = errors.New("AI service not configured. Please set the Gemini API key")
	ErrEmptyText       = errors.New("Text cannot be empty")
)

// UpstreamError is a provider failure translated into a caller-facing message.
// Classification is heuristic string matching on the provider's error text,
// not a structured contract.
type UpstreamError struct {
	Detail string
}

func (e *UpstreamError) Error() string { return e.Detail }

// ActionSummarize and friends name the supported editing actions. An
// unrecognized action falls back to summarize instead of failing.
const (
	ActionSummarize  = "summarize"
	ActionFixGrammar = "fix_grammar"
	ActionContinue   = "continue"
	ActionExpand     = "expand"
)

var promptTemplates = map[string]string{
	ActionSummarize:  "Summarize the following text concisely in 2-3 sentences:\n\n%s",
	ActionFixGrammar: "Fix any grammar and spelling errors in the following text, maintain the same tone and style:\n\n%s",
	ActionContinue:   "Continue writing the following text in a natural way:\n\n%s",
	ActionExpand:     "Expand on the following text with more details and examples:\n\n%s",
}

func buildPrompt(action, text string) string {
	tmpl, ok := promptTemplates[action]
	if !ok {
		tmpl = promptTemplates[ActionSummarize]
	}
	return fmt.Sprintf(tmpl, text)
}

// Generator is the completion-service handle the proxy invokes. It is
// stateless per call and shared across requests.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Stream(ctx context.Context, prompt string, maxTokens int) (<-chan genai.Chunk, error)
}

// AIService translates an editing action plus source text into a provider
// prompt and relays the result, either whole or as a fragment stream.
type AIService struct {
	client Generator
	tracer trace.Tracer
}

func NewAIService(client Generator) *AIService {
	return &AIService{client: client, tracer: otel.Tracer("smartblog/ai")}
}

// Configured reports whether the upstream credential is present.
func (s *AIService) Configured() bool { return s.client.Configured() }

// check rejects bad input before any network call. Empty text wins over a
// missing credential so the caller gets the actionable error either way.
func (s *AIService) check(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if !s.client.Configured() {
		return ErrAINotConfigured
	}
	return nil
}

// Generate invokes the provider once and returns the complete result.
func (s *AIService) Generate(ctx context.Context, text, action string, maxTokens int) (string, error) {
	if err := s.check(text); err != nil {
		return "", err
	}
	ctx, span := s.tracer.Start(ctx, "genai.generate",
		trace.WithAttributes(attribute.String("ai.action", action)))
	defer span.End()

	out, err := s.client.Generate(ctx, buildPrompt(action, text), maxTokens)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", classifyUpstream(err)
	}
	return out, nil
}

// Stream opens the provider stream and forwards fragments in arrival order.
// After the preconditions pass, failures are delivered in-band as a final
// chunk with Err set, because the transport has already committed to
// streaming by then. Delivery is at-most-once; no retries.
func (s *AIService) Stream(ctx context.Context, text, action string, maxTokens int) (<-chan genai.Chunk, error) {
	if err := s.check(text); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "genai.stream",
		trace.WithAttributes(attribute.String("ai.action", action)))

	upstream, err := s.client.Stream(ctx, buildPrompt(action, text), maxTokens)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.End()
		out := make(chan genai.Chunk, 1)
		out <- genai.Chunk{Err: classifyUpstream(err)}
		close(out)
		return out, nil
	}

	out := make(chan genai.Chunk)
	go func() {
		defer close(out)
		defer span.End()
		for ch := range upstream {
			if ch.Err != nil {
				ch.Err = classifyUpstream(ch.Err)
				span.SetStatus(codes.Error, ch.Err.Error())
			}
			select {
			case out <- ch:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// classifyUpstream maps a raw provider failure onto the caller-facing
// taxonomy. Best effort: the provider does not expose structured error codes
// on this path, so this inspects the message text.
func classifyUpstream(err error) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "404") || strings.Contains(lower, "not found"):
		return &UpstreamError{Detail: "AI service unavailable. Please get a valid Gemini API key from " + keyGuidanceURL + " and update the configuration"}
	case strings.Contains(msg, "403") || strings.Contains(lower, "forbidden") || strings.Contains(msg, "API_KEY_INVALID"):
		return &UpstreamError{Detail: "Invalid or expired Gemini API key. Get a new key from " + keyGuidanceURL}
	default:
		return &UpstreamError{Detail: "AI generation failed: " + msg}
	}
}
