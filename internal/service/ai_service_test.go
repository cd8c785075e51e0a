package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/smartblog/internal/genai"
)

// fakeGenerator records the prompt it was handed and plays back canned output.
type fakeGenerator struct {
	configured bool
	lastPrompt string
	result     string
	err        error
	chunks     []genai.Chunk
	streamErr  error
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ int) (string, error) {
	f.lastPrompt = prompt
	return f.result, f.err
}

func (f *fakeGenerator) Stream(_ context.Context, prompt string, _ int) (<-chan genai.Chunk, error) {
	f.lastPrompt = prompt
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	out := make(chan genai.Chunk, len(f.chunks))
	for _, ch := range f.chunks {
		out <- ch
	}
	close(out)
	return out, nil
}

func TestAIGenerateEmptyText(t *testing.T) {
	svc := NewAIService(&fakeGenerator{configured: true})
	_, err := svc.Generate(context.Background(), "   \n\t", ActionSummarize, 500)
	require.ErrorIs(t, err, ErrEmptyText)

	// empty text fails the same way without a credential
	svc = NewAIService(&fakeGenerator{configured: false})
	_, err = svc.Generate(context.Background(), "", ActionSummarize, 500)
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestAIGenerateUnconfigured(t *testing.T) {
	svc := NewAIService(&fakeGenerator{configured: false})
	_, err := svc.Generate(context.Background(), "some text", ActionSummarize, 500)
	require.ErrorIs(t, err, ErrAINotConfigured)

	_, err = svc.Stream(context.Background(), "some text", ActionSummarize, 500)
	require.ErrorIs(t, err, ErrAINotConfigured)
}

func TestAIUnknownActionFallsBackToSummarize(t *testing.T) {
	fake := &fakeGenerator{configured: true, result: "ok"}
	svc := NewAIService(fake)

	_, err := svc.Generate(context.Background(), "hello world", "bogus", 500)
	require.NoError(t, err)
	bogusPrompt := fake.lastPrompt

	_, err = svc.Generate(context.Background(), "hello world", ActionSummarize, 500)
	require.NoError(t, err)
	require.Equal(t, fake.lastPrompt, bogusPrompt, "unknown action must behave exactly like summarize")
	require.True(t, strings.HasPrefix(bogusPrompt, "Summarize the following text"))
}

func TestAIPromptTemplates(t *testing.T) {
	fake := &fakeGenerator{configured: true, result: "ok"}
	svc := NewAIService(fake)
	ctx := context.Background()

	cases := map[string]string{
		ActionSummarize:  "Summarize the following text",
		ActionFixGrammar: "Fix any grammar and spelling errors",
		ActionContinue:   "Continue writing the following text",
		ActionExpand:     "Expand on the following text",
	}
	for action, prefix := range cases {
		_, err := svc.Generate(ctx, "the source", action, 500)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(fake.lastPrompt, prefix), "action %s", action)
		require.True(t, strings.HasSuffix(fake.lastPrompt, "\n\nthe source"))
	}
}

func TestAIUpstreamClassification(t *testing.T) {
	cases := []struct {
		name     string
		upstream string
		want     string
	}{
		{"status 404", "generate request status 404: model missing", "AI service unavailable"},
		{"not found text", "publisher model was Not Found apparently", "AI service unavailable"},
		{"status 403", "generate request status 403: nope", "Invalid or expired Gemini API key"},
		{"invalid key", "API_KEY_INVALID: check credentials", "Invalid or expired Gemini API key"},
		{"anything else", "connection reset by peer", "AI generation failed: connection reset by peer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeGenerator{configured: true, err: errors.New(tc.upstream)}
			svc := NewAIService(fake)
			_, err := svc.Generate(context.Background(), "text", ActionSummarize, 500)
			var upstream *UpstreamError
			require.ErrorAs(t, err, &upstream)
			require.Contains(t, upstream.Detail, tc.want)
		})
	}
}

func TestAIStreamForwardsChunksInOrder(t *testing.T) {
	fake := &fakeGenerator{configured: true, chunks: []genai.Chunk{
		{Text: "one "}, {Text: "two "}, {Text: "three"},
	}}
	svc := NewAIService(fake)

	stream, err := svc.Stream(context.Background(), "text", ActionContinue, 500)
	require.NoError(t, err)

	var got []string
	for ch := range stream {
		require.NoError(t, ch.Err)
		got = append(got, ch.Text)
	}
	require.Equal(t, []string{"one ", "two ", "three"}, got)
}

func TestAIStreamMidFlightErrorIsInBand(t *testing.T) {
	fake := &fakeGenerator{configured: true, chunks: []genai.Chunk{
		{Text: "partial"},
		{Err: fmt.Errorf("generate request status 403: key rejected")},
	}}
	svc := NewAIService(fake)

	stream, err := svc.Stream(context.Background(), "text", ActionSummarize, 500)
	require.NoError(t, err)

	first, ok := <-stream
	require.True(t, ok)
	require.Equal(t, "partial", first.Text)

	second, ok := <-stream
	require.True(t, ok)
	require.Error(t, second.Err)
	require.Contains(t, second.Err.Error(), "Invalid or expired Gemini API key")

	_, ok = <-stream
	require.False(t, ok, "stream must terminate cleanly after an error")
}

func TestAIStreamOpenFailureBecomesErrorChunk(t *testing.T) {
	fake := &fakeGenerator{configured: true, streamErr: errors.New("generate request status 500: boom")}
	svc := NewAIService(fake)

	stream, err := svc.Stream(context.Background(), "text", ActionSummarize, 500)
	require.NoError(t, err, "failures after the preconditions are delivered in-band")

	ch, ok := <-stream
	require.True(t, ok)
	require.Error(t, ch.Err)
	_, ok = <-stream
	require.False(t, ok)
}
