// Package genai is a thin client for the external text-completion service.
// It speaks the Gemini REST wire format in both one-shot and SSE streaming
// modes. The base URL and HTTP client are injectable so tests can point it at
// a local server.
package genai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Chunk is one streamed fragment. Err is set instead of Text when the stream
// failed mid-flight; no further chunks follow an error.
type Chunk struct {
	Text string
	Err  error
}

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   cfg.HTTPClient,
	}
}

// Configured reports whether an API key is present. Callers must check this
// before invoking; an unconfigured client never reaches the network.
func (c *Client) Configured() bool { return c.apiKey != "" }

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *generateResponse) text() string {
	var b strings.Builder
	for _, cand := range g.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		break // only the first candidate is requested
	}
	return b.String()
}

func (c *Client) newRequest(ctx context.Context, method string, prompt string, maxTokens int) (*http.Request, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if maxTokens > 0 {
		body.GenerationConfig = &generationConfig{MaxOutputTokens: maxTokens}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:%s", c.baseURL, c.model, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key travels only as a header and is never echoed in errors.
	req.Header.Set("x-goog-api-key", c.apiKey)
	return req, nil
}

func upstreamError(res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("generate request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
}

// Generate performs a single blocking completion and returns the full text.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req, err := c.newRequest(ctx, "generateContent", prompt, maxTokens)
	if err != nil {
		return "", err
	}
	res, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", upstreamError(res)
	}
	var payload generateResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return payload.text(), nil
}

// Stream opens a streaming completion and forwards fragments in arrival order
// on the returned channel. The channel is closed when the upstream stream ends
// or the context is canceled; a mid-stream failure is delivered as a final
// Chunk with Err set. Errors before any data (bad request, rejected key) are
// returned directly.
func (c *Client) Stream(ctx context.Context, prompt string, maxTokens int) (<-chan Chunk, error) {
	req, err := c.newRequest(ctx, "streamGenerateContent?alt=sse", prompt, maxTokens)
	if err != nil {
		return nil, err
	}
	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		defer res.Body.Close()
		return nil, upstreamError(res)
	}

	out := make(chan Chunk, 16)
	go func() {
		defer close(out)
		defer res.Body.Close()

		scanner := bufio.NewScanner(res.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" || data == "[DONE]" {
				continue
			}
			var payload generateResponse
			if err := json.Unmarshal([]byte(data), &payload); err != nil {
				c.emit(ctx, out, Chunk{Err: fmt.Errorf("decode stream event: %w", err)})
				return
			}
			if text := payload.text(); text != "" {
				if !c.emit(ctx, out, Chunk{Text: text}) {
					return
				}
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			c.emit(ctx, out, Chunk{Err: fmt.Errorf("read stream: %w", err)})
		}
	}()
	return out, nil
}

// emit delivers a chunk unless the consumer has detached.
func (c *Client) emit(ctx context.Context, out chan<- Chunk, ch Chunk) bool {
	select {
	case out <- ch:
		return true
	case <-ctx.Done():
		return false
	}
}
