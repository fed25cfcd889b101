// Package ollama calls the chat endpoint of a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"airline_assistant/internal/adapters/observability"
	"airline_assistant/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
}

// New returns a client for the server at base, e.g. http://localhost:11434.
func New(base string, timeout time.Duration) *Client {
	if base == "" {
		base = "http://localhost:11434"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
}

// Chat sends a non-streaming chat request and returns the decoded body
// untouched. Field extraction is left to the caller.
func (c *Client) Chat(ctx context.Context, in domain.ChatRequest) (map[string]any, error) {
	data, err := json.Marshal(chatRequest{Model: in.Model, Messages: in.Messages, Stream: false})
	if err != nil {
		return nil, fmt.Errorf("%w: marshalling request: %w", domain.ErrUpstream, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("ollama", "chat", 0, time.Since(start))
		return nil, fmt.Errorf("%w: ollama request: %w", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()
	observability.ObserveExternal("ollama", "chat", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: ollama error (status %d): %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding ollama response: %w", domain.ErrUpstream, err)
	}
	return out, nil
}
