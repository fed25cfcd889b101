// internal/adapters/search/client.go
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"airline_assistant/internal/adapters/observability"
	"airline_assistant/internal/domain"
)

// Client talks to a Custom Search JSON API compatible endpoint.
type Client struct {
	base     string
	key      string
	engineID string
	hc       *http.Client
}

func New(base, key, engineID string, timeout time.Duration) (*Client, error) {
	if key == "" || engineID == "" {
		return nil, errors.New("search API key and engine id are required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("search base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:     base,
		key:      key,
		engineID: engineID,
		hc:       &http.Client{Timeout: timeout},
	}, nil
}

// Unavailable stands in for a client that could not be configured. Every
// search fails with domain.ErrUpstream so the lookup action falls back
// to its retry-later reply.
type Unavailable struct{ Err error }

func (u Unavailable) Search(ctx context.Context, query string) ([]domain.SearchItem, error) {
	return nil, fmt.Errorf("%w: search not configured: %w", domain.ErrUpstream, u.Err)
}

type response struct {
	Items []domain.SearchItem `json:"items"`
}

// Search performs exactly one GET. Any transport, status or decode failure
// is returned wrapped in domain.ErrUpstream.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchItem, error) {
	u, _ := url.Parse(c.base)
	// keep any parameters configured on the base URL
	params := u.Query()
	params.Set("q", query)
	params.Set("key", c.key)
	params.Set("cx", c.engineID)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "airline-assistant/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("search", "customsearch", 0, time.Since(start))
		return nil, fmt.Errorf("%w: search request: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("search", "customsearch", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: search status %d: %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %w", domain.ErrUpstream, err)
	}
	if out.Items == nil {
		return []domain.SearchItem{}, nil
	}
	return out.Items, nil
}
