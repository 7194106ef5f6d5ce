// pattern: Imperative Shell

package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client checks the research backend's health endpoint. The backend exposes
// GET /health returning 200 once it can serve content.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a health client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Second},
	}
}

// Healthy reports whether the backend answers its health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// WaitReady polls the health endpoint until it answers or ctx is done.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if c.Healthy(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("backend never became healthy: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
