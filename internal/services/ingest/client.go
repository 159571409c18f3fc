// Package ingest pulls stats from the upstream endpoint into the local database.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/version"
)

const (
	defaultTimeout = 30 * time.Second
	// maxBodySize bounds a single stats payload.
	maxBodySize = 4 << 20
)

// ErrNoEndpoint is returned when the client has no URL to fetch from.
var ErrNoEndpoint = errors.New("stats endpoint URL is empty")

// Client fetches raw stats payloads.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

// NewClient creates a client for url. The key, when set, is sent verbatim
// in the Authorization header. A nil httpClient gets a 30s timeout client.
func NewClient(url, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
		url:        url,
		apiKey:     apiKey,
	}
}

// URL returns the endpoint.
func (c *Client) URL() string {
	return c.url
}

// Fetch retrieves and validates one stats payload.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	if c.url == "" {
		return nil, ErrNoEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stats request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read stats response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := models.ValidateRawStats(body); err != nil {
		return nil, err
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
