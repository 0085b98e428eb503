// Package search is the client for the Google Custom Search endpoint.
//
// A response without an "items" array is reported as ErrNoResults whether the
// provider errored or genuinely found nothing; the two are told apart only in
// the log. This mirrors the single user-visible failure mode of the rest of
// the pipeline.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// maxResults is how many results are formatted for the user.
const maxResults = 5

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

var (
	// ErrNoResults indicates an empty or missing items array. Provider-side
	// problems are conflated with zero matches; inspect the log to tell
	// them apart.
	ErrNoResults = errors.New("no search results")

	// ErrEndpoint indicates the endpoint could not be reached.
	ErrEndpoint = errors.New("search endpoint error")
)

// Config contains the parameters for a Client.
type Config struct {
	APIKey   string
	EngineID string
	BaseURL  string        // defaults to the public endpoint; tests override
	Timeout  time.Duration // bound on each outbound call, 0 means 30s
	Logger   *slog.Logger
}

// Client calls the Custom Search endpoint.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	apiKey     string
	engineID   string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.EngineID == "" {
		return nil, fmt.Errorf("engine id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		engineID:   cfg.EngineID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
	}, nil
}

// searchResponse is the wire shape of a Custom Search response. Only the
// items array is consumed.
type searchResponse struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
}

// Search runs the query and returns at most the first five results formatted
// as "<rank>. <title>: <link>" lines, 1-indexed and newline-joined.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %w", ErrEndpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEndpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrEndpoint, err)
	}

	var decoded searchResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		c.logger.Error("search API returned undecodable body", "status", resp.StatusCode, "body", string(raw))
		return "", fmt.Errorf("%w: decoding response: %w", ErrNoResults, err)
	}
	if len(decoded.Items) == 0 {
		// Provider error and zero matches look the same to the user.
		c.logger.Error("search API returned no items", "status", resp.StatusCode, "body", string(raw))
		return "", ErrNoResults
	}

	c.logger.Debug("search response", "query", query, "items", len(decoded.Items))

	items := decoded.Items
	if len(items) > maxResults {
		items = items[:maxResults]
	}
	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d. %s: %s", i+1, item.Title, item.Link))
	}
	return strings.Join(lines, "\n"), nil
}
