// Package gemini is the client for the Gemini generateContent REST endpoint.
//
// Every downstream problem — transport failure, non-2xx status, malformed or
// empty response body — is classified into one of two sentinel errors rather
// than propagated raw. The dispatcher turns either into the single fallback
// message users ever see; the full response body goes to the log for
// diagnosis. There are no retries: one invocation, one attempt.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

var (
	// ErrEndpoint indicates the endpoint could not be reached or answered
	// with a non-2xx status or an undecodable body.
	ErrEndpoint = errors.New("generation endpoint error")

	// ErrEmptyResponse indicates a well-formed response that is missing the
	// expected candidates/content/parts text field.
	ErrEmptyResponse = errors.New("empty generation response")
)

// Config contains the parameters for a Client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string        // defaults to the public endpoint; tests override
	Timeout time.Duration // bound on each outbound call, 0 means 30s
	Logger  *slog.Logger
}

// Client calls the generateContent endpoint.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
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
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
	}, nil
}

// Generate sends the ordered prompt turns to the model and returns the reply
// text. Failures are classified as ErrEndpoint or ErrEmptyResponse.
func (c *Client) Generate(ctx context.Context, contents []Content) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %w", ErrEndpoint, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %w", ErrEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEndpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrEndpoint, err)
	}

	// The raw response always goes to the log; it is the only place failure
	// causes can be told apart.
	c.logger.Debug("gemini response", "status", resp.StatusCode, "body", string(raw))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrEndpoint, resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%w: decoding response: %w", ErrEndpoint, err)
	}

	text, ok := decoded.text()
	if !ok {
		return "", fmt.Errorf("%w: no candidate text", ErrEmptyResponse)
	}
	return text, nil
}

// GenerateText sends a single untagged user turn, used for one-shot prompts
// such as file analysis.
func (c *Client) GenerateText(ctx context.Context, text string) (string, error) {
	return c.Generate(ctx, []Content{NewUserContent(text)})
}
