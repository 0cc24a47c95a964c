// Package pricing provides price and volume estimation for inventory items.
// Estimates come from an external text-generation oracle when it is
// reachable, and from deterministic keyword heuristics when it is not. The
// fallback never fails, so estimation as a whole never fails.
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/movewise/movewise/internal/errors"
)

// Oracle generates a free-text completion for an estimation prompt.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClientConfig holds configuration options for the oracle client.
type ClientConfig struct {
	// BaseURL is the generation API base URL (default: http://127.0.0.1:11434)
	BaseURL string

	// Model is the model name sent with each request
	Model string

	// Timeout bounds each generation round trip (default: 30s)
	Timeout time.Duration

	// Temperature is the sampling temperature (default: 0.7)
	Temperature float64
}

// DefaultClientConfig returns the default oracle client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:     "http://127.0.0.1:11434",
		Model:       "qwen2.5:7b",
		Timeout:     30 * time.Second,
		Temperature: 0.7,
	}
}

// generateRequest is the request body for the /api/generate endpoint.
type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
}

// generateResponse is the response from the /api/generate endpoint.
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Client is an HTTP client for the text-generation oracle.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates an oracle client. A nil config uses defaults; zero
// fields are filled in from the defaults.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	defaults := DefaultClientConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Generate sends a prompt to the oracle and returns the raw completion text.
// Transport failures are wrapped in ErrOracleUnavailable so callers can route
// them to the deterministic fallback.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: false,
		Options: &generateOptions{
			Temperature: c.config.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %s", errors.ErrOracleUnavailable, resp.Status)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)
	}

	return result.Response, nil
}
