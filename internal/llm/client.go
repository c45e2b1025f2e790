// Package llm wraps the local language model used for policy answers
// and chat. Retry policy lives here at the collaborator boundary; the
// decision logic above it only sees success or failure.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/airdesk-ai/airdesk/internal/observability"
)

// Completer turns a prompt into prose.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds completion client configuration.
type Config struct {
	BaseURL      string  // Default: http://localhost:11434
	Model        string  // e.g., "phi3:mini"
	Temperature  float64 // Default: 0.3
	MaxTokens    int     // Default: 400
	MaxAttempts  int     // Default: 3
	RetryBackoff time.Duration
	Timeout      time.Duration
}

// Client talks to a local Ollama server.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	model        string
	temperature  float64
	maxTokens    int
	maxAttempts  int
	retryBackoff time.Duration
	logger       *observability.Logger
}

// NewClient creates a completion client.
func NewClient(cfg Config, logger *observability.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "phi3:mini"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 400
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = observability.Nop()
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      cfg.BaseURL,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		maxAttempts:  cfg.MaxAttempts,
		retryBackoff: cfg.RetryBackoff,
		logger:       logger.WithOperation("llm"),
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Complete generates text for the prompt, retrying transient failures
// with a fixed backoff before giving up.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		text, err := c.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("completion failed")

		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.retryBackoff):
		}
	}
	return "", fmt.Errorf("completion failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	jsonBody, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.temperature,
			NumPredict:  c.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if genResp.Error != "" {
			return "", fmt.Errorf("model error: %s", genResp.Error)
		}
		return "", fmt.Errorf("model error: status %d, body: %s", resp.StatusCode, string(body))
	}
	if genResp.Response == "" {
		return "", fmt.Errorf("empty completion")
	}
	return genResp.Response, nil
}
