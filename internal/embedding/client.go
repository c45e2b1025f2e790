// Package embedding provides embedding generation for policy indexing
// and retrieval.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Embedder turns text into vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Client generates embeddings with a local Ollama server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	dimension  int
}

// Config holds embedding client configuration.
type Config struct {
	BaseURL   string // Default: http://localhost:11434
	Model     string // e.g., "nomic-embed-text"
	Dimension int    // Default: 768
	Timeout   time.Duration
}

// NewClient creates a new embedding client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "nomic-embed-text"
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = 768
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimension:  cfg.Dimension,
	}
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// Embed generates embeddings for the given texts. Ollama embeds one
// prompt per request, so texts are sent sequentially.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vec, err := c.EmbedSingle(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		embeddings = append(embeddings, vec)
	}
	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *Client) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	jsonBody, err := json.Marshal(embeddingRequest{Model: c.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if embResp.Error != "" {
			return nil, fmt.Errorf("embedding API error: %s", embResp.Error)
		}
		return nil, fmt.Errorf("embedding API error: status %d, body: %s", resp.StatusCode, string(body))
	}
	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	// Track the dimension the model actually produces.
	if c.dimension != len(embResp.Embedding) {
		c.dimension = len(embResp.Embedding)
	}

	return embResp.Embedding, nil
}

// Dimension returns the embedding width of the configured model.
func (c *Client) Dimension() int {
	return c.dimension
}
