package embedding

import (
	"context"
	"fmt"
)

// Client computes embeddings through an OpenAI-compatible endpoint.
// It satisfies vectorstore.Embedder.
type Client struct {
	provider  *inferenceProvider
	model     string
	batchSize int
}

// NewClient validates cfg and builds the HTTP provider behind the client.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	p, err := newInferenceProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 64
	}

	return &Client{provider: p, model: cfg.Model, batchSize: batch}, nil
}

// EmbedDocuments embeds texts in request-sized batches and returns one
// vector per input, in input order.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))

		vectors, err := c.provider.Create(ctx, c.model, texts[start:end]...)
		if err != nil {
			return nil, err
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("embedding: expected %d vectors, got %d", end-start, len(vectors))
		}
		for _, v := range vectors {
			out = append(out, toFloat32(v))
		}
	}
	return out, nil
}

// EmbedQuery embeds a single search query.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.provider.Create(ctx, c.model, text)
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding: expected 1 vector, got %d", len(vectors))
	}
	return toFloat32(vectors[0]), nil
}

// Close releases idle HTTP connections.
func (c *Client) Close() error {
	c.provider.httpClient.CloseIdleConnections()
	return nil
}
