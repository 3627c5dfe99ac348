package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type inferenceProvider struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

func newInferenceProvider(cfg *Config) (*inferenceProvider, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("inference: missing EMBEDDING_ENDPOINT")
	}

	timeout := cfg.HTTPTimeoutS
	if timeout <= 0 {
		timeout = 30
	}

	return &inferenceProvider{
		baseURL:      strings.TrimRight(cfg.Endpoint, "/"),
		serviceToken: cfg.ServiceToken,
		httpClient:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}, nil
}

// Create calls POST {base}/embeddings. Results are placed by their reported
// index, since the API does not promise to keep input order.
func (p *inferenceProvider) Create(ctx context.Context, model string, texts ...string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, errors.New("inference: no texts provided")
	}
	if model == "" {
		return nil, errors.New("inference: model is required")
	}

	reqBody := map[string]any{
		"model": model,
		"input": texts,
	}

	var parsed struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}

	if err := p.postJSON(ctx, p.baseURL+"/embeddings", reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) == 0 {
		return nil, errors.New("inference: embeddings empty data")
	}

	out := make([][]float64, len(parsed.Data))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("inference: embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}

	return out, nil
}
