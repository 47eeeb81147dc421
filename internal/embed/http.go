package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arkanhadi/ragrader/internal/logger"
)

// HTTPEmbedder calls an OpenAI-style /embeddings endpoint. The model name is
// configuration; the pipeline only requires that a given model maps a string
// to a fixed-length vector deterministically.
type HTTPEmbedder struct {
	url        string
	apiKey     string
	model      string
	dim        int
	httpClient *http.Client
}

// NewHTTPEmbedder creates a remote embedder against url using model. dim is
// the dimension the model is known to produce; responses with a different
// dimension are rejected.
func NewHTTPEmbedder(url, apiKey, model string, dim int) *HTTPEmbedder {
	return &HTTPEmbedder{
		url:    url,
		apiKey: apiKey,
		model:  model,
		dim:    dim,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// embeddingRequest is the request body of the embeddings endpoint.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the subset of the response the embedder needs.
type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedQuery requests the embedding for a single text.
func (e *HTTPEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	jsonData, err := json.Marshal(embeddingRequest{
		Model: e.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send embedding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API HTTP error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding API returned no data")
	}

	vector := parsed.Data[0].Embedding
	if len(vector) != e.dim {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", e.dim, len(vector))
	}

	logger.RAGDebug("Embedded %d characters into %d dimensions", len(text), len(vector))
	return vector, nil
}

// Dimension returns the configured embedding dimension.
func (e *HTTPEmbedder) Dimension() int {
	return e.dim
}
