package core

import "context"

// EmbedService maps a string to a fixed-length numeric vector. For a given
// model the mapping must be deterministic; all vectors produced by one
// instance share the same dimension.
type EmbedService interface {
	// EmbedQuery generates the embedding for a single text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding dimension of the underlying model.
	Dimension() int
}

// GradingService sends one grading instruction payload to the external
// judgment endpoint and returns the raw response text.
type GradingService interface {
	// Grade performs a single non-conversational completion. Transport
	// failures (timeout, non-2xx, malformed envelope) degrade to "{}" so a
	// single document's service error cannot crash a batch.
	Grade(ctx context.Context, prompt string) string
}

// Extractor is the text-extraction collaborator boundary. PDF byte decoding
// lives behind this interface; the pipeline only sees plain text.
type Extractor interface {
	// Discover lists the document paths under folder that this extractor
	// can handle, in stable order.
	Discover(folder string) ([]string, error)

	// Extract returns the plain text and heuristic metadata for one
	// document. A nil error with empty Text means the document is unusable.
	Extract(path string) (*ExtractedDocument, error)
}

// VectorStore is a persistent vector database for the cross-batch evidence
// corpus. The per-document grading index does not use it; see rag.Index.
type VectorStore interface {
	// StoreDocument persists one chunk with its embedding and returns the
	// assigned document id.
	StoreDocument(ctx context.Context, text, source string, metadata map[string]string, vector []float32) (string, error)

	// SearchSimilar returns the k nearest stored chunks to vector.
	SearchSimilar(ctx context.Context, vector []float32, k int) ([]StoreSearchResult, error)

	// Close releases the connection to the store.
	Close() error
}
