package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// LocalEmbedder is a deterministic bag-of-words hashing embedder. It needs no
// external service, which makes it suitable for offline runs and tests; for
// production quality retrieval configure a remote embedding endpoint instead
// (see HTTPEmbedder).
type LocalEmbedder struct {
	dim int
}

// NewLocalEmbedder creates a local embedder producing vectors of dim.
func NewLocalEmbedder(dim int) *LocalEmbedder {
	if dim <= 0 {
		dim = 384
	}
	return &LocalEmbedder{dim: dim}
}

// EmbedQuery hashes each token into a bucket and L2-normalizes the counts.
// The same text always maps to the same vector.
func (e *LocalEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dim)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vector[int(h.Sum32())%e.dim]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector, nil
}

// Dimension returns the embedding dimension.
func (e *LocalEmbedder) Dimension() int {
	return e.dim
}
