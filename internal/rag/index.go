// Package rag builds per-document vector indexes and retrieves supporting
// evidence for rubric criteria.
package rag

import (
	"context"
	"fmt"
	"sort"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// Index is an exact nearest-neighbor index over the chunks of a single
// document. It is built fresh per document and discarded after grading.
// Search is a linear scan over squared Euclidean distance, which is the right
// tradeoff at tens of chunks per document; approximate indexing is a
// non-goal here.
type Index struct {
	embedder core.EmbedService
	chunks   []string
	vectors  [][]float32
	dim      int
}

// NewIndex creates an empty index backed by embedder.
func NewIndex(embedder core.EmbedService) *Index {
	return &Index{embedder: embedder}
}

// Build embeds every chunk and stores the vectors. Building on no chunks
// yields an empty index whose searches return nothing; that is not an error.
func (idx *Index) Build(ctx context.Context, chunks []string) error {
	idx.chunks = nil
	idx.vectors = nil
	idx.dim = 0

	if len(chunks) == 0 {
		logger.RAGInfo("No chunks to index; index will be empty")
		return nil
	}

	vectors := make([][]float32, 0, len(chunks))
	for i, c := range chunks {
		v, err := idx.embedder.EmbedQuery(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		if len(vectors) > 0 && len(v) != len(vectors[0]) {
			return fmt.Errorf("embedding dimension mismatch at chunk %d: expected %d, got %d", i, len(vectors[0]), len(v))
		}
		vectors = append(vectors, v)
	}

	idx.chunks = append([]string(nil), chunks...)
	idx.vectors = vectors
	idx.dim = len(vectors[0])

	logger.RAGInfo("Index built with %d vectors, dimension=%d", len(vectors), idx.dim)
	return nil
}

// Size returns the number of indexed chunks.
func (idx *Index) Size() int {
	return len(idx.chunks)
}

// Vectors exposes the stored embeddings, parallel to the chunk order passed
// to Build. Callers must not mutate them.
func (idx *Index) Vectors() [][]float32 {
	return idx.vectors
}

// Search returns the k chunks nearest to query, nearest first. k larger than
// the index size is silently clamped; an empty index returns no results.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]string, error) {
	if len(idx.chunks) == 0 {
		return nil, nil
	}
	if k > len(idx.chunks) {
		k = len(idx.chunks)
	}
	if k <= 0 {
		return nil, nil
	}

	q, err := idx.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(q) != idx.dim {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", idx.dim, len(q))
	}

	type scored struct {
		i    int
		dist float32
	}
	distances := make([]scored, len(idx.vectors))
	for i, v := range idx.vectors {
		distances[i] = scored{i: i, dist: squaredL2(q, v)}
	}
	sort.SliceStable(distances, func(a, b int) bool {
		return distances[a].dist < distances[b].dist
	})

	results := make([]string, k)
	for i := 0; i < k; i++ {
		results[i] = idx.chunks[distances[i].i]
	}
	return results, nil
}

// squaredL2 computes the squared Euclidean distance between two vectors of
// equal length.
func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
