package rag

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// MemoryStore is an in-process core.VectorStore with the same surface as
// MilvusStore. It backs single-machine runs without a Milvus deployment; the
// corpus lives only as long as the process.
type MemoryStore struct {
	mu      sync.Mutex
	docs    []core.StoredDocument
	vectors [][]float32
	counter int
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// StoreDocument keeps one chunk with its embedding in memory.
func (s *MemoryStore) StoreDocument(_ context.Context, text, source string, metadata map[string]string, vector []float32) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	docID := fmt.Sprintf("chunk_%d", s.counter)
	s.docs = append(s.docs, core.StoredDocument{
		ID:         docID,
		Text:       text,
		Source:     source,
		Metadata:   metadata,
		CreateTime: time.Now().Unix(),
	})
	s.vectors = append(s.vectors, vector)
	return docID, nil
}

// SearchSimilar returns the k stored chunks nearest to vector, nearest
// first, scored by squared L2 distance.
func (s *MemoryStore) SearchSimilar(_ context.Context, vector []float32, k int) ([]core.StoreSearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.docs) == 0 {
		return nil, nil
	}
	if k <= 0 || k > len(s.docs) {
		k = len(s.docs)
	}

	type scored struct {
		i    int
		dist float32
	}
	distances := make([]scored, 0, len(s.vectors))
	for i, v := range s.vectors {
		if len(v) != len(vector) {
			return nil, fmt.Errorf("query dimension mismatch: stored %d, got %d", len(v), len(vector))
		}
		distances = append(distances, scored{i: i, dist: squaredL2(vector, v)})
	}
	sort.SliceStable(distances, func(a, b int) bool {
		return distances[a].dist < distances[b].dist
	})

	results := make([]core.StoreSearchResult, k)
	for i := 0; i < k; i++ {
		results[i] = core.StoreSearchResult{
			Document: s.docs[distances[i].i],
			Score:    distances[i].dist,
		}
	}
	return results, nil
}

// Size returns the number of stored chunks.
func (s *MemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Close releases nothing; the store is in-process.
func (s *MemoryStore) Close() error {
	logger.RAGDebug("Closing in-memory corpus store (%d chunks)", len(s.docs))
	return nil
}
