package rag

import (
	"context"
	"fmt"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// SearchCorpus embeds a free-text query and looks it up in the persistent
// evidence corpus. This is the cross-batch search path; per-document grading
// uses the ephemeral Index instead.
func SearchCorpus(ctx context.Context, store core.VectorStore, embedder core.EmbedService, query string, k int) ([]core.StoreSearchResult, error) {
	vector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed corpus query: %w", err)
	}

	results, err := store.SearchSimilar(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("corpus search failed: %w", err)
	}

	logger.RAGInfo("Corpus query matched %d chunks", len(results))
	return results, nil
}
