package rag

import (
	"context"
	"fmt"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// Retriever issues multiple semantic queries per rubric criterion against an
// Index and merges the results. The union of query perspectives compensates
// for single-query retrieval blind spots.
type Retriever struct {
	index *Index
}

// NewRetriever creates a retriever over index.
func NewRetriever(index *Index) *Retriever {
	return &Retriever{index: index}
}

// QueriesForSubRubric synthesizes the three retrieval queries for one
// sub-rubric: a direct name-based query, the description verbatim, and an
// evidence-for query. The query texts are tuned for the lab-report corpus and
// must stay aligned with it.
func QueriesForSubRubric(sr core.SubRubric) []string {
	return []string{
		fmt.Sprintf("Cari bagian tentang %s", sr.Name),
		sr.Description,
		fmt.Sprintf("Evidence untuk menilai %s", sr.Name),
	}
}

// SearchMultiQuery runs every query with top-k retrieval and unions the
// results with first-seen-wins deduplication, preserving retrieval order.
// Earlier queries take precedence when duplicates occur; no re-ranking by
// global relevance is performed.
func (r *Retriever) SearchMultiQuery(ctx context.Context, queries []string, k int) ([]string, error) {
	var merged []string
	seen := make(map[string]struct{})

	for _, query := range queries {
		results, err := r.index.Search(ctx, query, k)
		if err != nil {
			return nil, fmt.Errorf("search failed for query %q: %w", query, err)
		}
		for _, res := range results {
			if _, ok := seen[res]; ok {
				continue
			}
			merged = append(merged, res)
			seen[res] = struct{}{}
		}
	}

	logger.RAGDebug("Multi-query retrieval: %d queries, %d unique chunks", len(queries), len(merged))
	return merged, nil
}
