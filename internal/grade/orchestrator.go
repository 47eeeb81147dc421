// Package grade drives the per-document grading pipeline and the batch loop
// around it.
package grade

import (
	"context"
	"fmt"
	"time"

	"github.com/arkanhadi/ragrader/internal/chunk"
	"github.com/arkanhadi/ragrader/internal/config"
	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/llm"
	"github.com/arkanhadi/ragrader/internal/logger"
	"github.com/arkanhadi/ragrader/internal/rag"
)

// evidencePerQuery is the per-query retrieval breadth during evidence
// collection. Three queries per sub-rubric at three chunks each saturates the
// ten-chunk evidence cap on typical rubrics.
const evidencePerQuery = 3

// BatchProcessor runs the grading pipeline over a set of documents. Failures
// are isolated per document: an unreadable file, an empty extraction or a
// broken service exchange skips that document and the batch continues.
type BatchProcessor struct {
	cfg       *config.Config
	embedder  core.EmbedService
	grader    core.GradingService
	extractor core.Extractor

	// store, when non-nil, archives every indexed chunk into the persistent
	// evidence corpus after grading.
	store core.VectorStore
}

// NewBatchProcessor wires a processor from its collaborators. store may be
// nil.
func NewBatchProcessor(cfg *config.Config, embedder core.EmbedService, grader core.GradingService, extractor core.Extractor, store core.VectorStore) *BatchProcessor {
	return &BatchProcessor{
		cfg:       cfg,
		embedder:  embedder,
		grader:    grader,
		extractor: extractor,
		store:     store,
	}
}

// ProcessFolder grades every document the extractor discovers under folder,
// in input order. The returned slice contains one enriched result per
// successfully graded document; skipped documents leave no entry.
func (p *BatchProcessor) ProcessFolder(ctx context.Context, folder string, rubric *core.Rubric) ([]*core.GradingResult, error) {
	paths, err := p.extractor.Discover(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to discover documents: %w", err)
	}
	if len(paths) == 0 {
		logger.Warn("No documents found in %s", folder)
		return nil, nil
	}

	logger.Info("Found %d documents to process", len(paths))

	var results []*core.GradingResult
	for _, path := range paths {
		doc, err := p.extractor.Extract(path)
		if err != nil {
			logger.Error("Skipping %s: extraction failed: %v", path, err)
			continue
		}
		if doc.Text == "" {
			logger.Warn("Skipping %s: no usable text extracted", path)
			continue
		}

		result, err := p.GradeDocument(ctx, rubric, doc)
		if err != nil {
			logger.Error("Skipping %s: %v", path, err)
			continue
		}

		logger.Info("Graded %s: score=%.1f confidence=%.2f", doc.Filename, result.FinalScore, result.OverallConfidence)
		results = append(results, result)
	}

	return results, nil
}

// GradeDocument runs the full pipeline for one extracted document: chunking,
// index build, per-criterion evidence retrieval, prompt assembly, the service
// exchange and parsing. The result is enriched with document provenance
// before it is returned; it is never mutated afterwards.
func (p *BatchProcessor) GradeDocument(ctx context.Context, rubric *core.Rubric, doc *core.ExtractedDocument) (*core.GradingResult, error) {
	chunks := chunk.Split(doc.Text, p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks produced from %s", doc.Filename)
	}
	logger.Info("Created %d chunks from %s", len(chunks), doc.Filename)

	index := rag.NewIndex(p.embedder)
	if err := index.Build(ctx, chunks); err != nil {
		return nil, fmt.Errorf("failed to build index for %s: %w", doc.Filename, err)
	}

	retriever := rag.NewRetriever(index)

	// Per sub-rubric, three query perspectives; union everything with
	// first-seen-wins deduplication across the whole document.
	evidenceLists := make([][]string, 0, len(rubric.SubRubrics))
	for _, sr := range rubric.SubRubrics {
		queries := rag.QueriesForSubRubric(sr)
		evidence, err := retriever.SearchMultiQuery(ctx, queries, evidencePerQuery)
		if err != nil {
			return nil, fmt.Errorf("evidence retrieval failed for %q: %w", sr.Name, err)
		}
		logger.RAGDebug("Found %d evidence chunks for %q", len(evidence), sr.Name)
		evidenceLists = append(evidenceLists, evidence)
	}

	unique := rag.DedupeEvidence(evidenceLists...)
	logger.RAGInfo("Collected %d unique evidence chunks", len(unique))

	prompt, err := llm.BuildGradingPrompt(rubric, rag.FormatEvidence(unique))
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt for %s: %w", doc.Filename, err)
	}
	logger.Debug("Prompt length: %d characters", len(prompt))

	raw := p.grader.Grade(ctx, prompt)
	result := llm.Parse(raw, rubric)
	if result.Error != "" {
		logger.Warn("Grading of %s degraded to empty result: %s", doc.Filename, result.Error)
	}

	result.DocumentInfo = &core.DocumentInfo{
		Filename:    doc.Filename,
		PageCount:   doc.PageCount,
		Metadata:    doc.Metadata,
		ProcessedAt: time.Now().Format(time.RFC3339),
	}

	p.archiveChunks(ctx, doc, chunks, index.Vectors())

	return result, nil
}

// archiveChunks stores the document's chunks into the persistent corpus when
// a store is configured, reusing the embeddings the index already computed.
// Archive failures are logged, never fatal: the corpus is a convenience, not
// part of the grading contract.
func (p *BatchProcessor) archiveChunks(ctx context.Context, doc *core.ExtractedDocument, chunks []string, vectors [][]float32) {
	if p.store == nil || len(vectors) != len(chunks) {
		return
	}
	for i, c := range chunks {
		if _, err := p.store.StoreDocument(ctx, c, doc.Filename, doc.Metadata, vectors[i]); err != nil {
			logger.RAGDebug("Corpus archive: storing chunk %d of %s failed: %v", i, doc.Filename, err)
		}
	}
}
