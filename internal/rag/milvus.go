package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// Field names for the evidence corpus collection.
const (
	fieldID         = "id"
	fieldText       = "text"
	fieldSource     = "source"
	fieldMetadata   = "metadata"
	fieldCreateTime = "create_time"
	fieldVector     = "vector"
)

// CorpusCollection is the Milvus collection holding graded-document chunks
// across batch runs.
const CorpusCollection = "evidence_corpus"

// MilvusStore is the optional persistent vector store behind
// core.VectorStore. The per-document grading index never touches it; it only
// archives chunks so later runs can search the whole corpus.
type MilvusStore struct {
	client       client.Client
	embeddingDim int
}

// NewMilvusStore connects to Milvus at addr and ensures the corpus
// collection exists.
func NewMilvusStore(ctx context.Context, addr string, embeddingDim int) (*MilvusStore, error) {
	logger.RAGInfo("Connecting to Milvus at %s with dimension %d", addr, embeddingDim)

	c, err := client.NewClient(ctx, client.Config{
		Address: addr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus: %w", err)
	}

	s := &MilvusStore{
		client:       c,
		embeddingDim: embeddingDim,
	}
	if err := s.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return s, nil
}

// ensureCollection creates and loads the corpus collection when missing.
func (s *MilvusStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.HasCollection(ctx, CorpusCollection)
	if err != nil {
		return fmt.Errorf("failed to check if collection exists: %w", err)
	}
	if exists {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: CorpusCollection,
		Description:    "Chunk vectors from graded lab reports",
		Fields: []*entity.Field{
			{
				Name:       fieldID,
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				TypeParams: map[string]string{"max_length": "64"},
			},
			{
				Name:       fieldText,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "8192"},
			},
			{
				Name:       fieldSource,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "512"},
			},
			{
				Name:     fieldMetadata,
				DataType: entity.FieldTypeJSON,
			},
			{
				Name:     fieldCreateTime,
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     fieldVector,
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", s.embeddingDim),
				},
			},
		},
	}

	if err := s.client.CreateCollection(ctx, schema, 1); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	idx, err := entity.NewIndexHNSW(entity.L2, 16, 200)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := s.client.CreateIndex(ctx, CorpusCollection, fieldVector, idx, false); err != nil {
		return fmt.Errorf("failed to create index on vector field: %w", err)
	}
	if err := s.client.LoadCollection(ctx, CorpusCollection, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	logger.RAGInfo("Created and loaded collection: %s", CorpusCollection)
	return nil
}

// StoreDocument persists one chunk with its embedding.
func (s *MilvusStore) StoreDocument(ctx context.Context, text, source string, metadata map[string]string, vector []float32) (string, error) {
	docID := fmt.Sprintf("chunk_%d", time.Now().UnixNano())

	metadataStr := "{}"
	if metadata != nil {
		metadataBytes, _ := json.Marshal(metadata)
		metadataStr = string(metadataBytes)
	}

	columns := []entity.Column{
		entity.NewColumnVarChar(fieldID, []string{docID}),
		entity.NewColumnVarChar(fieldText, []string{text}),
		entity.NewColumnVarChar(fieldSource, []string{source}),
		entity.NewColumnJSONBytes(fieldMetadata, [][]byte{[]byte(metadataStr)}),
		entity.NewColumnInt64(fieldCreateTime, []int64{time.Now().Unix()}),
		entity.NewColumnFloatVector(fieldVector, s.embeddingDim, [][]float32{vector}),
	}

	if _, err := s.client.Insert(ctx, CorpusCollection, "", columns...); err != nil {
		return "", fmt.Errorf("failed to insert chunk: %w", err)
	}
	return docID, nil
}

// SearchSimilar returns the k nearest stored chunks to vector.
func (s *MilvusStore) SearchSimilar(ctx context.Context, vector []float32, k int) ([]core.StoreSearchResult, error) {
	if k <= 0 {
		k = 5
	}

	sp, err := entity.NewIndexHNSWSearchParam(100)
	if err != nil {
		return nil, fmt.Errorf("failed to create search parameters: %w", err)
	}

	outputFields := []string{fieldID, fieldText, fieldSource, fieldMetadata, fieldCreateTime}
	vectors := []entity.Vector{entity.FloatVector(vector)}

	result, err := s.client.Search(
		ctx,
		CorpusCollection,
		[]string{},
		"",
		outputFields,
		vectors,
		fieldVector,
		entity.L2,
		k,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	if len(result) == 0 || result[0].ResultCount == 0 {
		return []core.StoreSearchResult{}, nil
	}

	searchResult := result[0]
	var results []core.StoreSearchResult

	for i := 0; i < searchResult.ResultCount; i++ {
		ids, ok := searchResult.IDs.(*entity.ColumnVarChar)
		if !ok {
			continue
		}
		texts, ok := searchResult.Fields.GetColumn(fieldText).(*entity.ColumnVarChar)
		if !ok {
			continue
		}

		source := ""
		if sources, ok := searchResult.Fields.GetColumn(fieldSource).(*entity.ColumnVarChar); ok && i < len(sources.Data()) {
			source = sources.Data()[i]
		}

		var metadata map[string]string
		if metadataCol, ok := searchResult.Fields.GetColumn(fieldMetadata).(*entity.ColumnJSONBytes); ok && i < len(metadataCol.Data()) {
			json.Unmarshal(metadataCol.Data()[i], &metadata)
		}

		createTime := int64(0)
		if createTimeCol, ok := searchResult.Fields.GetColumn(fieldCreateTime).(*entity.ColumnInt64); ok && i < len(createTimeCol.Data()) {
			createTime = createTimeCol.Data()[i]
		}

		score := float32(0)
		if i < len(searchResult.Scores) {
			score = searchResult.Scores[i]
		}

		results = append(results, core.StoreSearchResult{
			Document: core.StoredDocument{
				ID:         ids.Data()[i],
				Text:       texts.Data()[i],
				Source:     source,
				Metadata:   metadata,
				CreateTime: createTime,
			},
			Score: score,
		})
	}

	return results, nil
}

// Close closes the connection to Milvus.
func (s *MilvusStore) Close() error {
	return s.client.Close()
}

// Dimension returns the dimensionality the collection was created with.
func (s *MilvusStore) Dimension() int {
	return s.embeddingDim
}
