package grade

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/ragrader/internal/config"
	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/embed"
	"github.com/arkanhadi/ragrader/internal/rag"
)

// stubExtractor serves a fixed set of documents keyed by path.
type stubExtractor struct {
	paths []string
	docs  map[string]*core.ExtractedDocument
	errs  map[string]error
}

func (s *stubExtractor) Discover(string) ([]string, error) {
	return s.paths, nil
}

func (s *stubExtractor) Extract(path string) (*core.ExtractedDocument, error) {
	if err := s.errs[path]; err != nil {
		return nil, err
	}
	return s.docs[path], nil
}

// stubGrader returns a canned response and remembers the prompt it got.
type stubGrader struct {
	response string
	prompt   string
}

func (s *stubGrader) Grade(_ context.Context, prompt string) string {
	s.prompt = prompt
	return s.response
}

func testConfig() *config.Config {
	return &config.Config{
		ChunkSize:              200,
		ChunkOverlap:           50,
		TopKRetrieval:          5,
		MinConfidenceThreshold: 0.6,
	}
}

func testRubric() *core.Rubric {
	return &core.Rubric{
		Rubric: core.RubricInfo{Name: "Laporan Praktikum"},
		SubRubrics: []core.SubRubric{
			{ID: 1, Name: "Pendahuluan", Description: "Latar belakang dan tujuan"},
			{ID: 2, Name: "Metodologi", Description: "Langkah-langkah percobaan"},
		},
		AssignmentSubRubrics: []core.Weighting{
			{SubRubricID: 1, Weight: 40},
			{SubRubricID: 2, Weight: 60},
		},
	}
}

const validResponse = `{
	"grading_result": [
		{"sub_rubric": "Pendahuluan", "selected_level": "A", "score_awarded": 85, "weight": 0, "reason": "jelas", "confidence": 0.9},
		{"sub_rubric": "Metodologi", "selected_level": "B", "score_awarded": 70, "weight": 0, "reason": "cukup", "confidence": 0.8}
	],
	"final_score": 76,
	"overall_confidence": 0.85
}`

func TestGradeDocumentEndToEnd(t *testing.T) {
	grader := &stubGrader{response: validResponse}
	p := NewBatchProcessor(testConfig(), embed.NewLocalEmbedder(64), grader, &stubExtractor{}, nil)

	doc := &core.ExtractedDocument{
		Text:      strings.Repeat("Laporan ini membahas percobaan jaringan komputer. ", 20),
		Filename:  "laporan_kelompok_3.txt",
		PageCount: 4,
		Metadata:  map[string]string{"kelompok": "3"},
	}

	result, err := p.GradeDocument(context.Background(), testRubric(), doc)
	require.NoError(t, err)
	require.Empty(t, result.Error)

	// Weights come from the rubric, not the service response.
	require.Len(t, result.GradingResult, 2)
	assert.Equal(t, 40.0, result.GradingResult[0].Weight)
	assert.Equal(t, 60.0, result.GradingResult[1].Weight)
	assert.Equal(t, 76.0, result.FinalScore)

	require.NotNil(t, result.DocumentInfo)
	assert.Equal(t, "laporan_kelompok_3.txt", result.DocumentInfo.Filename)
	assert.Equal(t, 4, result.DocumentInfo.PageCount)
	assert.Equal(t, "3", result.DocumentInfo.Metadata["kelompok"])
	assert.NotEmpty(t, result.DocumentInfo.ProcessedAt)

	// The prompt carried both rubric criteria and some document evidence.
	assert.Contains(t, grader.prompt, "Pendahuluan")
	assert.Contains(t, grader.prompt, "Metodologi")
	assert.Contains(t, grader.prompt, "jaringan komputer")
}

func TestGradeDocumentArchivesChunks(t *testing.T) {
	store := rag.NewMemoryStore()
	embedder := embed.NewLocalEmbedder(64)
	p := NewBatchProcessor(testConfig(), embedder, &stubGrader{response: validResponse}, &stubExtractor{}, store)

	doc := &core.ExtractedDocument{
		Text:     strings.Repeat("Pembahasan hasil percobaan dan analisis data. ", 20),
		Filename: "laporan.txt",
	}

	_, err := p.GradeDocument(context.Background(), testRubric(), doc)
	require.NoError(t, err)
	require.Positive(t, store.Size(), "graded chunks land in the corpus store")

	// The archived chunks are searchable afterwards with the same embedder.
	query, err := embedder.EmbedQuery(context.Background(), "analisis data")
	require.NoError(t, err)
	results, err := store.SearchSimilar(context.Background(), query, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Document.Text, "analisis")
	assert.Equal(t, "laporan.txt", results[0].Document.Source)
}

func TestGradeDocumentEmptyText(t *testing.T) {
	p := NewBatchProcessor(testConfig(), embed.NewLocalEmbedder(64), &stubGrader{response: validResponse}, &stubExtractor{}, nil)

	doc := &core.ExtractedDocument{Text: "   \n  ", Filename: "kosong.txt"}
	_, err := p.GradeDocument(context.Background(), testRubric(), doc)
	assert.Error(t, err)
}

func TestGradeDocumentMalformedResponse(t *testing.T) {
	p := NewBatchProcessor(testConfig(), embed.NewLocalEmbedder(64), &stubGrader{response: "not json at all"}, &stubExtractor{}, nil)

	doc := &core.ExtractedDocument{Text: "Isi laporan singkat.", Filename: "laporan.txt"}
	result, err := p.GradeDocument(context.Background(), testRubric(), doc)
	require.NoError(t, err)

	// Degraded, not failed: the result is empty but still carries provenance.
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.GradingResult)
	require.NotNil(t, result.DocumentInfo)
	assert.Equal(t, "laporan.txt", result.DocumentInfo.Filename)
}

func TestProcessFolderSkipsBrokenDocuments(t *testing.T) {
	extractor := &stubExtractor{
		paths: []string{"a.txt", "b.txt", "c.txt"},
		docs: map[string]*core.ExtractedDocument{
			"a.txt": {Text: "Laporan pertama tentang percobaan.", Filename: "a.txt"},
			"b.txt": {Text: "", Filename: "b.txt"},
			"c.txt": {Text: "Laporan ketiga tentang analisis data.", Filename: "c.txt"},
		},
	}

	p := NewBatchProcessor(testConfig(), embed.NewLocalEmbedder(64), &stubGrader{response: validResponse}, extractor, nil)

	results, err := p.ProcessFolder(context.Background(), "data", testRubric())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a.txt", results[0].DocumentInfo.Filename)
	assert.Equal(t, "c.txt", results[1].DocumentInfo.Filename)
}

func TestProcessFolderExtractionError(t *testing.T) {
	extractor := &stubExtractor{
		paths: []string{"bad.txt", "good.txt"},
		docs: map[string]*core.ExtractedDocument{
			"good.txt": {Text: "Laporan yang bisa dibaca.", Filename: "good.txt"},
		},
		errs: map[string]error{
			"bad.txt": errors.New("unreadable"),
		},
	}

	p := NewBatchProcessor(testConfig(), embed.NewLocalEmbedder(64), &stubGrader{response: validResponse}, extractor, nil)

	results, err := p.ProcessFolder(context.Background(), "data", testRubric())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "good.txt", results[0].DocumentInfo.Filename)
}

func TestProcessFolderEmpty(t *testing.T) {
	p := NewBatchProcessor(testConfig(), embed.NewLocalEmbedder(64), &stubGrader{response: validResponse}, &stubExtractor{}, nil)

	results, err := p.ProcessFolder(context.Background(), "data", testRubric())
	require.NoError(t, err)
	assert.Empty(t, results)
}
