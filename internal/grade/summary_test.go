package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arkanhadi/ragrader/internal/core"
)

func result(score, confidence float64, filename string) *core.GradingResult {
	return &core.GradingResult{
		FinalScore:        score,
		OverallConfidence: confidence,
		DocumentInfo:      &core.DocumentInfo{Filename: filename},
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 0.6)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.MeanScore)
	assert.Empty(t, s.LowConfidence)
}

func TestSummarizeStatistics(t *testing.T) {
	results := []*core.GradingResult{
		result(80, 0.9, "a.txt"),
		result(60, 0.8, "b.txt"),
		result(70, 0.7, "c.txt"),
	}

	s := Summarize(results, 0.6)
	assert.Equal(t, 3, s.Total)
	assert.InDelta(t, 70.0, s.MeanScore, 1e-9)
	assert.InDelta(t, 70.0, s.MedianScore, 1e-9)
	assert.InDelta(t, 60.0, s.MinScore, 1e-9)
	assert.InDelta(t, 80.0, s.MaxScore, 1e-9)
	assert.InDelta(t, 0.8, s.MeanConfidence, 1e-9)
	assert.Empty(t, s.LowConfidence)
}

func TestSummarizeFlagsLowConfidence(t *testing.T) {
	results := []*core.GradingResult{
		result(80, 0.9, "confident.txt"),
		result(50, 0.3, "shaky.txt"),
		{FinalScore: 40, OverallConfidence: 0.2}, // no document info
	}

	s := Summarize(results, 0.6)
	assert.Equal(t, []string{"shaky.txt", "unknown"}, s.LowConfidence)
}

func TestSummarizeEvenMedian(t *testing.T) {
	results := []*core.GradingResult{
		result(60, 0.8, "a.txt"),
		result(80, 0.8, "b.txt"),
	}

	s := Summarize(results, 0.6)
	assert.InDelta(t, 70.0, s.MedianScore, 1e-9)
}
