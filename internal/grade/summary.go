package grade

import (
	"math"
	"sort"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// Summary aggregates the outcome of a batch run.
type Summary struct {
	Total int `json:"total_documents"`

	MeanScore   float64 `json:"mean_score"`
	MedianScore float64 `json:"median_score"`
	StdScore    float64 `json:"std_score"`
	MinScore    float64 `json:"min_score"`
	MaxScore    float64 `json:"max_score"`

	MeanConfidence   float64 `json:"mean_confidence"`
	MedianConfidence float64 `json:"median_confidence"`

	// LowConfidence lists the filenames whose overall confidence fell below
	// the configured threshold and deserve a human pass.
	LowConfidence []string `json:"low_confidence,omitempty"`
}

// Summarize computes batch statistics over a result set. threshold is the
// minimum overall confidence below which a document is flagged.
func Summarize(results []*core.GradingResult, threshold float64) *Summary {
	s := &Summary{Total: len(results)}
	if len(results) == 0 {
		return s
	}

	scores := make([]float64, 0, len(results))
	confidences := make([]float64, 0, len(results))
	for _, r := range results {
		scores = append(scores, r.FinalScore)
		confidences = append(confidences, r.OverallConfidence)
		if r.OverallConfidence < threshold {
			name := "unknown"
			if r.DocumentInfo != nil {
				name = r.DocumentInfo.Filename
			}
			s.LowConfidence = append(s.LowConfidence, name)
		}
	}

	s.MeanScore = mean(scores)
	s.MedianScore = median(scores)
	s.StdScore = std(scores)
	s.MinScore = scores[0]
	s.MaxScore = scores[0]
	for _, v := range scores {
		s.MinScore = math.Min(s.MinScore, v)
		s.MaxScore = math.Max(s.MaxScore, v)
	}

	s.MeanConfidence = mean(confidences)
	s.MedianConfidence = median(confidences)

	return s
}

// Log writes the summary to the batch log.
func (s *Summary) Log() {
	logger.Info("Total Documents: %d", s.Total)
	if s.Total == 0 {
		return
	}
	logger.Info("Scores: mean=%.2f median=%.2f std=%.2f min=%.2f max=%.2f",
		s.MeanScore, s.MedianScore, s.StdScore, s.MinScore, s.MaxScore)
	logger.Info("Confidence: mean=%.3f median=%.3f", s.MeanConfidence, s.MedianConfidence)
	for _, name := range s.LowConfidence {
		logger.Warn("Low confidence document: %s", name)
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return 0.5 * (cp[mid-1] + cp[mid])
}

func std(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, v := range xs {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(xs)))
}
