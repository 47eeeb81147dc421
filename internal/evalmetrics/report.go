package evalmetrics

import (
	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// Report is the complete evaluation of an AI grading set against a
// reference set, grouped by metric category. It serializes verbatim.
type Report struct {
	DocumentCount int `json:"document_count"`

	Accuracy    AccuracyMetrics    `json:"accuracy"`
	Correlation CorrelationMetrics `json:"correlation"`
	Agreement   AgreementMetrics   `json:"agreement"`
	Confidence  ConfidenceMetrics  `json:"confidence"`
}

// AccuracyMetrics groups the score-distance statistics.
type AccuracyMetrics struct {
	MAE            float64 `json:"mae"`
	RMSE           float64 `json:"rmse"`
	Within5Points  float64 `json:"within_5_points"`
	Within10Points float64 `json:"within_10_points"`
	ExactMatchRate float64 `json:"exact_match_rate"`
}

// CorrelationMetrics groups the linear-association statistics.
type CorrelationMetrics struct {
	PearsonR float64 `json:"pearson_r"`
	PValue   float64 `json:"p_value"`
}

// AgreementMetrics groups the categorical-label statistics.
type AgreementMetrics struct {
	CohenKappa float64 `json:"cohen_kappa"`
	LabelPairs int     `json:"label_pairs"`
}

// ConfidenceMetrics groups the calibration statistics.
type ConfidenceMetrics struct {
	MeanConfidence             float64 `json:"mean_confidence"`
	ConfidenceErrorCorrelation float64 `json:"confidence_error_correlation"`
	ExpectedCalibrationError   float64 `json:"expected_calibration_error"`
}

// ComprehensiveEvaluation composes every metric over two index-aligned
// result sets. Callers align and truncate the sets before invoking; pairs
// beyond the shorter length are ignored.
func ComprehensiveEvaluation(ai, ref []*core.GradingResult) *Report {
	n := len(ai)
	if len(ref) < n {
		n = len(ref)
	}

	aiScores := make([]float64, n)
	refScores := make([]float64, n)
	confidences := make([]float64, n)
	for i := 0; i < n; i++ {
		aiScores[i] = ai[i].FinalScore
		refScores[i] = ref[i].FinalScore
		confidences[i] = ai[i].OverallConfidence
	}

	aiLabels, refLabels := alignedLabels(ai[:n], ref[:n])

	absErrors := make([]float64, n)
	for i := 0; i < n; i++ {
		d := aiScores[i] - refScores[i]
		if d < 0 {
			d = -d
		}
		absErrors[i] = d
	}

	r, p := PearsonCorrelation(aiScores, refScores)

	report := &Report{
		DocumentCount: n,
		Accuracy: AccuracyMetrics{
			MAE:            MeanAbsoluteError(aiScores, refScores),
			RMSE:           RootMeanSquaredError(aiScores, refScores),
			Within5Points:  WithinRangeAccuracy(aiScores, refScores, 5),
			Within10Points: WithinRangeAccuracy(aiScores, refScores, 10),
			ExactMatchRate: ExactMatchRate(aiScores, refScores),
		},
		Correlation: CorrelationMetrics{
			PearsonR: r,
			PValue:   p,
		},
		Agreement: AgreementMetrics{
			CohenKappa: CohenKappa(aiLabels, refLabels),
			LabelPairs: len(aiLabels),
		},
		Confidence: ConfidenceMetrics{
			MeanConfidence:             mean(confidences),
			ConfidenceErrorCorrelation: ConfidenceErrorCorrelation(confidences, absErrors),
			ExpectedCalibrationError:   ExpectedCalibrationError(confidences, aiScores, refScores),
		},
	}

	logger.EvalInfo("Evaluated %d documents: MAE=%.2f RMSE=%.2f r=%.3f kappa=%.3f",
		n, report.Accuracy.MAE, report.Accuracy.RMSE, r, report.Agreement.CohenKappa)

	return report
}

// alignedLabels pairs the per-criterion selected levels of both sets by
// document index and entry index, skipping entries without a counterpart.
func alignedLabels(ai, ref []*core.GradingResult) (aiLabels, refLabels []string) {
	for i := range ai {
		entries := len(ai[i].GradingResult)
		if len(ref[i].GradingResult) < entries {
			entries = len(ref[i].GradingResult)
		}
		for j := 0; j < entries; j++ {
			aiLabels = append(aiLabels, ai[i].GradingResult[j].SelectedLevel)
			refLabels = append(refLabels, ref[i].GradingResult[j].SelectedLevel)
		}
	}
	return aiLabels, refLabels
}
