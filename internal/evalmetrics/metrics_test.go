package evalmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/ragrader/internal/core"
)

func TestMeanAbsoluteError(t *testing.T) {
	tests := []struct {
		name string
		ai   []float64
		ref  []float64
		want float64
	}{
		{"identical", []float64{80, 70}, []float64{80, 70}, 0},
		{"constant offset", []float64{80}, []float64{70}, 10},
		{"mixed signs", []float64{80, 60}, []float64{70, 70}, 10},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MeanAbsoluteError(tt.ai, tt.ref), 1e-9)
		})
	}
}

func TestRootMeanSquaredError(t *testing.T) {
	assert.InDelta(t, 0, RootMeanSquaredError([]float64{80, 70}, []float64{80, 70}), 1e-9)
	assert.InDelta(t, 5, RootMeanSquaredError([]float64{75, 75}, []float64{70, 80}), 1e-9)
	assert.Zero(t, RootMeanSquaredError(nil, nil))
}

func TestPearsonCorrelation(t *testing.T) {
	t.Run("perfect positive", func(t *testing.T) {
		r, p := PearsonCorrelation([]float64{60, 70, 80, 90}, []float64{61, 71, 81, 91})
		assert.InDelta(t, 1.0, r, 1e-9)
		assert.InDelta(t, 0.0, p, 1e-6)
	})

	t.Run("perfect negative", func(t *testing.T) {
		r, _ := PearsonCorrelation([]float64{60, 70, 80}, []float64{80, 70, 60})
		assert.InDelta(t, -1.0, r, 1e-9)
	})

	t.Run("zero variance degenerates", func(t *testing.T) {
		r, p := PearsonCorrelation([]float64{70, 70, 70}, []float64{60, 70, 80})
		assert.Zero(t, r)
		assert.Equal(t, 1.0, p)
	})

	t.Run("too few pairs", func(t *testing.T) {
		r, p := PearsonCorrelation([]float64{70}, []float64{60})
		assert.Zero(t, r)
		assert.Equal(t, 1.0, p)
	})
}

func TestWithinRangeAccuracy(t *testing.T) {
	ai := []float64{75, 82, 68}
	ref := []float64{78, 85, 65}

	assert.InDelta(t, 1.0, WithinRangeAccuracy(ai, ref, 5), 1e-9)

	// One pair six points apart must drop out at tolerance 5.
	assert.InDelta(t, 2.0/3.0, WithinRangeAccuracy([]float64{75, 82, 68}, []float64{78, 85, 74}, 5), 1e-9)

	assert.Zero(t, WithinRangeAccuracy(nil, nil, 5))
}

func TestExactMatchRate(t *testing.T) {
	assert.InDelta(t, 1.0, ExactMatchRate([]float64{80, 70.5}, []float64{80, 70}), 1e-9)
	assert.InDelta(t, 0.5, ExactMatchRate([]float64{80, 72}, []float64{80, 70}), 1e-9)
	assert.Zero(t, ExactMatchRate(nil, nil))
}

func TestCohenKappa(t *testing.T) {
	t.Run("perfect agreement", func(t *testing.T) {
		labels := []string{"A", "B", "C", "A"}
		assert.InDelta(t, 1.0, CohenKappa(labels, labels), 1e-9)
	})

	t.Run("no better than chance", func(t *testing.T) {
		ai := []string{"A", "A", "B", "B"}
		ref := []string{"A", "B", "A", "B"}
		assert.LessOrEqual(t, CohenKappa(ai, ref), 0.0)
	})

	t.Run("single label both sides", func(t *testing.T) {
		assert.InDelta(t, 1.0, CohenKappa([]string{"A", "A"}, []string{"A", "A"}), 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Zero(t, CohenKappa(nil, nil))
	})
}

func TestConfidenceErrorCorrelation(t *testing.T) {
	// Higher confidence paired with lower error: correlation is negative.
	confidences := []float64{0.9, 0.8, 0.6, 0.4}
	errors := []float64{1, 3, 8, 15}
	assert.Negative(t, ConfidenceErrorCorrelation(confidences, errors))
}

func TestExpectedCalibrationError(t *testing.T) {
	t.Run("well calibrated", func(t *testing.T) {
		// Every prediction is confident and accurate: confidence 1.0 matches
		// accuracy 1.0, calibration error is zero.
		confidences := []float64{1, 1, 1}
		ai := []float64{80, 70, 60}
		ref := []float64{80, 70, 60}
		assert.InDelta(t, 0.0, ExpectedCalibrationError(confidences, ai, ref), 1e-9)
	})

	t.Run("overconfident", func(t *testing.T) {
		// Full confidence, every prediction far off: |1.0 - 0.0| = 1.
		confidences := []float64{1, 1}
		ai := []float64{90, 90}
		ref := []float64{40, 40}
		assert.InDelta(t, 1.0, ExpectedCalibrationError(confidences, ai, ref), 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Zero(t, ExpectedCalibrationError(nil, nil, nil))
	})
}

func docResult(score, confidence float64, levels ...string) *core.GradingResult {
	entries := make([]core.GradeEntry, len(levels))
	for i, l := range levels {
		entries[i] = core.GradeEntry{SubRubric: "criterion", SelectedLevel: l}
	}
	return &core.GradingResult{
		GradingResult:     entries,
		FinalScore:        score,
		OverallConfidence: confidence,
	}
}

func TestComprehensiveEvaluation(t *testing.T) {
	ai := []*core.GradingResult{
		docResult(80, 0.9, "A", "B"),
		docResult(65, 0.7, "B", "C"),
		docResult(72, 0.8, "A", "A"),
	}
	ref := []*core.GradingResult{
		docResult(82, 1, "A", "B"),
		docResult(60, 1, "B", "B"),
		docResult(70, 1, "A", "A"),
	}

	report := ComprehensiveEvaluation(ai, ref)
	require.NotNil(t, report)

	assert.Equal(t, 3, report.DocumentCount)
	assert.InDelta(t, 3.0, report.Accuracy.MAE, 1e-9)
	assert.InDelta(t, 1.0, report.Accuracy.Within10Points, 1e-9)
	assert.Equal(t, 6, report.Agreement.LabelPairs)
	// Five of six level labels agree; kappa is positive but below 1.
	assert.Greater(t, report.Agreement.CohenKappa, 0.0)
	assert.Less(t, report.Agreement.CohenKappa, 1.0)
	assert.InDelta(t, 0.8, report.Confidence.MeanConfidence, 1e-9)
}

func TestComprehensiveEvaluationTruncatesToShorter(t *testing.T) {
	ai := []*core.GradingResult{
		docResult(80, 0.9, "A"),
		docResult(70, 0.8, "B"),
	}
	ref := []*core.GradingResult{
		docResult(80, 1, "A"),
	}

	report := ComprehensiveEvaluation(ai, ref)
	assert.Equal(t, 1, report.DocumentCount)
	assert.Equal(t, 1, report.Agreement.LabelPairs)
}
