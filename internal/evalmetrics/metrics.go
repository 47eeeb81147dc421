// Package evalmetrics compares a machine-generated grading set against a
// reference set and reports agreement, accuracy and calibration statistics.
// Every function is pure and deterministic over its inputs.
package evalmetrics

import "math"

// MeanAbsoluteError returns mean(|ai - ref|) over paired scores.
func MeanAbsoluteError(ai, ref []float64) float64 {
	n := pairCount(ai, ref)
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(ai[i] - ref[i])
	}
	return sum / float64(n)
}

// RootMeanSquaredError returns sqrt(mean((ai - ref)^2)).
func RootMeanSquaredError(ai, ref []float64) float64 {
	n := pairCount(ai, ref)
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := ai[i] - ref[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// PearsonCorrelation returns the correlation coefficient r and its
// two-tailed p-value for paired score sequences. Degenerate inputs (fewer
// than two pairs, or zero variance on either side) report r=0, p=1 instead
// of dividing by zero.
func PearsonCorrelation(ai, ref []float64) (r, p float64) {
	n := pairCount(ai, ref)
	if n < 2 {
		return 0, 1
	}

	meanA := mean(ai[:n])
	meanB := mean(ref[:n])

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := ai[i] - meanA
		db := ref[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0, 1
	}

	r = cov / math.Sqrt(varA*varB)
	// Floating error can push |r| a hair over 1.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	p = pearsonPValue(r, n)
	return r, p
}

// pearsonPValue computes the two-tailed p-value of r under the t
// distribution with n-2 degrees of freedom.
func pearsonPValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	if r == 1 || r == -1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	// Two-tailed: P(|T| >= |t|) = I_{df/(df+t^2)}(df/2, 1/2).
	return regularizedIncompleteBeta(df/2, 0.5, df/(df+t*t))
}

// WithinRangeAccuracy returns the fraction of pairs whose absolute
// difference is at most tolerance.
func WithinRangeAccuracy(ai, ref []float64, tolerance float64) float64 {
	n := pairCount(ai, ref)
	if n == 0 {
		return 0
	}
	hits := 0
	for i := 0; i < n; i++ {
		if math.Abs(ai[i]-ref[i]) <= tolerance {
			hits++
		}
	}
	return float64(hits) / float64(n)
}

// ExactMatchRate returns the fraction of pairs differing by less than one
// point.
func ExactMatchRate(ai, ref []float64) float64 {
	n := pairCount(ai, ref)
	if n == 0 {
		return 0
	}
	hits := 0
	for i := 0; i < n; i++ {
		if math.Abs(ai[i]-ref[i]) < 1 {
			hits++
		}
	}
	return float64(hits) / float64(n)
}

// CohenKappa measures categorical agreement between two label sequences,
// corrected for chance agreement derived from the marginal label
// distributions. When chance agreement is 1 the statistic is undefined; the
// sentinel is 1 for perfect observed agreement and 0 otherwise.
func CohenKappa(ai, ref []string) float64 {
	n := len(ai)
	if len(ref) < n {
		n = len(ref)
	}
	if n == 0 {
		return 0
	}

	agree := 0
	countA := make(map[string]int)
	countB := make(map[string]int)
	for i := 0; i < n; i++ {
		if ai[i] == ref[i] {
			agree++
		}
		countA[ai[i]]++
		countB[ref[i]]++
	}

	po := float64(agree) / float64(n)

	var pe float64
	for label, ca := range countA {
		pe += (float64(ca) / float64(n)) * (float64(countB[label]) / float64(n))
	}

	if pe == 1 {
		if po == 1 {
			return 1
		}
		return 0
	}
	return (po - pe) / (1 - pe)
}

// ConfidenceErrorCorrelation returns the Pearson correlation between
// reported confidences and the corresponding absolute errors. A
// well-calibrated system shows a negative value (higher confidence, lower
// error); the number is reported without judgment.
func ConfidenceErrorCorrelation(confidences, errors []float64) float64 {
	r, _ := PearsonCorrelation(confidences, errors)
	return r
}

// eceBins is the number of fixed-width confidence bins over [0,1].
const eceBins = 10

// eceAccuracyTolerance defines the per-pair accuracy indicator used inside
// the calibration bins: a prediction counts as accurate when it lands within
// ±10 points of the reference.
const eceAccuracyTolerance = 10.0

// ExpectedCalibrationError buckets confidences into fixed-width bins and
// sums |mean confidence - mean accuracy| per non-empty bin, weighted by the
// bin's population fraction.
func ExpectedCalibrationError(confidences, aiScores, refScores []float64) float64 {
	n := pairCount(aiScores, refScores)
	if len(confidences) < n {
		n = len(confidences)
	}
	if n == 0 {
		return 0
	}

	binConf := make([]float64, eceBins)
	binAcc := make([]float64, eceBins)
	binCount := make([]int, eceBins)

	for i := 0; i < n; i++ {
		b := int(confidences[i] * eceBins)
		if b >= eceBins {
			b = eceBins - 1
		}
		if b < 0 {
			b = 0
		}
		binConf[b] += confidences[i]
		if math.Abs(aiScores[i]-refScores[i]) <= eceAccuracyTolerance {
			binAcc[b]++
		}
		binCount[b]++
	}

	var ece float64
	for b := 0; b < eceBins; b++ {
		if binCount[b] == 0 {
			continue
		}
		meanConf := binConf[b] / float64(binCount[b])
		meanAcc := binAcc[b] / float64(binCount[b])
		weight := float64(binCount[b]) / float64(n)
		ece += weight * math.Abs(meanConf-meanAcc)
	}
	return ece
}

func pairCount(a, b []float64) int {
	if len(a) < len(b) {
		return len(a)
	}
	return len(b)
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
