package evalmetrics

import "math"

// Regularized incomplete beta function, needed for the t-distribution tail
// behind the Pearson p-value. Continued-fraction evaluation; accurate well
// beyond what score comparison needs.

const (
	betaMaxIterations = 200
	betaEpsilon       = 3e-14
	betaFPMin         = 1e-300
)

// lgamma is math.Lgamma without the sign; a, b here are always positive.
func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// regularizedIncompleteBeta computes I_x(a, b) for 0 <= x <= 1.
func regularizedIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lnFront := lgamma(a+b) - lgamma(a) - lgamma(b) +
		a*math.Log(x) + b*math.Log(1-x)

	// The continued fraction converges fast for x < (a+1)/(a+b+2); use the
	// symmetry I_x(a,b) = 1 - I_{1-x}(b,a) otherwise.
	if x < (a+1)/(a+b+2) {
		return math.Exp(lnFront) * betaContinuedFraction(a, b, x) / a
	}
	return 1 - math.Exp(lnFront)*betaContinuedFraction(b, a, 1-x)/b
}

// betaContinuedFraction evaluates the continued fraction for the incomplete
// beta function by the modified Lentz method.
func betaContinuedFraction(a, b, x float64) float64 {
	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < betaFPMin {
		d = betaFPMin
	}
	d = 1 / d
	h := d

	for m := 1; m <= betaMaxIterations; m++ {
		m2 := float64(2 * m)
		aa := float64(m) * (b - float64(m)) * x / ((qam + m2) * (a + m2))

		d = 1 + aa*d
		if math.Abs(d) < betaFPMin {
			d = betaFPMin
		}
		c = 1 + aa/c
		if math.Abs(c) < betaFPMin {
			c = betaFPMin
		}
		d = 1 / d
		h *= d * c

		aa = -(a + float64(m)) * (qab + float64(m)) * x / ((a + m2) * (qap + m2))

		d = 1 + aa*d
		if math.Abs(d) < betaFPMin {
			d = betaFPMin
		}
		c = 1 + aa/c
		if math.Abs(c) < betaFPMin {
			c = betaFPMin
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < betaEpsilon {
			break
		}
	}
	return h
}
