package features

import "math"

// SafeLog10 is the base-10 logarithm used for every Log* feature.
//
// A zero input yields 0 instead of -Inf. The trained model saw 0 in those
// columns, so the substitution must be kept even though it is not a
// logarithm. Exact powers of ten return their exponent exactly; math.Log10
// alone can land one ulp below (Log10(1000) == 2.9999999999999996).
func SafeLog10(x float64) float64 {
	if x == 0 {
		return 0
	}
	if e, ok := exactPow10(x); ok {
		return e
	}
	return math.Log10(x)
}

// exactPow10 reports whether x is 10^e for an integer e in [0, 22], the range
// in which powers of ten are exactly representable.
func exactPow10(x float64) (float64, bool) {
	p := 1.0
	for e := 0; e <= 22; e++ {
		if p == x {
			return float64(e), true
		}
		if p > x {
			return 0, false
		}
		p *= 10
	}
	return 0, false
}
