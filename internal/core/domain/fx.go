package domain

import "math"

const (
	// amountTolerance is the relative tolerance for the cached-normalization
	// invariant (normalizedAmount == amount * conversionRate).
	amountTolerance = 1e-9

	// rateTolerance is the relative tolerance when comparing a cached
	// conversion rate against a book's locked rate for staleness detection.
	// Exact float equality after repeated multiplication is fragile.
	rateTolerance = 1e-6
)

// IsUsableRate reports whether r can be accepted as a conversion rate:
// positive and finite. NaN, Inf, zero and negatives are all rejected.
func IsUsableRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

// RatesEqual compares two conversion rates within relative tolerance.
func RatesEqual(a, b float64) bool {
	return relEqual(a, b, rateTolerance)
}

// AmountsEqual compares two monetary amounts within relative tolerance.
func AmountsEqual(a, b float64) bool {
	return relEqual(a, b, amountTolerance)
}

func relEqual(a, b, tol float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff < tol
	}
	return diff/largest < tol
}
