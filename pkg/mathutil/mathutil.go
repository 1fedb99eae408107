// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/carescore/pkg/constants"
)

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Clamp bounds val to [lo, hi]. NaN maps to lo.
func Clamp(val, lo, hi float64) float64 {
	if math.IsNaN(val) {
		return lo
	}
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampScore bounds val to the [0, 100] score range.
func ClampScore(val float64) float64 {
	return Clamp(val, constants.MinScore, constants.MaxScore)
}

// SafeDivide returns numerator/denominator, or fallback when the denominator
// is not positive.
func SafeDivide(numerator, denominator, fallback float64) float64 {
	if denominator <= 0 {
		return fallback
	}
	return numerator / denominator
}
