package mathutil

import (
	"math"
	"testing"
)

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Exactly equal", 1.0, 1.0, 0.1, true},
		{"Within tolerance", 1.0, 1.05, 0.1, true},
		{"Outside tolerance", 1.0, 1.15, 0.1, false},
		{"Zero tolerance exact match", 1.0, 1.0, 0.0, true},
		{"Zero tolerance no match", 1.0, 1.001, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v",
					tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestMax(t *testing.T) {
	tests := []struct {
		name    string
		a       float64
		b       float64
		wantMax float64
	}{
		{"First smaller", 1.0, 2.0, 2.0},
		{"Equal values", 1.0, 1.0, 1.0},
		{"Mixed signs", -1.0, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Max(tt.a, tt.b); got != tt.wantMax {
				t.Errorf("Max(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.wantMax)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		expected float64
	}{
		{"Inside range", 42.5, 42.5},
		{"Below range", -500, 0},
		{"Above range", 120, 100},
		{"Lower bound", 0, 0},
		{"Upper bound", 100, 100},
		{"NaN", math.NaN(), 0},
		{"Positive infinity", math.Inf(1), 100},
		{"Negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampScore(tt.val); got != tt.expected {
				t.Errorf("ClampScore(%v) = %v, expected %v", tt.val, got, tt.expected)
			}
		})
	}
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		fallback    float64
		expected    float64
	}{
		{"Normal division", 10, 4, 0, 2.5},
		{"Zero denominator", 10, 0, -1, -1},
		{"Negative denominator", 10, -2, 7, 7},
		{"Zero numerator", 0, 5, 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SafeDivide(tt.numerator, tt.denominator, tt.fallback)
			if result != tt.expected {
				t.Errorf("SafeDivide(%v, %v, %v) = %v, expected %v",
					tt.numerator, tt.denominator, tt.fallback, result, tt.expected)
			}
		})
	}
}
