package math

import "github.com/chewxy/math32"

// Epsilon is the absolute tolerance used by the approximate comparisons.
const Epsilon = 1e-6

// ApproxEq reports whether a and b differ by less than Epsilon.
func ApproxEq(a, b float32) bool {
	return b-Epsilon < a && a < b+Epsilon
}

// ApproxZero reports whether x is within Epsilon of zero.
func ApproxZero(x float32) bool {
	return ApproxEq(x, 0)
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	return math32.Abs(x)
}
