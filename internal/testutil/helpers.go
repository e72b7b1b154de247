// Package testutil provides reusable assertions for filter design tests.
package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances shared by the design tests.
const (
	TapTolerance   = 1e-9
	RippleSlack    = 1e-4
	FloatTolerance = 1e-6
)

const halfDivisor = 2

// AssertSymmetric verifies that taps are symmetric (s[i] == s[n-1-i]).
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := range n / halfDivisor {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"taps not symmetric: s[%d]=%g, s[%d]=%g", i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertAntiSymmetric verifies that taps are anti-symmetric
// (s[i] == -s[n-1-i]). For odd lengths this forces a zero center tap.
func AssertAntiSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := range (n + 1) / halfDivisor {
		j := n - 1 - i
		if !assert.InDelta(t, -s[j], s[i], tolerance,
			"taps not anti-symmetric: s[%d]=%g, s[%d]=%g", i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertAlternating verifies that consecutive values change sign.
func AssertAlternating(t *testing.T, s []float64) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if math.Signbit(s[i]) == math.Signbit(s[i-1]) {
			return assert.Fail(t, "signs do not alternate",
				"s[%d]=%g and s[%d]=%g share a sign", i-1, s[i-1], i, s[i])
		}
	}
	return true
}

// Float64s widens float32 taps for the float64 assertions.
func Float64s(s []float32) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}

// AssertNoNaNOrInf fails on the first tap that is not finite.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return assert.Failf(t, "non-finite tap", "s[%d]=%g %s", i, v, message(msgAndArgs))
		}
	}
	return true
}

// AssertAllInRange fails on the first value outside [lo, hi].
func AssertAllInRange(t *testing.T, s []float64, lo, hi float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < lo || v > hi {
			return assert.Failf(t, "value out of range", "s[%d]=%g not in [%g, %g] %s", i, v, lo, hi, message(msgAndArgs))
		}
	}
	return true
}

// AssertRelativeError checks |actual-expected|/|expected| <= tolerance,
// falling back to an absolute check when expected is zero.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	rel := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqualf(t, rel, tolerance, "relative error %e (expected %g, got %g) %s", rel, expected, actual, message(msgAndArgs))
}

// AssertOddLength checks that a tap set has odd length (types 1 and 3).
func AssertOddLength(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Equalf(t, 1, len(s)%halfDivisor, "length %d is even %s", len(s), message(msgAndArgs))
}

// AssertInRange checks lo <= value <= hi.
func AssertInRange(t *testing.T, value, lo, hi float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < lo || value > hi {
		return assert.Failf(t, "value out of range", "%g not in [%g, %g] %s", value, lo, hi, message(msgAndArgs))
	}
	return true
}

func message(msgAndArgs []any) string {
	switch {
	case len(msgAndArgs) == 0:
		return ""
	case len(msgAndArgs) == 1:
		return fmt.Sprint(msgAndArgs[0])
	default:
		if format, ok := msgAndArgs[0].(string); ok {
			return fmt.Sprintf(format, msgAndArgs[1:]...)
		}
		return fmt.Sprint(msgAndArgs...)
	}
}
