// Package simdops gives the design and filtering code one generic handle on
// the float32 and float64 SIMD kernels, so tap synthesis (float64) and the
// float32 channel filter measurements share the same call sites.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops bundles the SIMD kernels for one float type.
type Ops[F Float] struct {
	// DotProductUnsafe skips the length check; a and b must match.
	DotProductUnsafe func(a, b []F) F

	// ConvolveValid writes len(signal)-len(kernel)+1 outputs to dst.
	ConvolveValid func(dst, signal, kernel []F)

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Scale computes dst[i] = a[i] * s.
	Scale func(dst, a []F, s F)
}

var (
	ops32 = Ops[float32]{
		DotProductUnsafe: f32.DotProductUnsafe,
		ConvolveValid:    f32.ConvolveValid,
		Sum:              f32.Sum,
		Scale:            f32.Scale,
	}
	ops64 = Ops[float64]{
		DotProductUnsafe: f64.DotProductUnsafe,
		ConvolveValid:    f64.ConvolveValid,
		Sum:              f64.Sum,
		Scale:            f64.Scale,
	}
)

// For returns the Ops instance for type F.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		return any(&ops32).(*Ops[F])
	default:
		return any(&ops64).(*Ops[F])
	}
}

// Float64Ops returns the float64 kernels.
func Float64Ops() *Ops[float64] { return &ops64 }
