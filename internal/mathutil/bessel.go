// Package mathutil holds the closed-form helpers used around filter design:
// ripple conversions, order estimates and the Kaiser window support functions
// used for windowed-sinc baselines.
package mathutil

import "math"

// BesselI0 computes the modified Bessel function of the first kind, order zero.
//
// Polynomial approximations from Abramowitz & Stegun 9.8.1 and 9.8.2 are used,
// split at |x| = 3.75. Accuracy is around 1e-7 relative, which is far below
// anything a window shape can resolve.
func BesselI0(x float64) float64 {
	ax := math.Abs(x)

	if ax < besselSplit {
		t := ax / besselSplit
		return horner(besselSmallCoeffs[:], t*t)
	}

	t := besselSplit / ax
	return math.Exp(ax) / math.Sqrt(ax) * horner(besselLargeCoeffs[:], t)
}

// horner evaluates c[0] + c[1]x + c[2]x² + ...
func horner(c []float64, x float64) float64 {
	var acc float64
	for i := len(c) - 1; i >= 0; i-- {
		acc = acc*x + c[i]
	}
	return acc
}

// KaiserBeta returns the Kaiser window β that reaches the given stopband
// attenuation in dB, using the Kaiser & Schafer empirical fit.
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserAttHigh:
		return kaiserHighSlope * (attenuation - kaiserHighOffset)
	case attenuation >= kaiserAttLow:
		d := attenuation - kaiserAttLow
		return kaiserMidScale*math.Pow(d, kaiserMidPower) + kaiserMidSlope*d
	default:
		return 0
	}
}

// EstimateKaiserLength estimates the odd tap count a Kaiser windowed-sinc
// filter needs for the attenuation (dB) over the normalized transition width.
//
//	N ≈ (att - 8) / (2.285 · 2π · Δf)
func EstimateKaiserLength(attenuation, transitionBW float64) int {
	if transitionBW <= 0 {
		transitionBW = defaultTransitionBW
	}

	n := (attenuation - kaiserLengthOffset) / (kaiserLengthSlope * 2 * math.Pi * transitionBW)

	taps := int(math.Ceil(n))
	if taps%2 == 0 {
		taps++
	}
	return min(max(taps, minFilterLength), maxFilterLength)
}
