package mathutil

import "math"

// RippleAmplitude converts a peak-to-peak band ripple in dB to the linear
// deviation from the band amplitude: (10^(r/20) - 1) / (10^(r/20) + 1).
func RippleAmplitude(rippleDB float64) float64 {
	g := math.Pow(10, rippleDB/dbPerDecade)
	return (g - 1) / (g + 1)
}

// RippleDB is the inverse of RippleAmplitude.
func RippleDB(amplitude float64) float64 {
	if amplitude >= 1 {
		return math.Inf(1)
	}
	return dbPerDecade * math.Log10((1+amplitude)/(1-amplitude))
}

// AttenuationDB reports the stopband attenuation a linear deviation gives.
func AttenuationDB(amplitude float64) float64 {
	return -dbPerDecade * math.Log10(max(math.Abs(amplitude), minRipple))
}
