package filter

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/go-fir-remez/internal/grid"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Response holds the frequency response of a set of taps.
type Response struct {
	// Frequencies are normalized, 0 to 0.5 inclusive.
	Frequencies []float64

	// Magnitude is |H(f)| at each frequency.
	Magnitude []float64

	// Phase is arg H(f) in radians.
	Phase []float64
}

// ComputeResponse evaluates the response of taps on an even grid from DC to
// Nyquist. The taps are zero padded to a power-of-two FFT of at least
// 2·(points-1) bins, so the result may be denser than requested.
func ComputeResponse(taps []float64, points int) Response {
	if points <= 1 {
		points = defaultResponsePoints
	}

	size := minFFTSize
	for size < halfDivisor*(points-1) || size < len(taps) {
		size *= 2
	}

	padded := make([]float64, size)
	copy(padded, taps)

	fft := fourier.NewFFT(size)
	coeffs := fft.Coefficients(nil, padded)

	resp := Response{
		Frequencies: make([]float64, len(coeffs)),
		Magnitude:   make([]float64, len(coeffs)),
		Phase:       make([]float64, len(coeffs)),
	}
	for k, c := range coeffs {
		resp.Frequencies[k] = fft.Freq(k)
		resp.Magnitude[k] = cmplx.Abs(c)
		resp.Phase[k] = cmplx.Phase(c)
	}
	return resp
}

// Evaluate computes H(f) = Σ h[n]·e^(-j2πfn) directly at one frequency.
func Evaluate(taps []float64, f float64) complex128 {
	var re, im float64
	omega := twoPi * f
	for n, h := range taps {
		angle := omega * float64(n)
		re += h * math.Cos(angle)
		im -= h * math.Sin(angle)
	}
	return complex(re, im)
}

// MagnitudeDB converts a linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	return dbMultiplier * math.Log10(max(magnitude, minMagnitude))
}

// EvaluateDB returns the magnitude response in dB at each frequency.
func EvaluateDB(taps []float64, frequencies []float64) []float64 {
	out := make([]float64, len(frequencies))
	for i, f := range frequencies {
		out[i] = MagnitudeDB(cmplx.Abs(Evaluate(taps, f)))
	}
	return out
}

// BandMeasurement summarizes how well a filter meets one band.
type BandMeasurement struct {
	Band grid.Band

	// MinGain and MaxGain bound |H(f)| inside the band.
	MinGain float64
	MaxGain float64

	// Deviation is the largest |(|H(f)| - Amplitude)| inside the band.
	Deviation float64

	// AttenuationDB is -20·log10(MaxGain); meaningful for stop bands.
	AttenuationDB float64
}

// Measure checks the response of taps against each band on a dense FFT grid.
// Bands narrower than one bin, such as single-point edge bands, are
// evaluated directly at their edges.
func Measure(taps []float64, bands []grid.Band, points int) []BandMeasurement {
	resp := ComputeResponse(taps, points)
	out := make([]BandMeasurement, len(bands))

	for i, b := range bands {
		m := BandMeasurement{Band: b, MinGain: math.Inf(1)}
		add := func(mag float64) {
			m.MinGain = min(m.MinGain, mag)
			m.MaxGain = max(m.MaxGain, mag)
			m.Deviation = max(m.Deviation, math.Abs(mag-b.Amplitude))
		}

		for k, f := range resp.Frequencies {
			if f >= b.Start && f <= b.End {
				add(resp.Magnitude[k])
			}
		}
		add(cmplx.Abs(Evaluate(taps, b.Start)))
		add(cmplx.Abs(Evaluate(taps, b.End)))

		m.AttenuationDB = -MagnitudeDB(m.MaxGain)
		out[i] = m
	}
	return out
}
