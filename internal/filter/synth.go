// Package filter turns a converged amplitude response into FIR taps and
// measures the result: frequency-sampling synthesis for the four
// linear-phase types, response analysis, a Kaiser windowed-sinc baseline and
// polyphase decomposition of channelizer prototypes.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-fir-remez/internal/grid"
	"github.com/tphakala/go-fir-remez/internal/simdops"
)

// Synthesis errors.
var (
	ErrLengthParity   = errors.New("filter length does not match type parity")
	ErrSampleCount    = errors.New("wrong number of frequency samples")
	ErrLengthTooShort = errors.New("filter length too short")
)

// SampleCount returns how many amplitude samples A(i/N) describe a
// linear-phase filter of length n: (n-1)/2+1 for odd n, n/2+1 for even n.
func SampleCount(n int) int {
	if n%halfDivisor == 1 {
		return (n-1)/halfDivisor + 1
	}
	return n/halfDivisor + 1
}

// FrequencySamples samples the amplitude response at f_i = i/n.
func FrequencySamples(n int, amplitude func(f float64) float64) []float64 {
	samples := make([]float64, SampleCount(n))
	for i := range samples {
		samples[i] = amplitude(float64(i) / float64(n))
	}
	return samples
}

// ImpulseResponse inverts the frequency samples A_k = A(k/n) of a
// linear-phase filter into its n taps. With M = (n-1)/2:
//
//	Type 1, 2: h[n] = (A_0 + 2·Σ A_k·cos(2π(n-M)k/N)) / N
//	Type 3:    h[n] = 2·Σ A_k·sin(2π(n-M)k/N) / N
//	Type 4:    h[n] = (A_{N/2}·sin(π(n-M)) + 2·Σ A_k·sin(2π(n-M)k/N)) / N
//
// The sums run over k = 1..M for odd N and k = 1..N/2-1 for even N.
func ImpulseResponse(typ grid.Type, samples []float64, n int) ([]float64, error) {
	if n < minSynthesisLength {
		return nil, fmt.Errorf("%w: %d taps", ErrLengthTooShort, n)
	}
	odd := n%halfDivisor == 1
	if odd != (typ == grid.Type1 || typ == grid.Type3) {
		return nil, fmt.Errorf("%w: type %d with %d taps", ErrLengthParity, typ, n)
	}
	if len(samples) != SampleCount(n) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSampleCount, len(samples), SampleCount(n))
	}

	// harmonics entering the sums
	last := n/halfDivisor - 1
	if odd {
		last = (n - 1) / halfDivisor
	}
	amps := samples[1 : last+1]

	ops := simdops.Float64Ops()
	basis := make([]float64, len(amps))
	taps := make([]float64, n)
	center := float64(n-1) / halfDivisor
	scale := 1 / float64(n)

	for i := range taps {
		m := float64(i) - center
		for k := range basis {
			arg := 2 * math.Pi * m * float64(k+1) / float64(n)
			if typ.AntiSymmetric() {
				basis[k] = math.Sin(arg)
			} else {
				basis[k] = math.Cos(arg)
			}
		}

		sum := 2 * ops.DotProductUnsafe(amps, basis)
		switch typ {
		case grid.Type1, grid.Type2:
			sum += samples[0]
		case grid.Type4:
			sum += samples[n/halfDivisor] * math.Sin(math.Pi*m)
		}
		taps[i] = sum * scale
	}

	return taps, nil
}
