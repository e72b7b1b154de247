// Package chain runs designed taps over sample blocks. Convolver applies
// long real filters by overlap-save FFT convolution, Stream carries filter
// history across blocks and ChannelFilter feeds complex baseband through a
// segdsp decimating FIR.
package chain

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/simd/c128"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-fir-remez/internal/simdops"
)

// ErrNoTaps is returned when a filter is built from an empty tap set.
var ErrNoTaps = errors.New("filter has no taps")

// Convolver performs overlap-save FFT convolution with a fixed kernel.
//
// Input is processed in blocks of fftSize samples overlapping by
// kernelLen-1; each block yields fftSize-kernelLen+1 valid outputs and the
// first kernelLen-1 circular-wrap outputs are discarded.
type Convolver struct {
	fft       *fourier.FFT
	fftSize   int
	blockSize int

	kernelFFT []complex128
	kernelLen int
	scale     float64 // gonum's inverse transform is unnormalized

	block   []float64
	spectra []complex128
	product []complex128
	inverse []float64
}

// NewConvolver transforms taps once for reuse across Filter calls.
func NewConvolver(taps []float64) (*Convolver, error) {
	kernelLen := len(taps)
	if kernelLen == 0 {
		return nil, ErrNoTaps
	}

	fftSize := defaultFFTBlockSize
	for fftSize < 2*kernelLen {
		fftSize *= 2
	}
	fft := fourier.NewFFT(fftSize)

	// circular convolution with the reversed kernel yields
	// y[n] = sum(x[n+k]*h[k]), matching ConvolveValid
	padded := make([]float64, fftSize)
	for i := range kernelLen {
		padded[i] = taps[kernelLen-1-i]
	}

	bins := fftSize/fftHermitianDivisor + 1
	return &Convolver{
		fft:       fft,
		fftSize:   fftSize,
		blockSize: fftSize - kernelLen + 1,
		kernelFFT: fft.Coefficients(nil, padded),
		kernelLen: kernelLen,
		scale:     1.0 / float64(fftSize),
		block:     make([]float64, fftSize),
		spectra:   make([]complex128, bins),
		product:   make([]complex128, bins),
		inverse:   make([]float64, fftSize),
	}, nil
}

// OutputLen returns the number of valid outputs for an input of n samples.
func (c *Convolver) OutputLen(n int) int { return max(0, n-c.kernelLen+1) }

// Filter writes the valid convolution of signal into dst and returns the
// number of samples written. dst must hold OutputLen(len(signal)) samples.
func (c *Convolver) Filter(dst, signal []float64) (int, error) {
	outputLen := c.OutputLen(len(signal))
	if len(dst) < outputLen {
		return 0, fmt.Errorf("destination holds %d samples, need %d", len(dst), outputLen)
	}

	ops := simdops.Float64Ops()
	overlap := c.kernelLen - 1

	for out := 0; out < outputLen; {
		clear(c.block)
		end := min(out+c.fftSize, len(signal))
		copy(c.block, signal[out:end])

		c.spectra = c.fft.Coefficients(c.spectra, c.block)
		c128.Mul(c.product, c.spectra, c.kernelFFT)
		c.inverse = c.fft.Sequence(c.inverse, c.product)
		ops.Scale(c.inverse, c.inverse, c.scale)

		valid := min(c.blockSize, outputLen-out)
		copy(dst[out:out+valid], c.inverse[overlap:overlap+valid])
		out += valid
	}
	return outputLen, nil
}

// FilterValid returns the valid convolution of signal with taps, using
// direct SIMD convolution for short kernels and FFT convolution otherwise.
func FilterValid(signal, taps []float64) ([]float64, error) {
	if len(taps) == 0 {
		return nil, ErrNoTaps
	}
	n := max(0, len(signal)-len(taps)+1)
	dst := make([]float64, n)
	if n == 0 {
		return dst, nil
	}

	if len(taps) < minKernelForFFT {
		simdops.Float64Ops().ConvolveValid(dst, signal, taps)
		return dst, nil
	}

	conv, err := NewConvolver(taps)
	if err != nil {
		return nil, err
	}
	if _, err := conv.Filter(dst, signal); err != nil {
		return nil, err
	}
	return dst, nil
}

// ToneGain filters a unit cosine at normalized frequency f through taps and
// returns the steady-state peak output amplitude.
func ToneGain(taps []float64, f float64, samples int) (float64, error) {
	settle := settleFactor * len(taps)
	if samples <= settle {
		return 0, fmt.Errorf("%d samples cannot settle a %d tap filter", samples, len(taps))
	}

	signal := make([]float64, samples)
	for i := range signal {
		signal[i] = math.Cos(2 * math.Pi * f * float64(i))
	}

	out, err := FilterValid(signal, taps)
	if err != nil {
		return 0, err
	}

	var peak float64
	for _, v := range out[min(len(out), len(taps)):] {
		peak = max(peak, math.Abs(v))
	}
	return peak, nil
}
