package chain

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/racerxdl/segdsp/dsp"

	"github.com/tphakala/go-fir-remez/internal/simdops"
)

// ChannelFilter runs designed taps over complex baseband, optionally
// decimating. It keeps filter history between Work calls.
type ChannelFilter struct {
	fir        *dsp.FirFilter
	decimation int
	taps       int
}

// NewChannelFilter builds a filter from single-precision taps. A decimation
// of 1 filters without rate change.
func NewChannelFilter(taps []float32, decimation int) (*ChannelFilter, error) {
	if len(taps) == 0 {
		return nil, ErrNoTaps
	}
	if decimation < minDecimation {
		return nil, fmt.Errorf("decimation %d must be at least %d", decimation, minDecimation)
	}

	coeffs := append([]float32(nil), taps...)
	cf := &ChannelFilter{decimation: decimation, taps: len(taps)}
	if decimation == minDecimation {
		cf.fir = dsp.MakeFirFilter(coeffs)
	} else {
		cf.fir = dsp.MakeDecimationFirFilter(decimation, coeffs)
	}
	return cf, nil
}

// Work filters a block of samples.
func (c *ChannelFilter) Work(samples []complex64) []complex64 {
	return c.fir.Work(samples)
}

// Decimation returns the rate reduction factor.
func (c *ChannelFilter) Decimation() int { return c.decimation }

// Taps returns the filter length.
func (c *ChannelFilter) Taps() int { return c.taps }

// ChannelGain feeds a complex tone at normalized frequency f through a
// fresh ChannelFilter and returns the mean output magnitude once the filter
// has settled. Decimation aliases the tone but leaves its magnitude alone.
func ChannelGain(taps []float32, decimation int, f float64, samples int) (float64, error) {
	cf, err := NewChannelFilter(taps, decimation)
	if err != nil {
		return 0, err
	}

	settle := settleFactor * cf.Taps()
	if samples <= settle {
		return 0, fmt.Errorf("%d samples cannot settle a %d tap filter", samples, cf.Taps())
	}

	signal := make([]complex64, samples)
	for i := range signal {
		signal[i] = complex64(cmplx.Exp(complex(0, 2*math.Pi*f*float64(i))))
	}
	out := cf.Work(signal)

	skip := (settle + cf.Decimation() - 1) / cf.Decimation()
	if len(out) <= skip {
		return 0, fmt.Errorf("%d outputs left after settling at decimation %d", len(out), cf.Decimation())
	}

	mags := make([]float32, len(out)-skip)
	for i, v := range out[skip:] {
		mags[i] = float32(math.Hypot(float64(real(v)), float64(imag(v))))
	}
	return float64(simdops.For[float32]().Sum(mags)) / float64(len(mags)), nil
}
