package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-fir-remez/internal/mathutil"
	"github.com/tphakala/go-fir-remez/internal/simdops"
)

// KaiserWindow generates a Kaiser window of the given length and β.
//
//	w[n] = I₀(β·sqrt(1 - ((n-α)/α)²)) / I₀(β),  α = (length-1)/2
//
// The window is symmetric and peaks at 1 in the centre.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	alpha := float64(length-1) / halfDivisor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(1.0-x*x)) / i0Beta
	}

	return window
}

// WindowParams describes a Kaiser windowed-sinc lowpass. It serves as the
// non-optimal baseline an equiripple design is compared against.
type WindowParams struct {
	// Taps is the filter length.
	Taps int

	// Cutoff is the normalized cutoff frequency, in (0, 0.5).
	Cutoff float64

	// Attenuation is the stopband attenuation in dB used to pick β.
	Attenuation float64

	// Gain is the DC gain the taps are normalized to.
	Gain float64
}

// Validate checks the window parameters.
func (wp *WindowParams) Validate() error {
	if wp.Taps < minWindowTaps {
		return fmt.Errorf("filter too short: %d taps (minimum %d)", wp.Taps, minWindowTaps)
	}
	if wp.Taps > maxWindowTaps {
		return fmt.Errorf("filter too long: %d taps (maximum %d)", wp.Taps, maxWindowTaps)
	}
	if wp.Cutoff <= 0 || wp.Cutoff >= 0.5 {
		return fmt.Errorf("invalid cutoff frequency: %f (must be in (0, 0.5))", wp.Cutoff)
	}
	if wp.Attenuation < 0 {
		return fmt.Errorf("invalid attenuation: %f dB (must be positive)", wp.Attenuation)
	}
	if wp.Gain <= 0 {
		return fmt.Errorf("invalid gain: %f (must be positive)", wp.Gain)
	}
	return nil
}

// DesignWindowed designs a Kaiser windowed-sinc lowpass normalized to the
// requested DC gain.
func DesignWindowed(params WindowParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	window := KaiserWindow(params.Taps, mathutil.KaiserBeta(params.Attenuation))
	taps := make([]float64, params.Taps)
	center := float64(params.Taps-1) / halfDivisor

	for n := range taps {
		x := float64(n) - center

		// sin(2πfc·x)/(πx), 2fc at the centre
		sinc := halfDivisor * params.Cutoff
		if math.Abs(x) >= sincZeroThreshold {
			sinc = math.Sin(twoPi*params.Cutoff*x) / (math.Pi * x)
		}
		taps[n] = sinc * window[n]
	}

	ops := simdops.Float64Ops()
	if sum := ops.Sum(taps); math.Abs(sum) > sincZeroThreshold {
		ops.Scale(taps, taps, params.Gain/sum)
	}

	return taps, nil
}

// DesignWindowedAuto sizes the window from the attenuation and transition
// width, then designs it.
func DesignWindowedAuto(cutoff, transitionBW, attenuation, gain float64) ([]float64, error) {
	return DesignWindowed(WindowParams{
		Taps:        mathutil.EstimateKaiserLength(attenuation, transitionBW),
		Cutoff:      cutoff,
		Attenuation: attenuation,
		Gain:        gain,
	})
}
