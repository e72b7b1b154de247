package filter

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-fir-remez/internal/simdops"
)

// ErrChannels is returned for an unusable channel count.
var ErrChannels = errors.New("invalid channel count")

// Bank is the polyphase decomposition of a channelizer prototype: phase p
// holds prototype[p], prototype[p+channels], prototype[p+2·channels], ...
type Bank struct {
	// Phases are the per-channel sub-filters, each TapsPerPhase long.
	Phases [][]float64

	Channels     int
	TapsPerPhase int

	// TotalTaps is the prototype length before decomposition.
	TotalTaps int
}

// Decompose splits a prototype filter into channels polyphase branches. A
// prototype whose length is not a multiple of channels is zero padded.
func Decompose(prototype []float64, channels int) (*Bank, error) {
	if channels < minChannels || channels > maxChannels {
		return nil, fmt.Errorf("%w: %d out of range [%d, %d]", ErrChannels, channels, minChannels, maxChannels)
	}
	if len(prototype) < channels {
		return nil, fmt.Errorf("%w: %d taps cannot feed %d channels", ErrChannels, len(prototype), channels)
	}

	perPhase := (len(prototype) + channels - 1) / channels
	bank := &Bank{
		Phases:       make([][]float64, channels),
		Channels:     channels,
		TapsPerPhase: perPhase,
		TotalTaps:    len(prototype),
	}

	for p := range bank.Phases {
		phase := make([]float64, perPhase)
		for tap := range phase {
			if idx := tap*channels + p; idx < len(prototype) {
				phase[tap] = prototype[idx]
			}
		}
		bank.Phases[p] = phase
	}

	return bank, nil
}

// Gains returns the DC gain of every phase.
func (b *Bank) Gains() []float64 {
	ops := simdops.Float64Ops()
	gains := make([]float64, b.Channels)
	for p, phase := range b.Phases {
		gains[p] = ops.Sum(phase)
	}
	return gains
}

// Interleave rebuilds the prototype from the phases.
func (b *Bank) Interleave() []float64 {
	out := make([]float64, b.TotalTaps)
	for i := range out {
		out[i] = b.Phases[i%b.Channels][i/b.Channels]
	}
	return out
}
