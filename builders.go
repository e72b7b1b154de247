package remez

import (
	"fmt"

	"github.com/tphakala/go-fir-remez/internal/mathutil"
)

// LowPassBuilder assembles a two-band low pass specification in Hz.
type LowPassBuilder struct {
	sampleRate float64
	order      int
	density    int
	oddLength  *bool

	passEnd, stopStart       float64
	passRipple, stopRipple   float64
	passAmplitude, stopLevel float64
}

// LowPass starts a low pass specification. Orders below 6 are replaced by
// a Herrmann estimate at Build time; the estimate reads the dB ripples as
// raw deviations and is clamped to 6.
func LowPass() *LowPassBuilder {
	return &LowPassBuilder{density: DefaultGridDensity, passAmplitude: 1}
}

// SampleRate sets the sample rate in Hz. It is required.
func (b *LowPassBuilder) SampleRate(hz float64) *LowPassBuilder {
	b.sampleRate = hz
	return b
}

// Order sets the filter order. Values below 6 request an estimate.
func (b *LowPassBuilder) Order(order int) *LowPassBuilder {
	b.order = order
	return b
}

// GridDensity sets the grid points per extremal frequency.
func (b *LowPassBuilder) GridDensity(d int) *LowPassBuilder {
	b.density = d
	return b
}

// PassBandCutoff sets the pass band edge in Hz.
func (b *LowPassBuilder) PassBandCutoff(hz float64) *LowPassBuilder {
	b.passEnd = hz
	return b
}

// StopBandStart sets the first stop band frequency in Hz.
func (b *LowPassBuilder) StopBandStart(hz float64) *LowPassBuilder {
	b.stopStart = hz
	return b
}

// PassBandRipple sets the pass band ripple in dB.
func (b *LowPassBuilder) PassBandRipple(db float64) *LowPassBuilder {
	b.passRipple = db
	return b
}

// StopBandRipple sets the stop band ripple in dB.
func (b *LowPassBuilder) StopBandRipple(db float64) *LowPassBuilder {
	b.stopRipple = db
	return b
}

// PassBandAmplitude sets the pass band gain; the default is 1.
func (b *LowPassBuilder) PassBandAmplitude(a float64) *LowPassBuilder {
	b.passAmplitude = a
	return b
}

// StopBandAmplitude sets the stop band target; the default is 0.
func (b *LowPassBuilder) StopBandAmplitude(a float64) *LowPassBuilder {
	b.stopLevel = a
	return b
}

// OddLength forces a Type 1 (odd length) or Type 2 (even length) design,
// bumping the order to match. Without it the order's parity decides.
func (b *LowPassBuilder) OddLength(odd bool) *LowPassBuilder {
	b.oddLength = &odd
	return b
}

// Build returns the specification.
func (b *LowPassBuilder) Build() (*Specification, error) {
	if b.sampleRate <= 0 {
		return nil, invalidSpec(b.order, fmt.Errorf("sample rate %g must be positive", b.sampleRate))
	}

	order := b.order
	if order < minBuilderOrder {
		order = max(minBuilderOrder,
			mathutil.EstimateFilterOrder(b.sampleRate, b.passEnd, b.stopStart, b.passRipple, b.stopRipple))
	}

	typ := Type1
	switch {
	case b.oddLength == nil:
		if order%parityDivisor == 1 {
			typ = Type2
		}
	case *b.oddLength:
		order += order % parityDivisor
	default:
		typ = Type2
		if order%parityDivisor == 0 {
			order++
		}
	}

	return NewSpecification(typ, order, []FrequencyBand{
		NewBandHz(b.sampleRate, 0, b.passEnd, b.passAmplitude, b.passRipple),
		NewBandHz(b.sampleRate, b.stopStart, b.sampleRate/2, b.stopLevel, b.stopRipple),
	}, WithGridDensity(b.density))
}

// HighPassBuilder assembles a two-band Type 1 high pass specification.
type HighPassBuilder struct {
	sampleRate float64
	order      int
	density    int

	stopEnd, passStart       float64
	passRipple, stopRipple   float64
	passAmplitude, stopLevel float64
}

// HighPass starts a high pass specification. Orders below 6 are replaced
// by a Herrmann estimate; odd orders are bumped to even.
func HighPass() *HighPassBuilder {
	return &HighPassBuilder{density: DefaultGridDensity, passAmplitude: 1}
}

// SampleRate sets the sample rate in Hz. It is required.
func (b *HighPassBuilder) SampleRate(hz float64) *HighPassBuilder {
	b.sampleRate = hz
	return b
}

// Order sets the filter order.
func (b *HighPassBuilder) Order(order int) *HighPassBuilder {
	b.order = order
	return b
}

// GridDensity sets the grid points per extremal frequency.
func (b *HighPassBuilder) GridDensity(d int) *HighPassBuilder {
	b.density = d
	return b
}

// StopBandCutoff sets the stop band edge in Hz.
func (b *HighPassBuilder) StopBandCutoff(hz float64) *HighPassBuilder {
	b.stopEnd = hz
	return b
}

// PassBandStart sets the first pass band frequency in Hz.
func (b *HighPassBuilder) PassBandStart(hz float64) *HighPassBuilder {
	b.passStart = hz
	return b
}

// PassBandRipple sets the pass band ripple in dB.
func (b *HighPassBuilder) PassBandRipple(db float64) *HighPassBuilder {
	b.passRipple = db
	return b
}

// StopBandRipple sets the stop band ripple in dB.
func (b *HighPassBuilder) StopBandRipple(db float64) *HighPassBuilder {
	b.stopRipple = db
	return b
}

// PassBandAmplitude sets the pass band gain; the default is 1.
func (b *HighPassBuilder) PassBandAmplitude(a float64) *HighPassBuilder {
	b.passAmplitude = a
	return b
}

// StopBandAmplitude sets the stop band target.
func (b *HighPassBuilder) StopBandAmplitude(a float64) *HighPassBuilder {
	b.stopLevel = a
	return b
}

// Build returns the specification.
func (b *HighPassBuilder) Build() (*Specification, error) {
	if b.sampleRate <= 0 {
		return nil, invalidSpec(b.order, fmt.Errorf("sample rate %g must be positive", b.sampleRate))
	}

	order := b.order
	if order < minBuilderOrder {
		order = max(minBuilderOrder,
			mathutil.EstimateFilterOrder(b.sampleRate, b.stopEnd, b.passStart, b.passRipple, b.stopRipple))
	}
	order += order % parityDivisor

	return NewSpecification(Type1, order, []FrequencyBand{
		NewBandHz(b.sampleRate, 0, b.stopEnd, b.stopLevel, b.stopRipple),
		NewBandHz(b.sampleRate, b.passStart, b.sampleRate/2, b.passAmplitude, b.passRipple),
	}, WithGridDensity(b.density))
}

// BandPassBuilder assembles a three-band Type 1 band pass specification:
// stop [0, stop1], pass [passBegin, passEnd], stop [stop2, fs/2].
type BandPassBuilder struct {
	sampleRate float64
	order      int
	density    int

	stop1, passBegin, passEnd, stop2 float64
	passRipple, stopRipple           float64
	passAmplitude, stopLevel         float64
}

// BandPass starts a band pass specification with 0.01 dB ripple in every
// band. Orders below 10 are replaced by a band pass estimate.
func BandPass() *BandPassBuilder {
	return &BandPassBuilder{
		density:       DefaultGridDensity,
		passRipple:    defaultBandPassRipple,
		stopRipple:    defaultBandPassRipple,
		passAmplitude: 1,
	}
}

// SampleRate sets the sample rate in Hz. It is required.
func (b *BandPassBuilder) SampleRate(hz float64) *BandPassBuilder {
	b.sampleRate = hz
	return b
}

// Order sets the filter order. Odd orders are bumped to even.
func (b *BandPassBuilder) Order(order int) *BandPassBuilder {
	b.order = order
	return b
}

// GridDensity sets the grid points per extremal frequency.
func (b *BandPassBuilder) GridDensity(d int) *BandPassBuilder {
	b.density = d
	return b
}

// StopFrequency1 ends the lower stop band, in Hz.
func (b *BandPassBuilder) StopFrequency1(hz float64) *BandPassBuilder {
	b.stop1 = hz
	return b
}

// PassFrequencyBegin starts the pass band, in Hz.
func (b *BandPassBuilder) PassFrequencyBegin(hz float64) *BandPassBuilder {
	b.passBegin = hz
	return b
}

// PassFrequencyEnd ends the pass band, in Hz.
func (b *BandPassBuilder) PassFrequencyEnd(hz float64) *BandPassBuilder {
	b.passEnd = hz
	return b
}

// StopFrequency2 starts the upper stop band, in Hz.
func (b *BandPassBuilder) StopFrequency2(hz float64) *BandPassBuilder {
	b.stop2 = hz
	return b
}

// PassRipple sets the pass band ripple in dB.
func (b *BandPassBuilder) PassRipple(db float64) *BandPassBuilder {
	b.passRipple = db
	return b
}

// StopRipple sets the ripple of both stop bands in dB.
func (b *BandPassBuilder) StopRipple(db float64) *BandPassBuilder {
	b.stopRipple = db
	return b
}

// PassAmplitude sets the pass band gain.
func (b *BandPassBuilder) PassAmplitude(a float64) *BandPassBuilder {
	b.passAmplitude = a
	return b
}

// StopAmplitude sets the target of both stop bands.
func (b *BandPassBuilder) StopAmplitude(a float64) *BandPassBuilder {
	b.stopLevel = a
	return b
}

func (b *BandPassBuilder) validate() error {
	switch {
	case b.sampleRate <= 0:
		return fmt.Errorf("sample rate %g must be positive", b.sampleRate)
	case b.stop1 >= b.passBegin:
		return fmt.Errorf("stop band 1 end %g must be below pass band start %g", b.stop1, b.passBegin)
	case b.passBegin >= b.passEnd:
		return fmt.Errorf("pass band start %g must be below pass band end %g", b.passBegin, b.passEnd)
	case b.passEnd >= b.stop2:
		return fmt.Errorf("pass band end %g must be below stop band 2 start %g", b.passEnd, b.stop2)
	case b.stop2 >= b.sampleRate/2:
		return fmt.Errorf("stop band 2 start %g must be below half the sample rate %g", b.stop2, b.sampleRate/2)
	}
	return nil
}

// Build returns the specification.
func (b *BandPassBuilder) Build() (*Specification, error) {
	if err := b.validate(); err != nil {
		return nil, invalidSpec(b.order, err)
	}

	order := b.order
	if order < minBandPassOrder {
		order = max(minBandPassOrder,
			mathutil.EstimateBandPassOrder(b.sampleRate, b.passBegin, b.passEnd, b.passRipple, b.stopRipple))
	}
	order += order % parityDivisor

	fs := b.sampleRate
	return NewSpecification(Type1, order, []FrequencyBand{
		NewBandHz(fs, 0, b.stop1, b.stopLevel, b.stopRipple),
		NewBandHz(fs, b.passBegin, b.passEnd, b.passAmplitude, b.passRipple),
		NewBandHz(fs, b.stop2, fs/2, b.stopLevel, b.stopRipple),
	}, WithGridDensity(b.density))
}

// ChannelizerBuilder assembles the Type 2 prototype of a polyphase
// channelizer: a pass band up to bw·(1-α), a single-point edge band at bw
// with amplitude 0.5 and a stop band from bw·(1+α).
type ChannelizerBuilder struct {
	sampleRate     float64
	channels       int
	tapsPerChannel int
	bandwidth      float64
	alpha          float64
	density        int
	passRipple     float64
	stopRipple     float64
}

// Channelizer starts a channelizer prototype with α = 0.2, 0.01 dB pass
// ripple and 0.001 dB stop ripple.
func Channelizer() *ChannelizerBuilder {
	return &ChannelizerBuilder{
		alpha:      defaultChannelAlpha,
		density:    DefaultGridDensity,
		passRipple: defaultChannelPassDB,
		stopRipple: defaultChannelStopDB,
	}
}

// SampleRate sets the sample rate in Hz.
func (b *ChannelizerBuilder) SampleRate(hz float64) *ChannelizerBuilder {
	b.sampleRate = hz
	return b
}

// Channels sets the channel count, a positive multiple of 2.
func (b *ChannelizerBuilder) Channels(n int) *ChannelizerBuilder {
	b.channels = n
	return b
}

// TapsPerChannel sets the polyphase branch length.
func (b *ChannelizerBuilder) TapsPerChannel(n int) *ChannelizerBuilder {
	b.tapsPerChannel = n
	return b
}

// ChannelBandwidth sets the channel edge in Hz, where the
// prototype crosses 0.5.
func (b *ChannelizerBuilder) ChannelBandwidth(hz float64) *ChannelizerBuilder {
	b.bandwidth = hz
	return b
}

// Alpha sets the transition width as a fraction of the bandwidth.
func (b *ChannelizerBuilder) Alpha(alpha float64) *ChannelizerBuilder {
	b.alpha = alpha
	return b
}

// GridDensity sets the grid points per extremal frequency.
func (b *ChannelizerBuilder) GridDensity(d int) *ChannelizerBuilder {
	b.density = d
	return b
}

// PassRipple sets the pass band ripple in dB.
func (b *ChannelizerBuilder) PassRipple(db float64) *ChannelizerBuilder {
	b.passRipple = db
	return b
}

// StopRipple sets the stop band ripple in dB.
func (b *ChannelizerBuilder) StopRipple(db float64) *ChannelizerBuilder {
	b.stopRipple = db
	return b
}

func (b *ChannelizerBuilder) validate() error {
	switch {
	case b.sampleRate <= 0:
		return fmt.Errorf("sample rate %g must be positive", b.sampleRate)
	case b.channels < parityDivisor || b.channels%parityDivisor != 0:
		return fmt.Errorf("channel count %d must be a positive multiple of 2", b.channels)
	case b.tapsPerChannel < 1:
		return fmt.Errorf("taps per channel %d must be positive", b.tapsPerChannel)
	case b.alpha < 0 || b.alpha > 1:
		return fmt.Errorf("alpha %g must be within [0, 1]", b.alpha)
	case b.bandwidth <= 0:
		return fmt.Errorf("channel bandwidth %g must be positive", b.bandwidth)
	}
	return nil
}

// Order returns channels·tapsPerChannel-1, the prototype order.
func (b *ChannelizerBuilder) Order() int { return b.channels*b.tapsPerChannel - 1 }

// Build returns the specification. The edge band weight is eight times the
// pass band weight so the prototype crosses 0.5 at the channel edge.
func (b *ChannelizerBuilder) Build() (*Specification, error) {
	if err := b.validate(); err != nil {
		return nil, invalidSpec(b.Order(), err)
	}

	edge := b.bandwidth / b.sampleRate
	pass := NewBand(0, edge*(1-b.alpha), 1, b.passRipple)
	stop := NewBand(edge*(1+b.alpha), nyquist, 0, b.stopRipple)

	maxRipple := max(pass.RippleAmplitude(), stop.RippleAmplitude())
	edgeBand := NewBand(edge, edge, channelEdgeAmplitude, b.passRipple)
	edgeBand.WeightOverride = channelEdgeWeightFactor * pass.Weight(maxRipple)

	return NewSpecification(Type2, b.Order(), []FrequencyBand{pass, edgeBand, stop},
		WithGridDensity(b.density))
}

// HilbertBuilder assembles a single-band Hilbert transformer. Even orders
// give Type 3, odd orders Type 4.
type HilbertBuilder struct {
	sampleRate float64
	order      int
	density    int
	low, high  float64
	rippleDB   float64
}

// Hilbert starts a Hilbert transformer with 1 dB ripple. Edges are in Hz
// when a sample rate is set, otherwise normalized.
func Hilbert() *HilbertBuilder {
	return &HilbertBuilder{density: DefaultGridDensity, rippleDB: defaultHilbertRippleDB}
}

// SampleRate switches the band edges to Hz.
func (b *HilbertBuilder) SampleRate(hz float64) *HilbertBuilder {
	b.sampleRate = hz
	return b
}

// Order sets the filter order, which also picks the type.
func (b *HilbertBuilder) Order(order int) *HilbertBuilder {
	b.order = order
	return b
}

// GridDensity sets the grid points per extremal frequency.
func (b *HilbertBuilder) GridDensity(d int) *HilbertBuilder {
	b.density = d
	return b
}

// Ripple sets the pass band ripple in dB.
func (b *HilbertBuilder) Ripple(db float64) *HilbertBuilder {
	b.rippleDB = db
	return b
}

// PassBand sets the band over which the 90° shift is held.
func (b *HilbertBuilder) PassBand(low, high float64) *HilbertBuilder {
	b.low, b.high = low, high
	return b
}

// Build returns the specification.
func (b *HilbertBuilder) Build() (*Specification, error) {
	low, high := b.low, b.high
	if b.sampleRate > 0 {
		low, high = low/b.sampleRate, high/b.sampleRate
	}

	return NewSpecification(antiSymmetricType(b.order), b.order,
		[]FrequencyBand{NewBand(low, high, 1, b.rippleDB)},
		WithGridDensity(b.density), WithResponse(ResponseHilbert))
}

// DifferentiatorBuilder assembles a differentiator with target
// slope·f over [0, cutoff] and an optional stop band. Even orders give
// Type 3, odd orders Type 4.
type DifferentiatorBuilder struct {
	sampleRate float64
	order      int
	density    int
	cutoff     float64
	stopStart  float64
	slope      float64
	rippleDB   float64
	stopDB     float64
}

// Differentiator starts a differentiator with slope 2π, the ideal
// H(f) = j2πf, over the full band and 0.5 dB relative ripple.
func Differentiator() *DifferentiatorBuilder {
	return &DifferentiatorBuilder{
		density:  DefaultGridDensity,
		slope:    defaultDiffSlope,
		rippleDB: defaultDiffRippleDB,
		stopDB:   defaultDiffRippleDB,
	}
}

// SampleRate switches the band edges to Hz.
func (b *DifferentiatorBuilder) SampleRate(hz float64) *DifferentiatorBuilder {
	b.sampleRate = hz
	return b
}

// Order sets the filter order, which also picks the type.
func (b *DifferentiatorBuilder) Order(order int) *DifferentiatorBuilder {
	b.order = order
	return b
}

// GridDensity sets the grid points per extremal frequency.
func (b *DifferentiatorBuilder) GridDensity(d int) *DifferentiatorBuilder {
	b.density = d
	return b
}

// Slope sets the target gain per unit of normalized frequency.
func (b *DifferentiatorBuilder) Slope(s float64) *DifferentiatorBuilder {
	b.slope = s
	return b
}

// Ripple sets the relative ripple of the differentiating band in dB.
func (b *DifferentiatorBuilder) Ripple(db float64) *DifferentiatorBuilder {
	b.rippleDB = db
	return b
}

// PassBandCutoff ends the differentiating band; the default is Nyquist.
func (b *DifferentiatorBuilder) PassBandCutoff(f float64) *DifferentiatorBuilder {
	b.cutoff = f
	return b
}

// StopBand adds a zero band from start to Nyquist. A non-positive ripple
// keeps the 0.5 dB default.
func (b *DifferentiatorBuilder) StopBand(start, rippleDB float64) *DifferentiatorBuilder {
	b.stopStart = start
	if rippleDB > 0 {
		b.stopDB = rippleDB
	}
	return b
}

// Build returns the specification.
func (b *DifferentiatorBuilder) Build() (*Specification, error) {
	cutoff, stop := b.cutoff, b.stopStart
	if b.sampleRate > 0 {
		cutoff, stop = cutoff/b.sampleRate, stop/b.sampleRate
	}
	if cutoff == 0 {
		cutoff = nyquist
	}

	bands := []FrequencyBand{NewBand(0, cutoff, b.slope, b.rippleDB)}
	if stop > 0 {
		bands = append(bands, NewBand(stop, nyquist, 0, b.stopDB))
	}

	return NewSpecification(antiSymmetricType(b.order), b.order, bands,
		WithGridDensity(b.density), WithResponse(ResponseDifferentiator))
}

func antiSymmetricType(order int) FilterType {
	if order%parityDivisor == 1 {
		return Type4
	}
	return Type3
}
