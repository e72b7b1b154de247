package remez

import (
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-fir-remez/internal/grid"
	"github.com/tphakala/go-fir-remez/internal/mathutil"
)

// FilterType is the linear-phase FIR class, fixed by length parity and tap
// symmetry.
type FilterType int

const (
	// Type1 is odd length, even order, symmetric. Any magnitude response.
	Type1 FilterType = iota + 1
	// Type2 is even length, odd order, symmetric. Zero at Nyquist.
	Type2
	// Type3 is odd length, even order, anti-symmetric. Zero at DC and Nyquist.
	Type3
	// Type4 is even length, odd order, anti-symmetric. Zero at DC.
	Type4
)

func (t FilterType) String() string {
	switch t {
	case Type1:
		return "type 1"
	case Type2:
		return "type 2"
	case Type3:
		return "type 3"
	case Type4:
		return "type 4"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// AntiSymmetric reports whether taps satisfy h[n] = -h[N-1-n].
func (t FilterType) AntiSymmetric() bool {
	return t == Type3 || t == Type4
}

func (t FilterType) oddOrder() bool {
	return t == Type2 || t == Type4
}

// ResponseKind selects how band amplitudes are read.
type ResponseKind int

const (
	// Multiband treats each band amplitude as a flat target. Low pass, high
	// pass, band pass and channelizer prototypes are multiband.
	Multiband ResponseKind = iota
	// ResponseDifferentiator targets Amplitude·f inside each band, with
	// ripple relative to the target.
	ResponseDifferentiator
	// ResponseHilbert is a multiband anti-symmetric design targeting unit
	// gain.
	ResponseHilbert
)

func (r ResponseKind) String() string {
	switch r {
	case Multiband:
		return "multiband"
	case ResponseDifferentiator:
		return "differentiator"
	case ResponseHilbert:
		return "hilbert"
	default:
		return fmt.Sprintf("response(%d)", int(r))
	}
}

// FrequencyBand is one band of the desired response. Frequencies are
// normalized to the sample rate, 0 to 0.5; Start == End denotes a
// single-point edge band.
type FrequencyBand struct {
	Start     float64
	End       float64
	Amplitude float64

	// RippleDB is the tolerated peak-to-peak ripple in dB.
	RippleDB float64

	// WeightOverride replaces the ripple-derived weight when positive.
	WeightOverride float64
}

// NewBand returns a band with normalized edges.
func NewBand(start, end, amplitude, rippleDB float64) FrequencyBand {
	return FrequencyBand{Start: start, End: end, Amplitude: amplitude, RippleDB: rippleDB}
}

// NewBandHz returns a band with edges given in Hz at sampleRate.
func NewBandHz(sampleRate, startHz, endHz, amplitude, rippleDB float64) FrequencyBand {
	return NewBand(startHz/sampleRate, endHz/sampleRate, amplitude, rippleDB)
}

// Bandwidth returns End - Start.
func (b FrequencyBand) Bandwidth() float64 { return b.End - b.Start }

// RippleAmplitude converts the dB ripple into a linear deviation,
// (10^(r/20)-1)/(10^(r/20)+1).
func (b FrequencyBand) RippleAmplitude() float64 {
	return mathutil.RippleAmplitude(b.RippleDB)
}

// Weight returns the band's error weight relative to the largest ripple
// amplitude in the specification.
func (b FrequencyBand) Weight(maxRipple float64) float64 {
	if b.WeightOverride > 0 {
		return b.WeightOverride
	}
	return maxRipple / b.RippleAmplitude()
}

// Specification is an immutable filter design request.
type Specification struct {
	typ      FilterType
	response ResponseKind
	order    int
	density  int
	bands    []FrequencyBand
}

// SpecOption adjusts a Specification while it is built.
type SpecOption func(*Specification)

// WithGridDensity sets the grid density; the default is DefaultGridDensity.
func WithGridDensity(density int) SpecOption {
	return func(s *Specification) { s.density = density }
}

// WithResponse sets the response kind; the default is Multiband.
func WithResponse(kind ResponseKind) SpecOption {
	return func(s *Specification) { s.response = kind }
}

// NewSpecification validates and returns a specification. The band slice is
// copied. Failures wrap ErrInvalidSpecification.
func NewSpecification(typ FilterType, order int, bands []FrequencyBand, opts ...SpecOption) (*Specification, error) {
	s := &Specification{
		typ:     typ,
		order:   order,
		density: DefaultGridDensity,
		bands:   append([]FrequencyBand(nil), bands...),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Validate(); err != nil {
		return nil, invalidSpec(order, err)
	}
	return s, nil
}

// Validate checks the specification without building a grid.
func (s *Specification) Validate() error {
	if s.typ < Type1 || s.typ > Type4 {
		return fmt.Errorf("unknown filter %v", s.typ)
	}
	if s.order < 1 {
		return fmt.Errorf("order %d must be at least 1", s.order)
	}
	if (s.order%parityDivisor == 1) != s.typ.oddOrder() {
		return fmt.Errorf("order %d has the wrong parity for a %v filter", s.order, s.typ)
	}
	if s.response < Multiband || s.response > ResponseHilbert {
		return fmt.Errorf("unknown %v", s.response)
	}
	if s.response == ResponseHilbert && !s.typ.AntiSymmetric() {
		return fmt.Errorf("hilbert transformer needs an anti-symmetric type, got %v", s.typ)
	}
	for i, b := range s.bands {
		if !(b.RippleDB > 0) {
			return fmt.Errorf("band %d ripple %g dB must be positive", i, b.RippleDB)
		}
		if math.IsNaN(b.Start) || math.IsNaN(b.End) || math.IsNaN(b.Amplitude) {
			return fmt.Errorf("band %d has NaN fields", i)
		}
	}

	p := s.params()
	return p.Validate()
}

// Type returns the filter type.
func (s *Specification) Type() FilterType { return s.typ }

// Response returns the response kind.
func (s *Specification) Response() ResponseKind { return s.response }

// Order returns the filter order, FilterLength()-1.
func (s *Specification) Order() int { return s.order }

// GridDensity returns the grid points per extremal frequency.
func (s *Specification) GridDensity() int { return s.density }

// Bands returns a copy of the band list.
func (s *Specification) Bands() []FrequencyBand {
	return append([]FrequencyBand(nil), s.bands...)
}

// FilterLength returns the number of taps.
func (s *Specification) FilterLength() int { return s.order + 1 }

// HalfOrder returns L, the degree of the cosine polynomial the exchange
// fits.
func (s *Specification) HalfOrder() int {
	switch s.typ {
	case Type1:
		return s.order / parityDivisor
	case Type3:
		return (s.order - parityDivisor) / parityDivisor
	default:
		return (s.order - 1) / parityDivisor
	}
}

// ExtremaCount returns L+2.
func (s *Specification) ExtremaCount() int { return s.HalfOrder() + 2 }

// NominalGridSize returns (L+1)·density+1, the grid size before per-band
// rounding.
func (s *Specification) NominalGridSize() int {
	return grid.NominalSize(s.ExtremaCount(), s.density)
}

// GridSize returns the sum of the per-band grid sizes.
func (s *Specification) GridSize() int {
	var size int
	for _, n := range grid.BandSizes(s.gridBands(), s.ExtremaCount(), s.density) {
		size += n
	}
	return size
}

// TotalBandwidth returns the summed band widths.
func (s *Specification) TotalBandwidth() float64 {
	var total float64
	for _, b := range s.bands {
		total += b.Bandwidth()
	}
	return total
}

// GridInterval returns the uniform grid step, totalBandwidth/(gridSize-bands).
func (s *Specification) GridInterval() float64 {
	size := s.GridSize()
	if size <= len(s.bands) {
		return 0
	}
	return s.TotalBandwidth() / float64(size-len(s.bands))
}

// MaxRippleAmplitude returns the largest linear ripple across bands.
func (s *Specification) MaxRippleAmplitude() float64 {
	var largest float64
	for _, b := range s.bands {
		largest = max(largest, b.RippleAmplitude())
	}
	return largest
}

func (s *Specification) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v %v filter, order %d, length %d, grid density %d, half order %d, extrema %d, grid %d (interval %.6f)",
		s.typ, s.response, s.order, s.FilterLength(), s.density, s.HalfOrder(), s.ExtremaCount(),
		s.GridSize(), s.GridInterval())

	maxRipple := s.MaxRippleAmplitude()
	for i, b := range s.bands {
		fmt.Fprintf(&sb, "\n  band %d: %.5f-%.5f amplitude %.5f ripple %.5f dB (%.5f) weight %.5f",
			i, b.Start, b.End, b.Amplitude, b.RippleDB, b.RippleAmplitude(), b.Weight(maxRipple))
	}
	return sb.String()
}

func (s *Specification) gridBands() []grid.Band {
	maxRipple := s.MaxRippleAmplitude()
	out := make([]grid.Band, len(s.bands))
	for i, b := range s.bands {
		out[i] = grid.Band{
			Start:     b.Start,
			End:       b.End,
			Amplitude: b.Amplitude,
			Weight:    b.Weight(maxRipple),
		}
	}
	return out
}

func (s *Specification) params() grid.Params {
	return grid.Params{
		Type:           grid.Type(s.typ),
		Differentiator: s.response == ResponseDifferentiator,
		Density:        s.density,
		Extrema:        s.ExtremaCount(),
		Bands:          s.gridBands(),
	}
}
