// Package grid builds the dense frequency grid the Remez exchange searches.
//
// Every point carries its normalized frequency f, the Chebyshev abscissa
// x = cos(2πf), and the desired response and weight after the linear-phase
// type transform. For types 2 to 4 the amplitude response factors as
// A(f) = Q(f)·P(cos 2πf) with
//
//	Type 1: Q = 1
//	Type 2: Q = cos(πf)
//	Type 3: Q = sin(2πf)
//	Type 4: Q = sin(πf)
//
// so the grid stores D/Q and W·Q and the exchange only ever fits the
// cosine polynomial P.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// Type is the linear-phase FIR filter type.
type Type int

const (
	// Type1 is odd length, even order, symmetric.
	Type1 Type = iota + 1
	// Type2 is even length, odd order, symmetric.
	Type2
	// Type3 is odd length, even order, anti-symmetric.
	Type3
	// Type4 is even length, odd order, anti-symmetric.
	Type4
)

// AntiSymmetric reports whether the impulse response is anti-symmetric.
func (t Type) AntiSymmetric() bool {
	return t == Type3 || t == Type4
}

// Scale returns Q(f) for the type.
func (t Type) Scale(f float64) float64 {
	switch t {
	case Type2:
		return math.Cos(math.Pi * f)
	case Type3:
		return math.Sin(2 * math.Pi * f)
	case Type4:
		return math.Sin(math.Pi * f)
	default:
		return 1
	}
}

// Errors returned by New.
var (
	ErrNoBands      = errors.New("no frequency bands")
	ErrBandRange    = errors.New("band outside [0, 0.5]")
	ErrBandOrder    = errors.New("bands out of order or overlapping")
	ErrGridTooSmall = errors.New("grid smaller than extremal set")
	ErrType2Nyquist = errors.New("type 2 response must be zero at 0.5")
	ErrBadDensity   = errors.New("grid density must be positive")
	ErrBadWeight    = errors.New("band weight must be positive")
)

// Band is one frequency band of the desired response. Start and End are
// normalized to the sample rate; Start == End denotes a single-point band.
type Band struct {
	Start     float64
	End       float64
	Amplitude float64
	Weight    float64
}

// Width returns the band width.
func (b Band) Width() float64 { return b.End - b.Start }

// Params describes the grid to build.
type Params struct {
	Type           Type
	Differentiator bool
	Density        int
	Extrema        int
	Bands          []Band
}

// Grid is the immutable dense frequency grid. All slices have Len() entries.
type Grid struct {
	Frequency []float64
	Cosine    []float64
	Desired   []float64
	Weight    []float64
	Scale     []float64
	Band      []int

	Interval float64
	Type     Type
}

// Len returns the number of grid points.
func (g *Grid) Len() int { return len(g.Frequency) }

// NominalSize is the grid size before per-band rounding.
func NominalSize(extrema, density int) int {
	return (extrema-1)*density + 1
}

// BandSizes returns the number of grid points allocated to each band.
func BandSizes(bands []Band, extrema, density int) []int {
	total := totalWidth(bands)
	nominal := float64(NominalSize(extrema, density))

	sizes := make([]int, len(bands))
	for i, b := range bands {
		n := 1
		if total > 0 {
			n = max(1, int(math.Ceil(nominal*b.Width()/total)))
		}
		sizes[i] = n
	}
	return sizes
}

func totalWidth(bands []Band) float64 {
	var total float64
	for _, b := range bands {
		total += b.Width()
	}
	return total
}

// Validate checks band ordering and ranges without building the grid.
func (p *Params) Validate() error {
	if p.Density < 1 {
		return fmt.Errorf("%w: %d", ErrBadDensity, p.Density)
	}
	if len(p.Bands) == 0 {
		return ErrNoBands
	}

	for i, b := range p.Bands {
		if b.Start < 0 || b.End > Nyquist+edgeTolerance || b.Start > b.End {
			return fmt.Errorf("%w: band %d [%g, %g]", ErrBandRange, i, b.Start, b.End)
		}
		if b.Weight <= 0 || math.IsNaN(b.Weight) || math.IsInf(b.Weight, 0) {
			return fmt.Errorf("%w: band %d weight %g", ErrBadWeight, i, b.Weight)
		}
		if i > 0 && b.Start <= p.Bands[i-1].End {
			return fmt.Errorf("%w: band %d starts at %g before band %d ends at %g",
				ErrBandOrder, i, b.Start, i-1, p.Bands[i-1].End)
		}
	}

	last := p.Bands[len(p.Bands)-1]
	if p.Type == Type2 && last.End >= Nyquist-edgeTolerance && last.Amplitude != 0 {
		return fmt.Errorf("%w: last band amplitude %g", ErrType2Nyquist, last.Amplitude)
	}

	return nil
}

// New builds the grid for p.
func New(p Params) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	sizes := BandSizes(p.Bands, p.Extrema, p.Density)
	size := 0
	for _, n := range sizes {
		size += n
	}
	if size < p.Extrema {
		return nil, fmt.Errorf("%w: %d points for %d extrema", ErrGridTooSmall, size, p.Extrema)
	}

	var interval float64
	if size > len(p.Bands) {
		interval = totalWidth(p.Bands) / float64(size-len(p.Bands))
	}

	g := &Grid{
		Frequency: make([]float64, 0, size),
		Band:      make([]int, 0, size),
		Interval:  interval,
		Type:      p.Type,
	}

	for bi, b := range p.Bands {
		g.appendBand(bi, b, sizes[bi], bi == 0 && p.Type.AntiSymmetric())
	}

	// sin(2πf) and cos(πf) vanish at Nyquist
	last := len(g.Frequency) - 1
	if (p.Type == Type2 || p.Type == Type3) && g.Frequency[last] > Nyquist-interval {
		g.Frequency[last] = Nyquist - interval
	}

	g.fill(p)
	return g, nil
}

// appendBand lays n points over b at the grid interval. The last point is
// always the band end; when the shared interval would overrun a narrow band
// the band's own spacing is used instead.
func (g *Grid) appendBand(index int, b Band, n int, skipZero bool) {
	start := b.Start
	if skipZero && start < g.Interval {
		start = g.Interval
	}

	step := g.Interval
	if n > 1 && float64(n-2)*step >= b.End-start {
		step = (b.End - start) / float64(n-1)
	}

	for i := range n {
		f := start + float64(i)*step
		if i == n-1 {
			f = b.End
		}
		g.Frequency = append(g.Frequency, f)
		g.Band = append(g.Band, index)
	}
}

func (g *Grid) fill(p Params) {
	n := len(g.Frequency)
	g.Cosine = make([]float64, n)
	g.Desired = make([]float64, n)
	g.Weight = make([]float64, n)
	g.Scale = make([]float64, n)

	for i, f := range g.Frequency {
		b := p.Bands[g.Band[i]]

		desired, weight := b.Amplitude, b.Weight
		if p.Differentiator {
			desired = b.Amplitude * f
			if desired > differentiatorFloor {
				weight = b.Weight / f
			}
		}

		q := p.Type.Scale(f)
		g.Cosine[i] = math.Cos(2 * math.Pi * f)
		g.Desired[i] = desired / q
		g.Weight[i] = weight * q
		g.Scale[i] = q
	}
}
