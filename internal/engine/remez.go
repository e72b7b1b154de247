// Package engine implements the Remez exchange loop over a dense grid.
//
// One Engine runs one design: it starts from evenly spaced extremal indices,
// fits a polynomial with levelled weighted error ±δ through them, moves the
// extremal set to the alternating peaks of the new error curve and repeats
// until the peaks are level with |δ|. How the polynomial is fitted and
// evaluated is delegated to a Strategy.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-fir-remez/internal/grid"
)

// Errors reported by Run. Failures carry an *IterationError wrapping one of
// these.
var (
	ErrExtremalSearch = errors.New("extremal search failed")
	ErrNotConverged   = errors.New("design did not converge")
	ErrAlreadyRun     = errors.New("engine already run")
)

// IterationError describes where the exchange loop stopped.
type IterationError struct {
	Err       error
	Iteration int
	Found     int
	Required  int
	Delta     float64
}

func (e *IterationError) Error() string {
	if errors.Is(e.Err, ErrExtremalSearch) {
		return fmt.Sprintf("%v at iteration %d: found %d extremal points, need %d",
			e.Err, e.Iteration, e.Found, e.Required)
	}
	return fmt.Sprintf("%v at iteration %d (delta %g)", e.Err, e.Iteration, e.Delta)
}

func (e *IterationError) Unwrap() error { return e.Err }

// Phase is the lifecycle state of an Engine.
type Phase int

const (
	PhaseInitialized Phase = iota
	PhaseIterating
	PhaseConverged
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialized:
		return "initialized"
	case PhaseIterating:
		return "iterating"
	case PhaseConverged:
		return "converged"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Logger receives per-iteration debug records. *log.Logger from
// charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
}

type discardLogger struct{}

func (discardLogger) Debug(any, ...any) {}

// Config holds the exchange parameters.
type Config struct {
	// HalfOrder is L, the degree of the fitted cosine polynomial.
	HalfOrder int

	// Density is the grid density used to seed the extremal set.
	Density int

	// MaxIterations defaults to MaxIterations when zero.
	MaxIterations int

	// Strategy defaults to Barycentric when nil.
	Strategy Strategy

	// Logger defaults to a discarding logger when nil.
	Logger Logger
}

// State is a snapshot of the iteration state. Slices are copies.
type State struct {
	Phase     Phase
	Iteration int
	Delta     float64
	Extremals []int
	Error     []float64
}

// Engine runs the exchange on one grid.
type Engine struct {
	grid *grid.Grid
	cfg  Config
	eval Evaluator
	log  Logger

	phase     Phase
	iteration int
	delta     float64
	extremals []int
	err       []float64

	// scratch for the extremal set, reused every pass
	x, desired, weight, samples []float64
	candidates                  []int
}

// New prepares an engine for g.
func New(g *grid.Grid, cfg Config) (*Engine, error) {
	if cfg.HalfOrder < 0 {
		return nil, fmt.Errorf("half order %d is negative", cfg.HalfOrder)
	}
	if cfg.Density < 1 {
		return nil, fmt.Errorf("grid density %d must be positive", cfg.Density)
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = MaxIterations
	}
	if cfg.Strategy == nil {
		cfg.Strategy = Barycentric
	}

	var logger Logger = discardLogger{}
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	points := cfg.HalfOrder + 2
	if g.Len() < points {
		return nil, &IterationError{Err: ErrExtremalSearch, Found: g.Len(), Required: points}
	}

	e := &Engine{
		grid:       g,
		cfg:        cfg,
		eval:       cfg.Strategy.NewEvaluator(points),
		log:        logger,
		extremals:  make([]int, points),
		err:        make([]float64, g.Len()),
		x:          make([]float64, points),
		desired:    make([]float64, points),
		weight:     make([]float64, points),
		samples:    make([]float64, points-1),
		candidates: make([]int, 0, g.Len()),
	}

	// seed at every density-th grid point, clamped for short grids
	last := g.Len() - 1
	for i := range e.extremals {
		e.extremals[i] = min(i*cfg.Density, last-(points-1-i))
	}

	return e, nil
}

// Run iterates until convergence, failure or cancellation. It can be called
// once.
func (e *Engine) Run(ctx context.Context) error {
	if e.phase != PhaseInitialized {
		return ErrAlreadyRun
	}
	e.phase = PhaseIterating
	required := len(e.extremals)

	for it := 1; it <= e.cfg.MaxIterations; it++ {
		if err := ctx.Err(); err != nil {
			e.phase = PhaseFailed
			return err
		}
		e.iteration = it

		if err := e.fit(); err != nil {
			return e.fail(err, 0)
		}

		found, ok := e.search()
		if !ok {
			return e.fail(ErrExtremalSearch, found)
		}

		peak := e.peak()
		e.log.Debug("remez iteration",
			"iteration", it, "delta", e.delta, "peak", peak, "candidates", found)

		if peak-math.Abs(e.delta) < convergenceTolerance {
			if err := e.fit(); err != nil {
				return e.fail(err, 0)
			}
			e.phase = PhaseConverged
			e.log.Debug("remez converged", "iterations", it, "delta", e.delta)
			return nil
		}
	}

	return e.fail(ErrNotConverged, required)
}

func (e *Engine) fail(err error, found int) error {
	e.phase = PhaseFailed
	ierr := &IterationError{
		Err:       err,
		Iteration: e.iteration,
		Found:     found,
		Required:  len(e.extremals),
		Delta:     e.delta,
	}
	e.log.Debug("remez failed", "error", ierr)
	return ierr
}

// fit levels the error on the current extremal set and refreshes the grid
// error curve.
func (e *Engine) fit() error {
	g := e.grid
	for k, idx := range e.extremals {
		e.x[k] = g.Cosine[idx]
		e.desired[k] = g.Desired[idx]
		e.weight[k] = g.Weight[idx]
	}

	delta := e.eval.Fit(e.x, e.desired, e.weight)
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return fmt.Errorf("%w: deviation is %v", ErrNotConverged, delta)
	}
	e.delta = delta

	sign := 1.0
	for k := range e.samples {
		e.samples[k] = e.desired[k] - sign*delta/e.weight[k]
		sign = -sign
	}
	e.eval.Interpolate(e.samples)

	for i, x := range g.Cosine {
		e.err[i] = g.Weight[i] * (g.Desired[i] - e.eval.At(x))
	}
	return nil
}

// search replaces the extremal set with the alternating peaks of the error
// curve. It returns the number of points found and whether enough exist.
func (e *Engine) search() (int, bool) {
	errs := e.err
	n := len(errs)
	level := math.Abs(e.delta)
	required := len(e.extremals)

	cand := e.candidates[:0]
	for i, v := range errs {
		if v == 0 || math.Abs(v) < level-candidateTolerance {
			continue
		}

		// compare magnitudes in the direction of v; a plateau keeps its
		// right end, the last grid point needs a strict rise
		s := math.Copysign(1, v)
		a := s * v
		var peak bool
		switch {
		case i == n-1:
			peak = n == 1 || s*errs[i-1] < a
		case i == 0:
			peak = s*errs[1] < a
		default:
			peak = s*errs[i-1] <= a && s*errs[i+1] < a
		}
		if peak {
			cand = append(cand, i)
		}
	}
	e.candidates = cand

	if len(cand) < required {
		return len(cand), false
	}

	// keep the larger of consecutive same-sign peaks
	alt := cand[:1]
	for _, idx := range cand[1:] {
		last := alt[len(alt)-1]
		if (errs[idx] > 0) == (errs[last] > 0) {
			if math.Abs(errs[idx]) > math.Abs(errs[last]) {
				alt[len(alt)-1] = idx
			}
			continue
		}
		alt = append(alt, idx)
	}

	if len(alt) < required {
		return len(alt), false
	}

	// trim the weaker end until the set has L+2 points
	for len(alt) > required {
		if math.Abs(errs[alt[0]]) < math.Abs(errs[alt[len(alt)-1]]) {
			alt = alt[1:]
		} else {
			alt = alt[:len(alt)-1]
		}
	}

	copy(e.extremals, alt)
	return len(alt), true
}

func (e *Engine) peak() float64 {
	var peak float64
	for _, idx := range e.extremals {
		peak = max(peak, math.Abs(e.err[idx]))
	}
	return peak
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// Delta returns the most recent levelled deviation.
func (e *Engine) Delta() float64 { return e.delta }

// State returns a copy of the iteration state.
func (e *Engine) State() State {
	return State{
		Phase:     e.phase,
		Iteration: e.iteration,
		Delta:     e.delta,
		Extremals: append([]int(nil), e.extremals...),
		Error:     append([]float64(nil), e.err...),
	}
}

// Polynomial returns P(x), the fitted cosine polynomial, valid once the
// engine has converged.
func (e *Engine) Polynomial() func(x float64) float64 {
	return e.eval.At
}

// Amplitude returns the real amplitude response A(f) = Q(f)·P(cos 2πf).
func (e *Engine) Amplitude(f float64) float64 {
	return e.grid.Type.Scale(f) * e.eval.At(math.Cos(2*math.Pi*f))
}
