package remez

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-fir-remez/internal/engine"
	"github.com/tphakala/go-fir-remez/internal/filter"
	"github.com/tphakala/go-fir-remez/internal/grid"
)

// Policy selects how a failed design is reported.
type Policy int

const (
	// Hard returns the typed failure as an error.
	Hard Policy = iota
	// Soft returns an invalid Result carrying the failure and the last
	// partial state, with a nil error.
	Soft
)

func (p Policy) String() string {
	switch p {
	case Hard:
		return "hard"
	case Soft:
		return "soft"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Evaluator fits and evaluates the interpolating polynomial of the exchange.
type Evaluator = engine.Strategy

// Barycentric is the closed-form float64 evaluator. It is the default.
var Barycentric Evaluator = engine.Barycentric

// Lagrange returns the Neville-form evaluator with the levelled deviation
// computed in big.Float at the given mantissa precision in bits; 0 selects
// the default precision.
func Lagrange(precision uint) Evaluator { return engine.Lagrange(precision) }

// Logger receives debug records from a design. *log.Logger from
// github.com/charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
}

type options struct {
	policy        Policy
	evaluator     Evaluator
	logger        Logger
	rippleCheck   bool
	maxIterations int
	workers       int
}

// Option configures Design and DesignBatch.
type Option func(*options)

// WithPolicy selects the failure policy; the default is Hard.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithEvaluator selects the polynomial evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(o *options) { o.evaluator = e }
}

// WithLogger injects a logger for per-iteration debug output.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRippleCheck toggles verification of every band's ripple tolerance
// after convergence. It is on by default.
func WithRippleCheck(enabled bool) Option {
	return func(o *options) { o.rippleCheck = enabled }
}

// WithMaxIterations caps the exchange; values <= 0 keep the default of 40.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

func newOptions(opts []Option) options {
	o := options{
		policy:      Hard,
		evaluator:   Barycentric,
		rippleCheck: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o *options) engineLogger() engine.Logger {
	if o.logger == nil {
		return nil
	}
	return o.logger
}

func (o *options) debug(msg string, keyvals ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, keyvals...)
	}
}

// GridPoints is a read-only copy of the design grid in untransformed form.
type GridPoints struct {
	Frequency []float64
	Desired   []float64
	Weight    []float64
	Band      []int
}

// Result is the outcome of one design. A valid result exposes the
// frequency and impulse responses; an invalid one returns its failure from
// every response accessor.
type Result struct {
	spec *Specification
	grid *grid.Grid
	err  error

	delta      float64
	iterations int
	extremals  []int
	gridError  []float64

	amplitude func(f float64) float64
	frequency []float64
	taps      []float64
}

// Valid reports whether the design converged and met its ripple contract.
func (r *Result) Valid() bool { return r.err == nil }

// Err returns the stored failure, nil for a valid result.
func (r *Result) Err() error { return r.err }

// Specification returns the specification the result was designed from.
func (r *Result) Specification() *Specification { return r.spec }

// Delta returns the last levelled deviation. For invalid results it is the
// partial value at the point of failure.
func (r *Result) Delta() float64 { return r.delta }

// Iterations returns the number of exchange passes run.
func (r *Result) Iterations() int { return r.iterations }

// ExtremalIndices returns a copy of the final extremal grid indices.
func (r *Result) ExtremalIndices() []int { return append([]int(nil), r.extremals...) }

// GridError returns a copy of the weighted error at every grid point.
func (r *Result) GridError() []float64 { return append([]float64(nil), r.gridError...) }

// Grid returns a copy of the grid, nil when no grid could be built.
func (r *Result) Grid() *GridPoints {
	if r.grid == nil {
		return nil
	}
	g := &GridPoints{
		Frequency: append([]float64(nil), r.grid.Frequency...),
		Desired:   make([]float64, r.grid.Len()),
		Weight:    make([]float64, r.grid.Len()),
		Band:      append([]int(nil), r.grid.Band...),
	}
	for i, q := range r.grid.Scale {
		g.Desired[i] = r.grid.Desired[i] * q
		g.Weight[i] = r.grid.Weight[i] / q
	}
	return g
}

// FrequencyResponse returns the amplitude response A(i/N) sampled at the
// filter length N for i = 0..N/2 (0..(N-1)/2 for odd N), the samples the
// taps are synthesized from.
func (r *Result) FrequencyResponse() ([]float64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]float64(nil), r.frequency...), nil
}

// ImpulseResponse returns the taps in single precision.
func (r *Result) ImpulseResponse() ([]float32, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]float32, len(r.taps))
	for i, h := range r.taps {
		out[i] = float32(h)
	}
	return out, nil
}

// ImpulseResponse64 returns the taps in double precision.
func (r *Result) ImpulseResponse64() ([]float64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]float64(nil), r.taps...), nil
}

// Amplitude evaluates the real amplitude response at normalized frequency
// f. It returns NaN for invalid results.
func (r *Result) Amplitude(f float64) float64 {
	if r.err != nil || r.amplitude == nil {
		return math.NaN()
	}
	return r.amplitude(f)
}

// Design runs the exchange for spec.
func Design(spec *Specification, opts ...Option) (*Result, error) {
	return DesignContext(context.Background(), spec, opts...)
}

// DesignContext is Design with cancellation between exchange passes.
// Cancellation is always returned as an error, whatever the policy.
func DesignContext(ctx context.Context, spec *Specification, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	return design(ctx, spec, &o)
}

// MustDesign is like Design but panics on failure.
func MustDesign(spec *Specification, opts ...Option) *Result {
	res, err := Design(spec, append(opts, WithPolicy(Hard))...)
	if err != nil {
		panic(err)
	}
	return res
}

// Taps designs spec and returns its single-precision taps.
func Taps(spec *Specification, opts ...Option) ([]float32, error) {
	res, err := Design(spec, append(opts, WithPolicy(Hard))...)
	if err != nil {
		return nil, err
	}
	return res.ImpulseResponse()
}

func design(ctx context.Context, spec *Specification, o *options) (*Result, error) {
	if spec == nil {
		return o.finish(&Result{}, invalidSpec(0, errors.New("nil specification")))
	}

	res := &Result{spec: spec}
	o.debug("remez design", "type", spec.typ, "order", spec.order, "evaluator", o.evaluator.Name())

	g, err := grid.New(spec.params())
	if err != nil {
		return o.finish(res, invalidSpec(spec.order, err))
	}
	res.grid = g

	eng, err := engine.New(g, engine.Config{
		HalfOrder:     spec.HalfOrder(),
		Density:       spec.density,
		MaxIterations: o.maxIterations,
		Strategy:      o.evaluator,
		Logger:        o.engineLogger(),
	})
	if err != nil {
		return o.finish(res, fromEngine(spec.order, err))
	}

	runErr := eng.Run(ctx)
	state := eng.State()
	res.delta = state.Delta
	res.iterations = state.Iteration
	res.extremals = state.Extremals
	res.gridError = state.Error

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(runErr, ctxErr) {
			return nil, runErr
		}
		return o.finish(res, fromEngine(spec.order, runErr))
	}

	if o.rippleCheck {
		if derr := checkRipple(spec, g, state.Error); derr != nil {
			derr.Iteration = state.Iteration
			return o.finish(res, derr)
		}
	}

	n := spec.FilterLength()
	res.frequency = filter.FrequencySamples(n, eng.Amplitude)
	res.taps, err = filter.ImpulseResponse(grid.Type(spec.typ), res.frequency, n)
	if err != nil {
		return o.finish(res, invalidSpec(spec.order, err))
	}
	res.amplitude = eng.Amplitude

	o.debug("remez design complete", "iterations", res.iterations, "delta", res.delta, "taps", n)
	return res, nil
}

// finish applies the failure policy.
func (o *options) finish(res *Result, derr *DesignError) (*Result, error) {
	res.err = derr
	o.debug("remez design failed", "error", derr, "policy", o.policy)
	if o.policy == Soft {
		return res, nil
	}
	return nil, derr
}

// checkRipple verifies that no grid point deviates from its band target by
// more than the band's ripple amplitude, relative to the target for
// differentiator bands.
func checkRipple(spec *Specification, g *grid.Grid, gridError []float64) *DesignError {
	maxRipple := spec.MaxRippleAmplitude()

	for i, e := range gridError {
		bi := g.Band[i]
		b := spec.bands[bi]
		w := b.Weight(maxRipple)

		limit := b.RippleAmplitude()
		if spec.response == ResponseDifferentiator && b.Amplitude > 0 {
			limit *= b.Amplitude
		}
		limit += rippleSlack / w

		if dev := math.Abs(e) / w; dev > limit {
			return &DesignError{
				Kind:  KindRippleExceeded,
				Order: spec.order,
				Band:  bi,
				Cause: fmt.Errorf("deviation %.6g at %.6g exceeds %.6g", dev, g.Frequency[i], limit),
			}
		}
	}
	return nil
}
