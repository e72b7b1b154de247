package engine

import (
	"math"

	"github.com/tphakala/simd/f64"
)

// Evaluator fits the levelled-error polynomial through an extremal set and
// evaluates it on the grid. An Evaluator belongs to one design run.
type Evaluator interface {
	// Fit computes the interpolation weights for the L+2 abscissae x and
	// returns the levelled deviation δ.
	Fit(x, desired, weight []float64) float64

	// Interpolate stores the L+1 ideal samples C_k taken at x[0..L].
	Interpolate(samples []float64)

	// At evaluates the fitted polynomial at x = cos(2πf).
	At(x float64) float64
}

// Strategy creates a fresh Evaluator for each design run.
type Strategy interface {
	Name() string
	NewEvaluator(points int) Evaluator
}

// Barycentric is the closed-form float64 strategy.
var Barycentric Strategy = barycentricStrategy{}

type barycentricStrategy struct{}

func (barycentricStrategy) Name() string { return "barycentric" }

func (barycentricStrategy) NewEvaluator(points int) Evaluator {
	return &barycentric{
		x:       make([]float64, 0, points),
		weights: make([]float64, points),
		nodes:   make([]float64, 0, points),
		samples: make([]float64, 0, points),
	}
}

// barycentric evaluates the second (true) barycentric form of the
// Lagrange interpolant.
type barycentric struct {
	x       []float64
	weights []float64 // b_k over all L+2 points
	nodes   []float64 // d_k = b_k·(x_k - x_{L+1})
	samples []float64
}

func (e *barycentric) Fit(x, desired, weight []float64) float64 {
	n := len(x)
	e.x = append(e.x[:0], x...)
	if cap(e.weights) < n {
		e.weights = make([]float64, n)
	}
	e.weights = e.weights[:n]

	for k := range n {
		p := 1.0
		for i := range n {
			if i != k {
				p *= weightScale * clampDenominator(x[k]-x[i])
			}
		}
		e.weights[k] = 1 / p
	}

	num := f64.DotProduct(e.weights, desired)

	var den float64
	sign := 1.0
	for k := range n {
		den += sign * e.weights[k] / weight[k]
		sign = -sign
	}

	return num / den
}

func (e *barycentric) Interpolate(samples []float64) {
	last := e.x[len(samples)]

	e.samples = append(e.samples[:0], samples...)
	e.nodes = e.nodes[:0]
	for k := range samples {
		e.nodes = append(e.nodes, e.weights[k]*(e.x[k]-last))
	}
}

func (e *barycentric) At(x float64) float64 {
	var num, den float64
	for k, c := range e.samples {
		dx := x - e.x[k]
		if math.Abs(dx) < coincidenceTolerance {
			return c
		}
		t := e.nodes[k] / dx
		num += t * c
		den += t
	}
	return num / den
}

// clampDenominator keeps the sign of d while bounding its magnitude away
// from zero.
func clampDenominator(d float64) float64 {
	if math.Abs(d) < denominatorFloor {
		return math.Copysign(denominatorFloor, d)
	}
	return d
}
