package engine

import (
	"fmt"
	"math"
	"math/big"
)

// Lagrange returns the extended-precision strategy. Barycentric weights and
// δ are accumulated in big.Float with the given mantissa size (bits);
// evaluation uses Neville's scheme on the Lagrange form. A precision of zero
// selects DefaultPrecision.
func Lagrange(precision uint) Strategy {
	if precision == 0 {
		precision = DefaultPrecision
	}
	return lagrangeStrategy{precision: precision}
}

type lagrangeStrategy struct {
	precision uint
}

func (s lagrangeStrategy) Name() string {
	return fmt.Sprintf("lagrange/%d", s.precision)
}

func (s lagrangeStrategy) NewEvaluator(points int) Evaluator {
	return &lagrange{
		prec:    s.precision,
		x:       make([]float64, 0, points),
		samples: make([]float64, 0, points),
	}
}

type lagrange struct {
	prec    uint
	x       []float64
	samples []float64
}

func (e *lagrange) float(v float64) *big.Float {
	return new(big.Float).SetPrec(e.prec).SetFloat64(v)
}

func (e *lagrange) Fit(x, desired, weight []float64) float64 {
	n := len(x)
	e.x = append(e.x[:0], x...)

	floor := e.float(denominatorFloor)
	one := e.float(1)
	num := e.float(0)
	den := e.float(0)
	diff := e.float(0)
	mag := e.float(0)
	term := e.float(0)

	for k := range n {
		prod := e.float(1)
		xk := e.float(x[k])
		for i := range n {
			if i == k {
				continue
			}
			diff.Sub(xk, e.float(x[i]))
			if mag.Abs(diff).Cmp(floor) < 0 {
				diff.Set(floor)
				if x[k] < x[i] {
					diff.Neg(diff)
				}
			}
			prod.Mul(prod, diff)
		}

		b := new(big.Float).SetPrec(e.prec).Quo(one, prod)

		term.Mul(b, e.float(desired[k]))
		num.Add(num, term)

		term.Quo(b, e.float(weight[k]))
		if k%2 == 1 {
			term.Neg(term)
		}
		den.Add(den, term)
	}

	if den.Sign() == 0 {
		return math.NaN()
	}

	delta, _ := new(big.Float).SetPrec(e.prec).Quo(num, den).Float64()
	return delta
}

func (e *lagrange) Interpolate(samples []float64) {
	e.samples = append(e.samples[:0], samples...)
}

// At runs Neville's algorithm over (x_k, C_k), k = 0..L. The tableau lives
// in a per-call buffer, so a fitted evaluator can be read concurrently.
func (e *lagrange) At(x float64) float64 {
	n := len(e.samples)
	for k := range n {
		if math.Abs(x-e.x[k]) < coincidenceTolerance {
			return e.samples[k]
		}
	}

	var stack [nevilleStackSize]float64
	var p []float64
	if n <= len(stack) {
		p = stack[:n]
	} else {
		p = make([]float64, n)
	}
	copy(p, e.samples)
	for m := 1; m < n; m++ {
		for i := range n - m {
			p[i] = ((x-e.x[i+m])*p[i] + (e.x[i]-x)*p[i+1]) / (e.x[i] - e.x[i+m])
		}
	}
	return p[0]
}
