package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/tphakala/go-fir-remez/internal/testutil"
)

const besselRelTolerance = 5e-7

// besselSeries sums I₀(x) = Σ ((x/2)^k / k!)² until the terms vanish.
func besselSeries(x float64) float64 {
	q := x * x / 4
	sum, term := 1.0, 1.0
	for k := 1; term > 1e-17*sum; k++ {
		term *= q / float64(k*k)
		sum += term
	}
	return sum
}

func TestBesselI0_MatchesSeries(t *testing.T) {
	// both sides of the polynomial split at 3.75
	for x := 0.0; x <= 30; x += 0.25 {
		testutil.AssertRelativeError(t, besselSeries(x), BesselI0(x), besselRelTolerance, "x=%v", x)
	}
}

func TestBesselI0_Even(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float64Range(0, 40).Draw(t, "x")
		if BesselI0(x) != BesselI0(-x) {
			t.Fatalf("I0(%v) != I0(%v)", x, -x)
		}
	})
}

func TestKaiserBeta(t *testing.T) {
	tests := []struct {
		name        string
		attenuation float64
		want        float64
	}{
		{"below_fit", 15, 0},
		{"low_edge", 21, 0},
		{"mid", 30, 0.5842*math.Pow(9, 0.4) + 0.07886*9},
		{"high", 60, 0.1102 * (60 - 8.7)},
		{"very_high", 120, 0.1102 * (120 - 8.7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, KaiserBeta(tt.attenuation), 1e-12)
		})
	}

	// the two fits nearly meet at 50 dB
	assert.InDelta(t, KaiserBeta(50), KaiserBeta(50.0001), 0.05)
}

func TestKaiserBeta_NonDecreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(0, 200).Draw(t, "a")
		b := rapid.Float64Range(a, 200).Draw(t, "b")
		if KaiserBeta(b) < KaiserBeta(a) {
			t.Fatalf("beta(%v)=%v < beta(%v)=%v", b, KaiserBeta(b), a, KaiserBeta(a))
		}
	})
}

func TestEstimateKaiserLength(t *testing.T) {
	tests := []struct {
		name         string
		attenuation  float64
		transitionBW float64
		want         int
	}{
		{"wide_transition", 60, 0.05, 73},
		{"narrow_transition", 60, 0.01, 363},
		{"deep_stopband", 100, 0.01, 641},
		{"default_transition", 60, 0, 363},
		{"clamped_short", 9, 0.4, minFilterLength},
		{"clamped_long", 200, 0.0001, maxFilterLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := EstimateKaiserLength(tt.attenuation, tt.transitionBW)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, 1, n%2)
		})
	}
}

func BenchmarkBesselI0(b *testing.B) {
	for b.Loop() {
		_ = BesselI0(7.5)
	}
}
