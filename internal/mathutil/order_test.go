package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateFilterOrder(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		f1, f2     float64
		pass, stop float64
		want       int
	}{
		{"tight_ripple", 48000, 6000, 7000, 0.01, 0.001, 123},
		{"loose_ripple", 48000, 6000, 7000, 0.15, 0.15, 25},
		{"swapped_edges", 48000, 7000, 6000, 0.01, 0.001, 123},
		{"swapped_ripple", 48000, 6000, 7000, 0.001, 0.01, 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateFilterOrder(tt.sampleRate, tt.f1, tt.f2, tt.pass, tt.stop)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateFilterOrder_NarrowerTransitionNeedsMoreTaps(t *testing.T) {
	prev := 0
	for _, width := range []float64{4000, 2000, 1000, 500, 250} {
		order := EstimateFilterOrder(48000, 6000, 6000+width, 0.01, 0.001)
		assert.Greater(t, order, prev, "transition %v Hz", width)
		prev = order
	}
}

func TestEstimateBandPassOrder(t *testing.T) {
	assert.Equal(t, 130, EstimateBandPassOrder(48000, 1000, 2000, 0.01, 0.001))
	assert.Equal(t, 130, EstimateBandPassOrder(48000, 2000, 1000, 0.01, 0.001))
}

func TestRippleAmplitude(t *testing.T) {
	tests := []struct {
		name     string
		rippleDB float64
		want     float64
	}{
		{"zero", 0, 0},
		{"half_db", 0.5, 0.028774368331997317},
		{"one_db", 1.0, 0.05750112778},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RippleAmplitude(tt.rippleDB), 1e-9)
		})
	}
}

func TestRippleDB_RoundTrip(t *testing.T) {
	for _, db := range []float64{0.001, 0.01, 0.1, 1, 3, 6} {
		assert.InDelta(t, db, RippleDB(RippleAmplitude(db)), 1e-9, "ripple %v dB", db)
	}
	assert.True(t, math.IsInf(RippleDB(1), 1))
}

func TestAttenuationDB(t *testing.T) {
	assert.InDelta(t, 60.0, AttenuationDB(0.001), 1e-9)
	assert.InDelta(t, 60.0, AttenuationDB(-0.001), 1e-9)
	assert.InDelta(t, 240.0, AttenuationDB(0), 1e-9)
}
