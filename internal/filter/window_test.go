package filter

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-fir-remez/internal/simdops"
	"github.com/tphakala/go-fir-remez/internal/testutil"
)

const (
	windowTolerance = 1e-10

	testBeta5  = 5.0
	testBeta8  = 8.653728
	testBeta10 = 10.0

	testAttenuation80 = 80.0
	testCutoff        = 0.25
	testTransitionBW  = 0.05
	testGainUnity     = 1.0
)

func TestKaiserWindow_Symmetry(t *testing.T) {
	tests := []struct {
		name   string
		length int
		beta   float64
	}{
		{"length_11_beta_5", 11, testBeta5},
		{"length_21_beta_8", 21, testBeta8},
		{"length_50_beta_10", 50, testBeta10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := KaiserWindow(tt.length, tt.beta)

			assert.Len(t, window, tt.length)
			testutil.AssertSymmetric(t, window, windowTolerance)
			testutil.AssertAllInRange(t, window, 0, 1+windowTolerance)
		})
	}
}

func TestKaiserWindow_Center(t *testing.T) {
	window := KaiserWindow(21, testBeta8)
	assert.InDelta(t, 1.0, window[10], windowTolerance)
}

func TestKaiserWindow_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"zero_length", 0, 0},
		{"negative_length", -1, 0},
		{"length_one", 1, 1},
		{"length_two", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := KaiserWindow(tt.length, testBeta5)
			assert.Len(t, window, tt.want)
		})
	}

	assert.InDelta(t, 1.0, KaiserWindow(1, testBeta5)[0], windowTolerance)
}

func TestWindowParams_Validate(t *testing.T) {
	valid := WindowParams{Taps: 101, Cutoff: testCutoff, Attenuation: testAttenuation80, Gain: testGainUnity}

	tests := []struct {
		name    string
		modify  func(p *WindowParams)
		wantErr bool
	}{
		{"valid", func(*WindowParams) {}, false},
		{"too_short", func(p *WindowParams) { p.Taps = 2 }, true},
		{"too_long", func(p *WindowParams) { p.Taps = 10000 }, true},
		{"zero_cutoff", func(p *WindowParams) { p.Cutoff = 0 }, true},
		{"nyquist_cutoff", func(p *WindowParams) { p.Cutoff = 0.5 }, true},
		{"negative_attenuation", func(p *WindowParams) { p.Attenuation = -1 }, true},
		{"zero_gain", func(p *WindowParams) { p.Gain = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDesignWindowed_DCGain(t *testing.T) {
	for _, gain := range []float64{0.5, 1, 2} {
		taps, err := DesignWindowed(WindowParams{
			Taps: 63, Cutoff: testCutoff, Attenuation: testAttenuation80, Gain: gain,
		})
		require.NoError(t, err)

		testutil.AssertSymmetric(t, taps, windowTolerance)
		assert.InDelta(t, gain, simdops.Float64Ops().Sum(taps), 1e-9)
	}
}

func TestDesignWindowedAuto_Response(t *testing.T) {
	taps, err := DesignWindowedAuto(testCutoff, testTransitionBW, testAttenuation80, testGainUnity)
	require.NoError(t, err)
	testutil.AssertOddLength(t, taps)
	assert.Len(t, taps, 101)

	pass := cmplx.Abs(Evaluate(taps, 0.2))
	assert.InDelta(t, 1.0, pass, 0.01)

	for _, f := range []float64{0.3, 0.35, 0.4, 0.45} {
		assert.Less(t, MagnitudeDB(cmplx.Abs(Evaluate(taps, f))), -60.0, "f=%v", f)
	}
}

func TestDesignWindowed_InvalidParams(t *testing.T) {
	_, err := DesignWindowed(WindowParams{Taps: 1, Cutoff: testCutoff, Gain: 1})
	assert.Error(t, err)
}
