package remez

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tphakala/go-fir-remez/internal/filter"
	"github.com/tphakala/go-fir-remez/internal/testutil"
)

const (
	deltaTolerance = 1e-6
	levelTolerance = 1e-8

	// allowed rise of the weighted error above |δ| off the extremal set
	excessTolerance = 1e-4

	// 0.15 linear deviation
	scenarioRippleDB = 2.625578
)

func scenarioLowPass(t *testing.T, order int) *Specification {
	t.Helper()
	spec, err := LowPass().
		SampleRate(testSampleRate).
		Order(order).
		PassBandCutoff(6000).
		StopBandStart(7000).
		PassBandRipple(scenarioRippleDB).
		StopBandRipple(scenarioRippleDB).
		Build()
	require.NoError(t, err)
	return spec
}

// tightLowPass converges at order 4 but cannot hold 0.01/0.03 dB across a
// 100 Hz transition.
func tightLowPass(t *testing.T) *Specification {
	t.Helper()
	spec, err := NewSpecification(Type1, 4, []FrequencyBand{
		NewBandHz(testSampleRate, 0, 6000, 1, 0.01),
		NewBandHz(testSampleRate, 6100, 24000, 0, 0.03),
	})
	require.NoError(t, err)
	return spec
}

func designOK(t *testing.T, spec *Specification, opts ...Option) *Result {
	t.Helper()
	res, err := Design(spec, opts...)
	require.NoError(t, err)
	require.True(t, res.Valid())
	return res
}

func taps64(t *testing.T, res *Result) []float64 {
	t.Helper()
	h, err := res.ImpulseResponse64()
	require.NoError(t, err)
	return h
}

// assertEquiripple checks that the weighted error is level at the extremal
// set, alternates in sign and stays within the level over the whole grid.
func assertEquiripple(t *testing.T, res *Result) {
	t.Helper()

	level := math.Abs(res.Delta())
	gridErr := res.GridError()
	extremals := res.ExtremalIndices()
	require.Len(t, extremals, res.Specification().ExtremaCount())

	peaks := make([]float64, len(extremals))
	for k, idx := range extremals {
		peaks[k] = gridErr[idx]
		assert.InDelta(t, level, math.Abs(peaks[k]), levelTolerance, "extremal %d", k)
	}
	testutil.AssertAlternating(t, peaks)

	for i, v := range gridErr {
		assert.LessOrEqual(t, math.Abs(v), level+excessTolerance, "grid point %d", i)
	}
}

// assertGridConsistent checks that the reported grid error is the weighted
// difference between target and designed amplitude.
func assertGridConsistent(t *testing.T, res *Result) {
	t.Helper()

	g := res.Grid()
	require.NotNil(t, g)
	gridErr := res.GridError()
	require.Len(t, gridErr, len(g.Frequency))

	for i, f := range g.Frequency {
		want := g.Weight[i] * (g.Desired[i] - res.Amplitude(f))
		assert.InDelta(t, want, gridErr[i], 1e-9, "grid point %d at %v", i, f)
	}
}

// assertTapsMatchAmplitude checks the synthesized taps against the
// converged amplitude response.
func assertTapsMatchAmplitude(t *testing.T, res *Result) {
	t.Helper()

	h := taps64(t, res)
	for _, f := range []float64{0.01, 0.07, 0.13, 0.2, 0.26, 0.33, 0.41, 0.49} {
		got := cmplx.Abs(filter.Evaluate(h, f))
		assert.InDelta(t, math.Abs(res.Amplitude(f)), got, 1e-9, "f=%v", f)
	}
}

func TestDesign_LowPass(t *testing.T) {
	tests := []struct {
		name  string
		order int
		typ   FilterType
		delta float64
	}{
		{"type2_order31", 31, Type2, 0.12415279777427639},
		{"type1_order32", 32, Type1, 0.1149471372940276},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := scenarioLowPass(t, tt.order)
			require.Equal(t, tt.typ, spec.Type())

			res := designOK(t, spec)
			assert.Equal(t, 5, res.Iterations())
			assert.InDelta(t, tt.delta, res.Delta(), deltaTolerance)

			h := taps64(t, res)
			require.Len(t, h, tt.order+1)
			testutil.AssertSymmetric(t, h, testutil.TapTolerance)
			testutil.AssertNoNaNOrInf(t, h)

			assertEquiripple(t, res)
			assertGridConsistent(t, res)
			assertTapsMatchAmplitude(t, res)

			// the ripple contract holds across the bands
			bound := math.Abs(res.Delta()) + testutil.RippleSlack
			for f := 0.0; f <= 0.125; f += 0.005 {
				assert.InDelta(t, 1.0, res.Amplitude(f), bound*1.05, "pass f=%v", f)
			}
			for f := 7000 / testSampleRate; f <= 0.5; f += 0.01 {
				assert.Less(t, 20*math.Log10(math.Abs(res.Amplitude(f))+1e-12), -16.5, "stop f=%v", f)
			}
		})
	}
}

func TestDesign_FrequencyResponse(t *testing.T) {
	tests := []struct {
		order int
		want  int
	}{
		{31, 17},
		{32, 17},
	}

	for _, tt := range tests {
		res := designOK(t, scenarioLowPass(t, tt.order))

		samples, err := res.FrequencyResponse()
		require.NoError(t, err)
		require.Len(t, samples, tt.want)

		n := float64(tt.order + 1)
		for i, v := range samples {
			assert.InDelta(t, res.Amplitude(float64(i)/n), v, 1e-12, "sample %d", i)
		}
	}
}

func TestDesign_SinglePrecisionTaps(t *testing.T) {
	res := designOK(t, scenarioLowPass(t, 32))

	h32, err := res.ImpulseResponse()
	require.NoError(t, err)
	h64 := taps64(t, res)
	require.Len(t, h32, len(h64))

	assert.InDeltaSlice(t, h64, testutil.Float64s(h32), 1e-7)
	testutil.AssertSymmetric(t, testutil.Float64s(h32), 1e-7)

	taps, err := Taps(scenarioLowPass(t, 32))
	require.NoError(t, err)
	assert.Equal(t, h32, taps)
}

func TestDesign_RippleExceeded(t *testing.T) {
	spec := tightLowPass(t)

	res, err := Design(spec)
	assert.Nil(t, res)
	require.ErrorIs(t, err, ErrRippleExceeded)
	require.ErrorIs(t, err, ErrNotConverged)

	var derr *DesignError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindRippleExceeded, derr.Kind)
	assert.Equal(t, 4, derr.Order)
	assert.Positive(t, derr.Iteration)
	assert.GreaterOrEqual(t, derr.Band, 0)
	assert.Contains(t, err.Error(), "ripple exceeded")

	// the check can be switched off
	res = designOK(t, spec, WithRippleCheck(false))
	assert.NotZero(t, res.Delta())
}

func TestDesign_SoftPolicy(t *testing.T) {
	res, err := Design(tightLowPass(t), WithPolicy(Soft))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.False(t, res.Valid())
	require.ErrorIs(t, res.Err(), ErrRippleExceeded)
	assert.NotZero(t, res.Delta())
	assert.Positive(t, res.Iterations())
	assert.NotNil(t, res.Grid())
	assert.NotEmpty(t, res.GridError())
	assert.True(t, math.IsNaN(res.Amplitude(0.1)))

	_, err = res.ImpulseResponse()
	require.ErrorIs(t, err, ErrRippleExceeded)
	_, err = res.ImpulseResponse64()
	require.ErrorIs(t, err, ErrRippleExceeded)
	_, err = res.FrequencyResponse()
	require.ErrorIs(t, err, ErrRippleExceeded)
}

func TestDesign_ExtremalSearchFailure(t *testing.T) {
	// an all-zero target has a flat error curve with no peaks to exchange
	spec, err := NewSpecification(Type1, 8, []FrequencyBand{
		NewBandHz(testSampleRate, 0, 24000, 0, 1),
	})
	require.NoError(t, err)

	_, err = Design(spec)
	require.ErrorIs(t, err, ErrExtremalSearch)

	var derr *DesignError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindExtremalSearch, derr.Kind)
	assert.Equal(t, 1, derr.Iteration)
	assert.Equal(t, spec.ExtremaCount(), derr.Required)
	assert.Less(t, derr.Found, derr.Required)

	res, err := Design(spec, WithPolicy(Soft))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Valid())
	require.ErrorIs(t, res.Err(), ErrExtremalSearch)
	require.True(t, errors.As(res.Err(), &derr))
	assert.Equal(t, KindExtremalSearch, derr.Kind)
	assert.Equal(t, 1, res.Iterations())
	assert.NotEmpty(t, res.GridError())

	_, err = res.ImpulseResponse()
	require.ErrorIs(t, err, ErrExtremalSearch)
}

func TestDesign_NotConverged(t *testing.T) {
	spec := scenarioLowPass(t, 31)

	_, err := Design(spec, WithMaxIterations(2))
	require.ErrorIs(t, err, ErrNotConverged)
	assert.NotErrorIs(t, err, ErrRippleExceeded)

	var derr *DesignError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindNotConverged, derr.Kind)
	assert.Equal(t, 2, derr.Iteration)

	res, err := Design(spec, WithMaxIterations(2), WithPolicy(Soft))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Iterations())
	assert.Len(t, res.ExtremalIndices(), spec.ExtremaCount())
}

func TestDesign_NilSpecification(t *testing.T) {
	_, err := Design(nil)
	require.ErrorIs(t, err, ErrInvalidSpecification)

	res, err := Design(nil, WithPolicy(Soft))
	require.NoError(t, err)
	assert.False(t, res.Valid())
	assert.Nil(t, res.Grid())
}

func TestMustDesign(t *testing.T) {
	assert.NotPanics(t, func() { MustDesign(scenarioLowPass(t, 32)) })

	// Soft is overridden
	assert.Panics(t, func() { MustDesign(tightLowPass(t), WithPolicy(Soft)) })
}

func TestDesign_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, p := range []Policy{Hard, Soft} {
		t.Run(p.String(), func(t *testing.T) {
			res, err := DesignContext(ctx, scenarioLowPass(t, 32), WithPolicy(p))
			require.ErrorIs(t, err, context.Canceled)
			assert.Nil(t, res)
		})
	}
}

func TestDesign_EvaluatorsAgree(t *testing.T) {
	spec := scenarioLowPass(t, 31)

	bary := designOK(t, spec)
	lag := designOK(t, spec, WithEvaluator(Lagrange(512)))

	assert.Equal(t, bary.Iterations(), lag.Iterations())
	assert.Equal(t, bary.ExtremalIndices(), lag.ExtremalIndices())
	assert.InDelta(t, bary.Delta(), lag.Delta(), 1e-9)

	hb, hl := taps64(t, bary), taps64(t, lag)
	for i := range hb {
		assert.InDelta(t, hb[i], hl[i], 1e-8, "tap %d", i)
	}
}

func TestResult_ConcurrentAmplitude(t *testing.T) {
	for _, ev := range []Evaluator{Barycentric, Lagrange(0)} {
		t.Run(ev.Name(), func(t *testing.T) {
			res := designOK(t, scenarioLowPass(t, 31), WithEvaluator(ev))

			const points = 64
			want := make([]float64, points)
			for i := range want {
				want[i] = res.Amplitude(float64(i) / (2 * points))
			}

			const workers = 8
			got := make([][]float64, workers)
			var wg sync.WaitGroup
			for w := range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					out := make([]float64, points)
					for i := range out {
						out[i] = res.Amplitude(float64(i) / (2 * points))
					}
					got[w] = out
				}()
			}
			wg.Wait()

			for w := range workers {
				assert.Equal(t, want, got[w], "worker %d", w)
			}
		})
	}
}

func TestDesign_HighPass(t *testing.T) {
	build := func(rippleDB float64) *Specification {
		spec, err := HighPass().
			SampleRate(testSampleRate).
			Order(40).
			StopBandCutoff(6000).
			PassBandStart(8000).
			PassBandRipple(rippleDB).
			StopBandRipple(rippleDB).
			Build()
		require.NoError(t, err)
		return spec
	}

	res := designOK(t, build(0.5))
	assert.Equal(t, 7, res.Iterations())
	assert.InDelta(t, 0.018220, math.Abs(res.Delta()), 1e-5)
	testutil.AssertSymmetric(t, taps64(t, res), testutil.TapTolerance)
	assertEquiripple(t, res)

	assert.InDelta(t, 0.0, res.Amplitude(0), 0.02)
	assert.InDelta(t, 1.0, res.Amplitude(0.4), 0.02)

	_, err := Design(build(0.1))
	assert.ErrorIs(t, err, ErrRippleExceeded)
}

func TestDesign_BandPass(t *testing.T) {
	spec, err := BandPass().
		SampleRate(testSampleRate).
		Order(40).
		StopFrequency1(4000).
		PassFrequencyBegin(6000).
		PassFrequencyEnd(10000).
		StopFrequency2(12000).
		PassRipple(0.5).
		StopRipple(0.5).
		Build()
	require.NoError(t, err)

	res := designOK(t, spec)
	assert.Equal(t, 5, res.Iterations())
	assert.InDelta(t, 0.022449, math.Abs(res.Delta()), 1e-5)
	assertEquiripple(t, res)
	assertGridConsistent(t, res)
	assertTapsMatchAmplitude(t, res)

	assert.InDelta(t, 1.0, res.Amplitude(8000/testSampleRate), 0.03)
	assert.InDelta(t, 0.0, res.Amplitude(0.02), 0.03)
	assert.InDelta(t, 0.0, res.Amplitude(0.4), 0.03)
}

func TestDesign_Hilbert(t *testing.T) {
	tests := []struct {
		name  string
		order int
		high  float64
		delta float64
	}{
		{"type3_order28", 28, 0.45, 0.005449},
		{"type4_order31", 31, 0.5, 0.002511},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Hilbert().Order(tt.order).PassBand(0.05, tt.high).Build()
			require.NoError(t, err)

			res := designOK(t, spec)
			assert.InDelta(t, tt.delta, math.Abs(res.Delta()), 1e-5)
			assertEquiripple(t, res)
			assertGridConsistent(t, res)

			h := taps64(t, res)
			require.Len(t, h, tt.order+1)
			testutil.AssertAntiSymmetric(t, h, testutil.TapTolerance)
			if tt.order%2 == 0 {
				assert.InDelta(t, 0.0, h[tt.order/2], 1e-12, "centre tap")
			}

			// quadrature: unit magnitude over the band, zero at DC
			for f := 0.1; f <= 0.4; f += 0.05 {
				assert.InDelta(t, 1.0, cmplx.Abs(filter.Evaluate(h, f)), 0.06, "f=%v", f)
			}
			assert.InDelta(t, 0.0, cmplx.Abs(filter.Evaluate(h, 0)), 1e-9)
		})
	}
}

func TestDesign_Differentiator(t *testing.T) {
	spec, err := Differentiator().Order(31).Build()
	require.NoError(t, err)

	res := designOK(t, spec)
	assert.Equal(t, 4, res.Iterations())
	assert.InDelta(t, 0.038975, math.Abs(res.Delta()), 1e-5)
	assertEquiripple(t, res)
	assertGridConsistent(t, res)

	h := taps64(t, res)
	testutil.AssertAntiSymmetric(t, h, testutil.TapTolerance)

	// error relative to the 2πf target
	g := res.Grid()
	level := math.Abs(res.Delta()) + 1e-3
	for i, f := range g.Frequency {
		want := 2 * math.Pi * f
		assert.InDelta(t, want, res.Amplitude(f), level*f, "grid point %d", i)
	}
}

func TestDesign_Channelizer(t *testing.T) {
	spec, err := channelizerBuilder().Build()
	require.NoError(t, err)

	res := designOK(t, spec)
	assert.Equal(t, 9, res.Iterations())
	assert.Less(t, math.Abs(res.Delta()), 1e-4)
	assertEquiripple(t, res)

	h := taps64(t, res)
	require.Len(t, h, 128)
	testutil.AssertSymmetric(t, h, testutil.TapTolerance)

	assert.InDelta(t, 1.0, res.Amplitude(0), 1e-3)
	assert.InDelta(t, 0.5, res.Amplitude(0.125), 0.01)

	g := res.Grid()
	for i, f := range g.Frequency {
		if g.Band[i] == 2 {
			assert.Less(t, math.Abs(res.Amplitude(f)), 1e-5, "stop f=%v", f)
		}
	}

	bank, err := filter.Decompose(h, 8)
	require.NoError(t, err)
	var total float64
	for _, gain := range bank.Gains() {
		total += gain
	}
	assert.InDelta(t, res.Amplitude(0), total, 1e-9)
}

func TestDesign_DeltaShrinksWithOrder(t *testing.T) {
	want := []float64{0.164, 0.108, 0.0707, 0.0462}

	prev := math.Inf(1)
	for i, order := range []int{16, 20, 24, 28} {
		spec, err := NewSpecification(Type1, order, []FrequencyBand{
			NewBand(0, 0.2, 1, 0.01),
			NewBand(0.25, 0.5, 0, 0.03),
		})
		require.NoError(t, err)

		res := designOK(t, spec, WithRippleCheck(false))
		d := math.Abs(res.Delta())
		assert.InDelta(t, want[i], d, 1e-3, "order %d", order)
		assert.Less(t, d, prev, "order %d", order)
		prev = d
	}
}

func TestDesign_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		order := rapid.IntRange(5, 15).Draw(t, "half") * 2
		pass := rapid.Float64Range(0.1, 0.3).Draw(t, "pass")
		gap := rapid.Float64Range(0.03, 0.1).Draw(t, "gap")

		spec, err := NewSpecification(Type1, order, []FrequencyBand{
			NewBand(0, pass, 1, 0.5),
			NewBand(pass+gap, 0.5, 0, 0.5),
		})
		if err != nil {
			t.Fatalf("specification: %v", err)
		}

		opts := []Option{WithPolicy(Soft), WithRippleCheck(false)}
		first, err := Design(spec, opts...)
		if err != nil {
			t.Fatalf("design: %v", err)
		}
		second, err := Design(spec, opts...)
		if err != nil {
			t.Fatalf("design: %v", err)
		}

		if first.Valid() != second.Valid() || first.Delta() != second.Delta() {
			t.Fatalf("designs differ: %v/%v vs %v/%v", first.Valid(), first.Delta(), second.Valid(), second.Delta())
		}
		if !first.Valid() {
			return
		}

		a, _ := first.ImpulseResponse64()
		b, _ := second.ImpulseResponse64()
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("tap %d differs: %v vs %v", i, a[i], b[i])
			}
			if d := math.Abs(a[i] - a[len(a)-1-i]); d > testutil.TapTolerance {
				t.Fatalf("tap %d breaks symmetry by %g", i, d)
			}
		}
	})
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg any, _ ...any) {
	l.messages = append(l.messages, msg.(string))
}

func TestDesign_Logger(t *testing.T) {
	logger := &recordingLogger{}
	designOK(t, scenarioLowPass(t, 31), WithLogger(logger))

	require.NotEmpty(t, logger.messages)
	assert.Equal(t, "remez design", logger.messages[0])
	assert.Contains(t, logger.messages, "remez iteration")
	assert.Contains(t, logger.messages, "remez converged")
	assert.Equal(t, "remez design complete", logger.messages[len(logger.messages)-1])

	logger.messages = nil
	_, _ = Design(tightLowPass(t), WithLogger(logger))
	assert.Equal(t, "remez design failed", logger.messages[len(logger.messages)-1])
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "hard", Hard.String())
	assert.Equal(t, "soft", Soft.String())
	assert.Equal(t, "policy(4)", Policy(4).String())
}

func BenchmarkDesign(b *testing.B) {
	spec, err := NewSpecification(Type1, 80, []FrequencyBand{
		NewBand(0, 4000/testSampleRate, 0, 0.5),
		NewBand(6000/testSampleRate, 10000/testSampleRate, 1, 0.5),
		NewBand(12000/testSampleRate, 0.5, 0, 0.5),
	})
	require.NoError(b, err)

	for b.Loop() {
		if _, err := Design(spec); err != nil {
			b.Fatal(err)
		}
	}
}
