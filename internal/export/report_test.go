package export

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	remez "github.com/tphakala/go-fir-remez"
)

func lowPassResult(t *testing.T) *remez.Result {
	t.Helper()
	spec, err := remez.LowPass().
		SampleRate(48000).
		Order(31).
		PassBandCutoff(6000).
		StopBandStart(7000).
		PassBandRipple(2.625578).
		StopBandRipple(2.625578).
		Build()
	require.NoError(t, err)

	res, err := remez.Design(spec)
	require.NoError(t, err)
	return res
}

func TestNewReport(t *testing.T) {
	res := lowPassResult(t)

	rep, err := NewReport("lp", res, 2048, true)
	require.NoError(t, err)

	assert.Equal(t, "lp", rep.Name)
	assert.Equal(t, "type 2", rep.Type)
	assert.Equal(t, "multiband", rep.Response)
	assert.Equal(t, 31, rep.Order)
	assert.True(t, rep.Valid)
	assert.Empty(t, rep.Error)
	assert.Equal(t, res.Iterations(), rep.Iterations)
	assert.Len(t, rep.Taps, 32)

	require.Len(t, rep.Bands, 2)
	bound := math.Abs(res.Delta())*1.05 + 1e-3
	for i, b := range rep.Bands {
		assert.LessOrEqual(t, b.Deviation, bound, "band %d", i)
	}
	assert.Greater(t, rep.Bands[1].AttenuationDB, 17.0)
}

func TestNewReport_Invalid(t *testing.T) {
	spec, err := remez.NewSpecification(remez.Type1, 4, []remez.FrequencyBand{
		remez.NewBandHz(48000, 0, 6000, 1, 0.01),
		remez.NewBandHz(48000, 6100, 24000, 0, 0.03),
	})
	require.NoError(t, err)

	res, err := remez.Design(spec, remez.WithPolicy(remez.Soft))
	require.NoError(t, err)
	require.False(t, res.Valid())

	rep, err := NewReport("tight", res, 512, true)
	require.NoError(t, err)
	assert.False(t, rep.Valid)
	assert.Contains(t, rep.Error, "ripple exceeded")
	assert.Nil(t, rep.Taps)
	assert.Len(t, rep.Bands, 2)
}

func TestNewReport_NilSpecification(t *testing.T) {
	res, err := remez.Design(nil, remez.WithPolicy(remez.Soft))
	require.NoError(t, err)

	rep, err := NewReport("missing", res, 512, false)
	require.NoError(t, err)
	assert.False(t, rep.Valid)
	assert.Contains(t, rep.Error, "invalid specification")
	assert.Empty(t, rep.Bands)
}

func TestWriteYAML(t *testing.T) {
	rep, err := NewReport("lp", lowPassResult(t), 1024, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, []Report{rep}))
	assert.Contains(t, buf.String(), "name: lp")
	assert.NotContains(t, buf.String(), "taps:")

	var decoded []Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, rep, decoded[0])
}
