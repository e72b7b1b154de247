package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTaps = []float64{-0.0125, 0.03, 0.21, 0.5, 0.21, 0.03, -0.0125}

func writeTemp(t *testing.T, taps []float64, opts WAVOptions) (string, float64) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "taps.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	peak, err := WriteWAV(f, taps, opts)
	require.NoError(t, err)
	return path, peak
}

func TestWAV_RoundTrip(t *testing.T) {
	for _, depth := range SupportedBitDepths {
		t.Run(fmt.Sprintf("%d_bit", depth), func(t *testing.T) {
			path, peak := writeTemp(t, sampleTaps, WAVOptions{SampleRate: 48000, BitDepth: depth})
			assert.InDelta(t, 0.5, peak, 0)

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			samples, rate, err := ReadWAV(f)
			require.NoError(t, err)
			assert.Equal(t, 48000, rate)
			require.Len(t, samples, len(sampleTaps))

			tolerance := peak / fullScale(depth)
			for i, want := range sampleTaps {
				assert.InDelta(t, want, samples[i]*peak, tolerance, "tap %d", i)
			}
			assert.InDelta(t, 1.0, samples[3], 1e-12)
		})
	}
}

func TestWAV_SilentTaps(t *testing.T) {
	path, peak := writeTemp(t, []float64{0, 0, 0}, WAVOptions{SampleRate: 8000, BitDepth: 16})
	assert.InDelta(t, 1.0, peak, 0)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	samples, _, err := ReadWAV(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, samples)
}

func TestWriteWAV_Errors(t *testing.T) {
	tests := []struct {
		name string
		taps []float64
		opts WAVOptions
		want error
	}{
		{"bit_depth", sampleTaps, WAVOptions{SampleRate: 48000, BitDepth: 12}, ErrBitDepth},
		{"empty", nil, WAVOptions{SampleRate: 48000, BitDepth: 16}, ErrEmptyTaps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
			require.NoError(t, err)
			defer f.Close()

			_, err = WriteWAV(f, tt.taps, tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Error(t, WAVOptions{BitDepth: 16}.Validate())
}

func TestReadWAV_Invalid(t *testing.T) {
	_, _, err := ReadWAV(bytes.NewReader([]byte("definitely not a RIFF file")))
	assert.ErrorIs(t, err, ErrInvalidWAV)
}
