// Package export writes designed filters out for inspection: impulse
// responses as PCM WAV files that audio tools can open, and YAML design
// reports.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	pcmFormat    = 1
	monoChannels = 1
)

// SupportedBitDepths lists the PCM depths WriteWAV accepts.
var SupportedBitDepths = []int{16, 24, 32}

// Errors returned by the WAV functions.
var (
	ErrBitDepth   = errors.New("unsupported bit depth")
	ErrEmptyTaps  = errors.New("no taps to export")
	ErrInvalidWAV = errors.New("invalid WAV file")
)

// WAVOptions controls impulse response export.
type WAVOptions struct {
	SampleRate int
	BitDepth   int
}

// Validate checks the options.
func (o WAVOptions) Validate() error {
	if o.SampleRate <= 0 {
		return fmt.Errorf("sample rate %d must be positive", o.SampleRate)
	}
	if !slices.Contains(SupportedBitDepths, o.BitDepth) {
		return fmt.Errorf("%w: %d", ErrBitDepth, o.BitDepth)
	}
	return nil
}

func fullScale(bitDepth int) float64 {
	return math.Exp2(float64(bitDepth-1)) - 1
}

// WriteWAV writes taps as a mono PCM file, normalized so the largest tap
// hits full scale. It returns the peak the samples were divided by; multiply
// decoded samples by it to recover the taps.
func WriteWAV(w io.WriteSeeker, taps []float64, opts WAVOptions) (float64, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}
	if len(taps) == 0 {
		return 0, ErrEmptyTaps
	}

	var peak float64
	for _, v := range taps {
		peak = max(peak, math.Abs(v))
	}
	if peak == 0 {
		peak = 1
	}

	scale := fullScale(opts.BitDepth) / peak
	data := make([]int, len(taps))
	for i, v := range taps {
		data[i] = int(math.Round(v * scale))
	}

	enc := wav.NewEncoder(w, opts.SampleRate, opts.BitDepth, monoChannels, pcmFormat)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: opts.SampleRate, NumChannels: monoChannels},
		SourceBitDepth: opts.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return 0, fmt.Errorf("failed to write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return peak, nil
}

// ReadWAV decodes a mono PCM file written by WriteWAV into samples in
// [-1, 1] and reports the sample rate.
func ReadWAV(r io.ReadSeeker) ([]float64, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode samples: %w", err)
	}
	if buf.Format.NumChannels != monoChannels {
		return nil, 0, fmt.Errorf("%w: %d channels, want mono", ErrInvalidWAV, buf.Format.NumChannels)
	}

	bitDepth := int(dec.BitDepth)
	if !slices.Contains(SupportedBitDepths, bitDepth) {
		return nil, 0, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}

	inv := 1 / fullScale(bitDepth)
	out := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = float64(v) * inv
	}
	return out, buf.Format.SampleRate, nil
}
