package chain

import (
	"fmt"
	"math"
	"slices"
	"sync"
)

// Stream runs a causal FIR filter over a signal delivered in blocks,
// y[n] = Σ h[k]·x[n-k]. The len(taps)-1 most recent inputs are carried
// between calls, so splitting a signal into blocks does not change the
// output. Stream is safe for concurrent use, though blocks from different
// goroutines interleave in call order.
type Stream struct {
	mu       sync.Mutex
	reversed []float64
	history  []float64
	buf      []float64
}

// NewStream returns a stream with zeroed history.
func NewStream(taps []float64) (*Stream, error) {
	if len(taps) == 0 {
		return nil, ErrNoTaps
	}
	reversed := slices.Clone(taps)
	slices.Reverse(reversed)
	return &Stream{
		reversed: reversed,
		history:  make([]float64, len(taps)-1),
	}, nil
}

// Process filters block and returns one output per input sample.
func (s *Stream) Process(block []float64) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(block) == 0 {
		return []float64{}, nil
	}

	s.buf = append(append(s.buf[:0], s.history...), block...)
	out, err := FilterValid(s.buf, s.reversed)
	if err != nil {
		return nil, err
	}
	copy(s.history, s.buf[len(s.buf)-len(s.history):])
	return out, nil
}

// Reset clears the carried history.
func (s *Stream) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.history)
}

// StreamGains feeds a unit cosine at each normalized frequency in freqs
// through one Stream, in blocks of block samples, and returns the peak
// output amplitude after the first two filter lengths. The stream is reset
// between tones.
func StreamGains(taps, freqs []float64, samples, block int) ([]float64, error) {
	if block < 1 {
		return nil, fmt.Errorf("block size %d must be positive", block)
	}
	s, err := NewStream(taps)
	if err != nil {
		return nil, err
	}

	settle := settleFactor*len(taps) - 1
	if samples <= settle {
		return nil, fmt.Errorf("%d samples cannot settle a %d tap filter", samples, len(taps))
	}

	gains := make([]float64, len(freqs))
	in := make([]float64, 0, block)
	for k, f := range freqs {
		s.Reset()
		for start := 0; start < samples; start += block {
			in = in[:0]
			for i := start; i < min(start+block, samples); i++ {
				in = append(in, math.Cos(2*math.Pi*f*float64(i)))
			}
			out, err := s.Process(in)
			if err != nil {
				return nil, err
			}
			for i, v := range out {
				if start+i >= settle {
					gains[k] = max(gains[k], math.Abs(v))
				}
			}
		}
	}
	return gains, nil
}
