// Package remez designs optimal equiripple linear-phase FIR filters with the
// Parks-McClelland Remez exchange algorithm.
//
// A design starts from a [Specification]: a linear-phase filter type, an
// order and an ordered list of frequency bands, each with a target
// amplitude and a ripple tolerance in dB. The exchange lays a dense grid
// over the bands, levels the weighted error across L+2 extremal
// frequencies and moves them to the peaks of the error curve until the
// peaks are level. The converged amplitude response is then sampled and
// inverted into taps.
//
// # Quick Start
//
//	spec, err := remez.LowPass().
//	    SampleRate(48000).
//	    Order(32).
//	    PassBandCutoff(6000).
//	    StopBandStart(7000).
//	    PassBandRipple(0.5).
//	    StopBandRipple(0.5).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	taps, err := remez.Taps(spec)
//
// # Filter Types
//
//   - [Type1]: odd length, symmetric. Low pass, high pass, band pass.
//   - [Type2]: even length, symmetric. Response forced to zero at Nyquist,
//     used for channelizer prototypes.
//   - [Type3]: odd length, anti-symmetric. Hilbert transformers and
//     band-limited differentiators.
//   - [Type4]: even length, anti-symmetric. Full band Hilbert transformers
//     and differentiators.
//
// # Failures
//
// A design fails with [ErrInvalidSpecification] when the bands cannot be
// gridded, [ErrExtremalSearch] when an iteration finds too few alternating
// extrema, [ErrNotConverged] when the exchange hits its iteration cap and
// [ErrRippleExceeded] when a converged filter breaks a band's ripple
// tolerance. Under the default [Hard] policy these come back as a
// [*DesignError]; under [Soft] they are stored in an invalid [Result]
// together with the last partial state, which suits batches where one bad
// specification must not abort the rest (see [DesignBatch]).
//
// # Evaluators
//
// The interpolating polynomial is fitted by an injectable [Evaluator]:
// [Barycentric] works in float64, [Lagrange] computes the levelled
// deviation in extended precision and evaluates the Lagrange form directly.
// Both satisfy the same equiripple property; the extended precision path is
// slower and more tolerant of closely spaced extrema at high orders.
//
// # Concurrency
//
// A design owns its grid and working state. Independent designs may run
// concurrently; [DesignBatch] does so on a bounded worker group.
package remez
