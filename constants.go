package remez

import "math"

// Grid defaults
const (
	// DefaultGridDensity is the number of grid points per extremal frequency.
	DefaultGridDensity = 16

	nyquist = 0.5
)

// Order limits used by the builders. Requests below these thresholds fall
// back to a closed-form estimate.
const (
	minBuilderOrder  = 6
	minBandPassOrder = 10
	parityDivisor    = 2
)

// Band pass and channelizer defaults
const (
	defaultBandPassRipple   = 0.01
	defaultChannelAlpha     = 0.2
	defaultChannelPassDB    = 0.01
	defaultChannelStopDB    = 0.001
	channelEdgeAmplitude    = 0.5
	channelEdgeWeightFactor = 8.0
)

// Unit defaults for the anti-symmetric builders
const (
	defaultHilbertRippleDB = 1.0
	defaultDiffRippleDB    = 0.5
	defaultDiffSlope       = 2 * math.Pi
)

// Ripple contract slack, matching the engine convergence tolerance.
const rippleSlack = 1e-4
