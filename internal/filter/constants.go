package filter

import "math"

const (
	// Synthesis
	halfDivisor        = 2
	minSynthesisLength = 2

	// Window design limits
	minWindowTaps = 3
	maxWindowTaps = 8191

	// Sinc evaluation
	sincZeroThreshold = 1e-10
	twoPi             = 2 * math.Pi

	// Response analysis
	defaultResponsePoints = 512
	minFFTSize            = 64

	// Magnitude floor for dB conversion
	minMagnitude = 1e-12
	dbMultiplier = 20.0

	// Polyphase decomposition
	minChannels = 2
	maxChannels = 8192
)
