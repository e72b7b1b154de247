package mathutil

// Abramowitz & Stegun coefficients for I₀(x).
const besselSplit = 3.75

var (
	besselSmallCoeffs = [...]float64{
		1.0, 3.5156229, 3.0899424, 1.2067492, 0.2659732, 0.360768e-1, 0.45813e-2,
	}
	besselLargeCoeffs = [...]float64{
		0.39894228, 0.1328592e-1, 0.225319e-2, -0.157565e-2, 0.916281e-2,
		-0.2057706e-1, 0.2635537e-1, -0.1647633e-1, 0.392377e-2,
	}
)

// Kaiser & Schafer β fit.
const (
	kaiserAttHigh    = 50.0
	kaiserAttLow     = 21.0
	kaiserHighSlope  = 0.1102
	kaiserHighOffset = 8.7
	kaiserMidScale   = 0.5842
	kaiserMidPower   = 0.4
	kaiserMidSlope   = 0.07886
)

// Kaiser length estimate.
const (
	kaiserLengthOffset  = 8.0
	kaiserLengthSlope   = 2.285
	defaultTransitionBW = 0.01
	minFilterLength     = 3
	maxFilterLength     = 8191
)

// Ripple conversions.
const (
	dbPerDecade = 20.0
	minRipple   = 1e-12
)

// Herrmann, Rabiner & Chan low pass order estimate.
const (
	herrmannA1 = 5.309e-3
	herrmannA2 = 7.114e-2
	herrmannA3 = -4.761e-1
	herrmannA4 = -2.66e-3
	herrmannA5 = -5.941e-1
	herrmannA6 = -4.278e-1
	herrmannB1 = 11.01217
	herrmannB2 = 0.5124401
)

// Mintzer & Liu band pass order estimate.
const (
	bandPassA1     = 0.01201
	bandPassA2     = 0.09664
	bandPassA3     = -0.51325
	bandPassA4     = 0.00203
	bandPassA5     = -0.57054
	bandPassA6     = -0.44314
	bandPassGSlope = -14.6
	bandPassGBias  = -16.9
)
