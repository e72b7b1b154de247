package engine

// Exchange loop limits and tolerances
const (
	// MaxIterations caps the number of exchange passes.
	MaxIterations = 40

	// convergenceTolerance is the allowed gap between the peak weighted
	// error on the extremal set and the levelled deviation |δ|.
	convergenceTolerance = 1e-4

	// candidateTolerance admits local maxima sitting just under |δ|.
	candidateTolerance = 1e-5
)

// Interpolation constants
const (
	// denominatorFloor clamps |x_k - x_i| in the barycentric weights.
	denominatorFloor = 1e-5

	// coincidenceTolerance returns the stored sample when x sits on a node.
	coincidenceTolerance = 1e-7

	// weightScale keeps barycentric products near unity for high orders;
	// a common factor cancels out of δ and the interpolant.
	weightScale = 2.0

	// nevilleStackSize bounds the Neville tableau kept on the stack.
	nevilleStackSize = 128
)

// DefaultPrecision is the mantissa size in bits used by the Lagrange
// strategy for weights and δ.
const DefaultPrecision = 256
