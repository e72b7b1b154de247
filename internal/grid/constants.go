package grid

const (
	// DefaultDensity is the number of grid points per extremal frequency.
	DefaultDensity = 16

	// Nyquist is the upper edge of the normalized frequency axis.
	Nyquist = 0.5

	// differentiatorFloor is the desired response below which a
	// differentiator band keeps its flat weight instead of 1/f.
	differentiatorFloor = 1e-4

	// edgeTolerance absorbs rounding when comparing band edges.
	edgeTolerance = 1e-12
)
