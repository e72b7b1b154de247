package chain

// FFT convolution constants.
const (
	// Kernels shorter than this are convolved directly; the gonum FFT only
	// wins past a few hundred taps.
	minKernelForFFT = 400

	// Smallest FFT block; grows to the next power of two >= 2*kernel length.
	defaultFFTBlockSize = 512

	// A real FFT of size N has N/2+1 unique bins.
	fftHermitianDivisor = 2
)

// Channel filter limits.
const (
	minDecimation = 1

	// Samples skipped before measuring a tone, in filter lengths.
	settleFactor = 2
)
