package mathutil

import "math"

// EstimateFilterOrder estimates the order of a low pass or high pass filter
// with a transition between frequency1 and frequency2 (Hz), using the
// Herrmann, Rabiner & Chan formula.
//
// The ripple arguments are taken as linear deviations; the larger of the two
// is treated as the pass band deviation.
func EstimateFilterOrder(sampleRate, frequency1, frequency2, passRipple, stopRipple float64) int {
	df := math.Abs(frequency2-frequency1) / sampleRate

	dp, ds := passRipple, stopRipple
	if ds > dp {
		dp, ds = ds, dp
	}
	ddp := math.Log10(dp)
	dds := math.Log10(ds)

	dinf := (herrmannA1*ddp*ddp+herrmannA2*ddp+herrmannA3)*dds +
		(herrmannA4*ddp*ddp + herrmannA5*ddp + herrmannA6)
	ff := herrmannB1 + herrmannB2*(ddp-dds)

	return int(math.Ceil(dinf/df - ff*df + 1))
}

// EstimateBandPassOrder estimates the order of a band pass filter whose
// transition width is |passEnd - passStart| (Hz).
func EstimateBandPassOrder(sampleRate, passStart, passEnd, passRipple, stopRipple float64) int {
	df := math.Abs(passEnd-passStart) / sampleRate
	ddp := math.Log10(passRipple)
	dds := math.Log10(stopRipple)

	cinf := dds*(bandPassA1*ddp*ddp+bandPassA2*ddp+bandPassA3) +
		bandPassA4*ddp*ddp + bandPassA5*ddp + bandPassA6
	ginf := bandPassGSlope*math.Log10(passRipple/stopRipple) + bandPassGBias

	return int(math.Ceil(cinf/df + ginf*df + 1))
}
