package dsp

// ApplyLimiter clamps every sample whose magnitude exceeds the linear
// equivalent of thresholdDb to that threshold, preserving sign.
//
// This is a stateless brick wall with no look-ahead and no soft knee;
// transients above the ceiling are clipped, not smoothed.
func ApplyLimiter(samples []float64, thresholdDb float64) {
	threshold := DbToLinear(thresholdDb)
	for i, s := range samples {
		if s > threshold {
			samples[i] = threshold
		} else if s < -threshold {
			samples[i] = -threshold
		}
	}
}
