package dsp

import "math"

// ApplyNoiseGate zeroes every sample whose magnitude falls below the linear
// threshold; samples at or above the threshold pass through unchanged.
//
// The gate is stateless per sample, with no hysteresis or hold time; a
// signal hovering near the threshold will chatter.
func ApplyNoiseGate(samples []float64, threshold float64) {
	if threshold <= 0 {
		return
	}
	for i, s := range samples {
		if math.Abs(s) < threshold {
			samples[i] = 0
		}
	}
}
