package dsp

import "math"

// DbToLinear converts a decibel value to a linear amplitude factor.
func DbToLinear(db float64) float64 {
	return math.Pow(10.0, db/20.0)
}

// isFinite reports whether x is neither NaN nor infinite.
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// SanitizeAndClamp forces NaN/Inf samples to zero and clamps the rest to
// [-1.0, 1.0]. It runs as the final stage of the chain, independent of the
// limiter, so a numeric anomaly upstream can never reach the output as
// sustained full-scale noise. It returns the number of samples that were
// anomalous.
func SanitizeAndClamp(samples []float64) int {
	anomalies := 0
	for i, s := range samples {
		switch {
		case !isFinite(s):
			samples[i] = 0
			anomalies++
		case s > 1.0:
			samples[i] = 1.0
		case s < -1.0:
			samples[i] = -1.0
		}
	}
	return anomalies
}
