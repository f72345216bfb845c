package dsp

// ApplyGain multiplies every sample by the linear equivalent of db.
// A gain of 0 dB is an exact identity, so the multiply is skipped.
func ApplyGain(samples []float64, db float64) {
	if db == 0 {
		return
	}
	gain := DbToLinear(db)
	for i := range samples {
		samples[i] *= gain
	}
}
