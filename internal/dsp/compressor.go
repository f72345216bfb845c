package dsp

import "math"

// CompressorParams are the tunables of the compressor stage.
type CompressorParams struct {
	ThresholdDb float64 // level above which compression begins, ≤ 0
	Ratio       float64 // compression ratio, ≥ 1; 1 means bypass
	AttackMs    float64 // envelope attack time constant, > 0
	ReleaseMs   float64 // envelope release time constant, > 0
}

// Compressor applies per-sample dynamic range compression with a one-pole
// attack/release smoothed gain-reduction envelope.
//
// The gain-reduction value is the compressor's only state. It is updated
// exactly once per sample, in sample order, and carried across block
// boundaries; resetting it at block start causes audible clicks at block
// edges.
type Compressor struct {
	gainReduction float64 // current envelope value, always in (0, 1]
}

// NewCompressor returns a compressor with its envelope at unity gain.
func NewCompressor() *Compressor {
	return &Compressor{gainReduction: 1.0}
}

// ProcessBlock compresses a block of samples in place. Ratio ≤ 1 is a full
// bypass with no computation. Samples that arrive as NaN/Inf are forced to
// zero instead of corrupting the envelope; the return value is the count of
// such anomalies.
func (c *Compressor) ProcessBlock(samples []float64, sampleRate float64, p CompressorParams) int {
	if p.Ratio <= 1 {
		return 0
	}

	attackCoeff := math.Exp(-1.0 / (sampleRate * (p.AttackMs / 1000.0)))
	releaseCoeff := math.Exp(-1.0 / (sampleRate * (p.ReleaseMs / 1000.0)))
	thresholdLinear := DbToLinear(p.ThresholdDb)

	anomalies := 0
	for i, sample := range samples {
		mag := math.Abs(sample)
		if !isFinite(mag) {
			// Treat the anomaly as silence: zero the output and let the
			// envelope take its release step toward unity.
			samples[i] = 0
			c.gainReduction = releaseCoeff*c.gainReduction + (1.0 - releaseCoeff)
			anomalies++
			continue
		}

		if mag > thresholdLinear {
			targetGain := (thresholdLinear + (mag-thresholdLinear)/p.Ratio) / mag
			c.gainReduction = attackCoeff*c.gainReduction + (1.0-attackCoeff)*targetGain
		} else {
			c.gainReduction = releaseCoeff*c.gainReduction + (1.0 - releaseCoeff)
		}

		samples[i] = sample * c.gainReduction
	}
	return anomalies
}

// GainReduction returns the current envelope value.
func (c *Compressor) GainReduction() float64 {
	return c.gainReduction
}

// Reset returns the envelope to unity gain. Intended for session
// boundaries, never for block boundaries.
func (c *Compressor) Reset() {
	c.gainReduction = 1.0
}
