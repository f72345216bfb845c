// Package pipeline implements the real-time audio enhancement chain: a
// versioned, thread-safe parameter store and a fixed-order signal chain
// applied to one audio block at a time.
package pipeline

import (
	"math"

	"github.com/clearvoice/superhear/internal/conf"
	"github.com/clearvoice/superhear/internal/dsp"
	"github.com/clearvoice/superhear/internal/errors"
)

// ChainConfig holds all tunables of the enhancement chain. It is an
// immutable value object: a new ChainConfig is constructed whole on every
// control-surface edit and published through the ParameterStore, never
// mutated in place while the audio thread may be reading it.
type ChainConfig struct {
	InputGainDb        float64 // pre-stage sensitivity gain
	NoiseGateThreshold float64 // linear amplitude floor in [0, 1]

	SpeechFocusEnabled bool    // toggles the band-pass stage
	BandPassLowHz      float64 // lower corner, 0 < low < high < nyquist
	BandPassHighHz     float64 // upper corner

	CompressorEnabled     bool
	CompressorThresholdDb float64 // ≤ 0
	CompressorRatio       float64 // ≥ 1, 1 = bypass
	CompressorAttackMs    float64 // > 0
	CompressorReleaseMs   float64 // > 0
	MakeupGainDb          float64 // post-compressor gain

	OutputGainDb float64 // final volume gain

	LimiterEnabled     bool
	LimiterThresholdDb float64 // ≤ 0, brick-wall ceiling
}

// ConfigFromSettings builds a ChainConfig from the startup settings.
func ConfigFromSettings(s *conf.ChainSettings) ChainConfig {
	return ChainConfig{
		InputGainDb:           s.InputGainDb,
		NoiseGateThreshold:    s.NoiseGateThreshold,
		SpeechFocusEnabled:    s.SpeechFocusEnabled,
		BandPassLowHz:         s.BandPassLowHz,
		BandPassHighHz:        s.BandPassHighHz,
		CompressorEnabled:     s.CompressorEnabled,
		CompressorThresholdDb: s.CompressorThresholdDb,
		CompressorRatio:       s.CompressorRatio,
		CompressorAttackMs:    s.CompressorAttackMs,
		CompressorReleaseMs:   s.CompressorReleaseMs,
		MakeupGainDb:          s.MakeupGainDb,
		OutputGainDb:          s.OutputGainDb,
		LimiterEnabled:        s.LimiterEnabled,
		LimiterThresholdDb:    s.LimiterThresholdDb,
	}
}

func (c *ChainConfig) compressorParams() dsp.CompressorParams {
	return dsp.CompressorParams{
		ThresholdDb: c.CompressorThresholdDb,
		Ratio:       c.CompressorRatio,
		AttackMs:    c.CompressorAttackMs,
		ReleaseMs:   c.CompressorReleaseMs,
	}
}

func validationError(field, format string, args ...any) error {
	return errors.Newf(format, args...).
		Component(errors.ComponentPipeline).
		Category(errors.CategoryValidation).
		Context("field", field).
		Build()
}

// Validate checks every field against its domain for the given session
// sample rate and reports the first violation with the field name attached.
func (c *ChainConfig) Validate(sampleRate float64) error {
	if sampleRate <= 0 {
		return validationError("sampleRate", "sample rate must be positive, got %g", sampleRate)
	}

	finite := map[string]float64{
		"inputGainDb":           c.InputGainDb,
		"noiseGateThreshold":    c.NoiseGateThreshold,
		"bandPassLowHz":         c.BandPassLowHz,
		"bandPassHighHz":        c.BandPassHighHz,
		"compressorThresholdDb": c.CompressorThresholdDb,
		"compressorRatio":       c.CompressorRatio,
		"compressorAttackMs":    c.CompressorAttackMs,
		"compressorReleaseMs":   c.CompressorReleaseMs,
		"makeupGainDb":          c.MakeupGainDb,
		"outputGainDb":          c.OutputGainDb,
		"limiterThresholdDb":    c.LimiterThresholdDb,
	}
	for field, v := range finite {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validationError(field, "%s must be a finite number", field)
		}
	}

	if c.NoiseGateThreshold < 0 || c.NoiseGateThreshold > 1 {
		return validationError("noiseGateThreshold",
			"noise gate threshold must be in [0, 1], got %g", c.NoiseGateThreshold)
	}

	nyquist := sampleRate / 2
	if c.BandPassLowHz <= 0 || c.BandPassLowHz >= c.BandPassHighHz || c.BandPassHighHz >= nyquist {
		return validationError("bandPassLowHz/bandPassHighHz",
			"band-pass corners must satisfy 0 < low < high < nyquist, got low=%g high=%g nyquist=%g",
			c.BandPassLowHz, c.BandPassHighHz, nyquist)
	}

	if c.CompressorThresholdDb > 0 {
		return validationError("compressorThresholdDb",
			"compressor threshold must be ≤ 0 dB, got %g", c.CompressorThresholdDb)
	}
	if c.CompressorRatio < 1 {
		return validationError("compressorRatio",
			"compressor ratio must be ≥ 1, got %g", c.CompressorRatio)
	}
	if c.CompressorAttackMs <= 0 {
		return validationError("compressorAttackMs",
			"compressor attack must be > 0 ms, got %g", c.CompressorAttackMs)
	}
	if c.CompressorReleaseMs <= 0 {
		return validationError("compressorReleaseMs",
			"compressor release must be > 0 ms, got %g", c.CompressorReleaseMs)
	}

	if c.LimiterThresholdDb > 0 {
		return validationError("limiterThresholdDb",
			"limiter threshold must be ≤ 0 dB, got %g", c.LimiterThresholdDb)
	}

	return nil
}
