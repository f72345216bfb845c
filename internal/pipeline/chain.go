package pipeline

import (
	"log/slog"

	"github.com/clearvoice/superhear/internal/dsp"
	"github.com/clearvoice/superhear/internal/observability"
)

// SignalChain applies the enhancement stages to one audio block at a time,
// in fixed order:
//
//  1. input gain
//  2. noise gate
//  3. band-pass filter (if speech focus is enabled)
//  4. compressor (if enabled)
//  5. makeup gain
//  6. output gain
//  7. limiter (if enabled)
//
// followed always by a hard clamp to [-1, 1] as a numerical safety net
// independent of the limiter. Gating before filtering keeps ringing
// artifacts out of the compressor; gain staging before the limiter lets the
// limiter catch the cumulative gain of all prior stages.
//
// The chain owns the persistent stage state: the compressor's gain-reduction
// envelope and the band-pass delay lines, both carried across blocks. It is
// driven from a single audio thread; only the parameter snapshot it reads
// is shared with other threads.
type SignalChain struct {
	store      *ParameterStore
	sampleRate float64

	compressor *dsp.Compressor
	bandPass   *dsp.BandPass

	metrics *observability.PipelineMetrics
	logger  *slog.Logger
}

// NewSignalChain creates a chain reading parameter snapshots from store.
// metrics and logger may be nil.
func NewSignalChain(store *ParameterStore, metrics *observability.PipelineMetrics, logger *slog.Logger) *SignalChain {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignalChain{
		store:      store,
		sampleRate: store.SampleRate(),
		compressor: dsp.NewCompressor(),
		metrics:    metrics,
		logger:     logger.With("component", "signal_chain"),
	}
}

// Process runs the chain over one block in place, reading exactly one
// config snapshot for the whole block. Malformed samples never abort the
// block; NaN/Inf values are forced to zero where they appear.
func (sc *SignalChain) Process(block []float64) {
	cfg := sc.store.Current()
	anomalies := 0

	dsp.ApplyGain(block, cfg.InputGainDb)

	dsp.ApplyNoiseGate(block, cfg.NoiseGateThreshold)

	if cfg.SpeechFocusEnabled {
		sc.ensureBandPass(cfg)
		if sc.bandPass != nil {
			sc.bandPass.ProcessBlock(block)
		}
	}

	if cfg.CompressorEnabled {
		anomalies += sc.compressor.ProcessBlock(block, sc.sampleRate, cfg.compressorParams())
	}

	dsp.ApplyGain(block, cfg.MakeupGainDb)

	dsp.ApplyGain(block, cfg.OutputGainDb)

	if cfg.LimiterEnabled {
		dsp.ApplyLimiter(block, cfg.LimiterThresholdDb)
	}

	anomalies += dsp.SanitizeAndClamp(block)

	if sc.metrics != nil {
		sc.metrics.RecordBlockProcessed(len(block))
		sc.metrics.RecordNumericAnomalies(anomalies)
	}
}

// ensureBandPass redesigns the filter only when the configured corners (or
// the session rate) differ from what the current filter was built for, so
// coefficients are not recomputed every block. A fresh design starts with a
// cleared delay line.
func (sc *SignalChain) ensureBandPass(cfg *ChainConfig) {
	if sc.bandPass.Matches(sc.sampleRate, cfg.BandPassLowHz, cfg.BandPassHighHz) {
		return
	}
	bp, err := dsp.NewBandPass(sc.sampleRate, cfg.BandPassLowHz, cfg.BandPassHighHz)
	if err != nil {
		// store validation guarantees designable corners; keep the previous
		// filter rather than dropping audio
		sc.logger.Error("band-pass redesign failed", "error", err,
			"low_hz", cfg.BandPassLowHz, "high_hz", cfg.BandPassHighHz)
		return
	}
	sc.bandPass = bp
}

// GainReduction exposes the compressor's current envelope value, useful
// for level meters on a control surface.
func (sc *SignalChain) GainReduction() float64 {
	return sc.compressor.GainReduction()
}
