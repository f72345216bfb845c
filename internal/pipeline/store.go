package pipeline

import (
	"log/slog"
	"sync/atomic"

	"github.com/clearvoice/superhear/internal/observability"
)

// ParameterStore publishes immutable ChainConfig snapshots from control
// threads to the audio thread.
//
// Updates validate the whole config and then swap in a brand-new snapshot;
// the read path is a single atomic pointer load with no locks and no heap
// allocation, so the audio thread never contends with a control surface.
// A rejected update retains the prior snapshot untouched.
type ParameterStore struct {
	sampleRate float64
	current    atomic.Pointer[ChainConfig]
	metrics    *observability.PipelineMetrics
	logger     *slog.Logger
}

// NewParameterStore validates the initial config and creates a store
// holding it as the first published snapshot. metrics and logger may be nil.
func NewParameterStore(initial ChainConfig, sampleRate float64, metrics *observability.PipelineMetrics, logger *slog.Logger) (*ParameterStore, error) {
	if err := initial.Validate(sampleRate); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	ps := &ParameterStore{
		sampleRate: sampleRate,
		metrics:    metrics,
		logger:     logger.With("component", "parameter_store"),
	}
	ps.current.Store(&initial)
	return ps, nil
}

// Apply validates cfg and, on success, installs it as the current snapshot
// visible to the next Current call. On validation failure the prior config
// is retained and the returned error names the failing field.
func (ps *ParameterStore) Apply(cfg ChainConfig) error {
	if err := cfg.Validate(ps.sampleRate); err != nil {
		if ps.metrics != nil {
			ps.metrics.RecordConfigUpdate("rejected")
		}
		ps.logger.Warn("rejected config update", "error", err)
		return err
	}

	ps.current.Store(&cfg)

	if ps.metrics != nil {
		ps.metrics.RecordConfigUpdate("applied")
	}
	ps.logger.Debug("applied config update")
	return nil
}

// Current returns the most recently published snapshot. The returned
// config is immutable; callers must not modify it.
func (ps *ParameterStore) Current() *ChainConfig {
	return ps.current.Load()
}

// SampleRate returns the session sample rate the store validates against.
func (ps *ParameterStore) SampleRate() float64 {
	return ps.sampleRate
}
