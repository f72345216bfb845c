// Package observability provides Prometheus metrics for the audio pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics contains Prometheus metrics for pipeline, parameter store
// and recording sink operations. All Record methods are cheap counter
// increments; none of them is called with a lock held on the audio path.
type PipelineMetrics struct {
	registry *prometheus.Registry

	blocksProcessedTotal  prometheus.Counter
	samplesProcessedTotal prometheus.Counter
	numericAnomaliesTotal prometheus.Counter

	configUpdatesTotal *prometheus.CounterVec

	recordingBlocksWrittenTotal prometheus.Counter
	recordingBlocksDroppedTotal prometheus.Counter
	recordingErrorsTotal        *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers new pipeline metrics.
func NewPipelineMetrics(registry *prometheus.Registry) (*PipelineMetrics, error) {
	m := &PipelineMetrics{registry: registry}
	m.initMetrics()

	collectors := []prometheus.Collector{
		m.blocksProcessedTotal,
		m.samplesProcessedTotal,
		m.numericAnomaliesTotal,
		m.configUpdatesTotal,
		m.recordingBlocksWrittenTotal,
		m.recordingBlocksDroppedTotal,
		m.recordingErrorsTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PipelineMetrics) initMetrics() {
	m.blocksProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "superhear_blocks_processed_total",
		Help: "Total number of audio blocks run through the signal chain",
	})

	m.samplesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "superhear_samples_processed_total",
		Help: "Total number of samples run through the signal chain",
	})

	m.numericAnomaliesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "superhear_numeric_anomalies_total",
		Help: "Total number of NaN/Inf samples forced to zero mid-chain",
	})

	m.configUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "superhear_config_updates_total",
			Help: "Total number of parameter store updates by result",
		},
		[]string{"result"}, // result: applied, rejected
	)

	m.recordingBlocksWrittenTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "superhear_recording_blocks_written_total",
		Help: "Total number of blocks written to the recording file",
	})

	m.recordingBlocksDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "superhear_recording_blocks_dropped_total",
		Help: "Total number of queued recording blocks dropped under backpressure",
	})

	m.recordingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "superhear_recording_errors_total",
			Help: "Total number of recording I/O errors by operation",
		},
		[]string{"operation"}, // operation: open, write, finalize
	)
}

// RecordBlockProcessed counts one processed block of the given sample count.
func (m *PipelineMetrics) RecordBlockProcessed(samples int) {
	m.blocksProcessedTotal.Inc()
	m.samplesProcessedTotal.Add(float64(samples))
}

// RecordNumericAnomalies counts NaN/Inf samples sanitized to zero.
func (m *PipelineMetrics) RecordNumericAnomalies(count int) {
	if count > 0 {
		m.numericAnomaliesTotal.Add(float64(count))
	}
}

// RecordConfigUpdate counts a parameter store update by result.
func (m *PipelineMetrics) RecordConfigUpdate(result string) {
	m.configUpdatesTotal.WithLabelValues(result).Inc()
}

// RecordRecordingBlockWritten counts a block flushed to the WAV file.
func (m *PipelineMetrics) RecordRecordingBlockWritten() {
	m.recordingBlocksWrittenTotal.Inc()
}

// RecordRecordingBlockDropped counts a block dropped from the full queue.
func (m *PipelineMetrics) RecordRecordingBlockDropped() {
	m.recordingBlocksDroppedTotal.Inc()
}

// RecordRecordingError counts a recording I/O failure for an operation.
func (m *PipelineMetrics) RecordRecordingError(operation string) {
	m.recordingErrorsTotal.WithLabelValues(operation).Inc()
}
