package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewPipelineMetrics(registry)
	require.NoError(t, err)
	require.NotNil(t, m)

	// double registration on the same registry must fail
	_, err = NewPipelineMetrics(registry)
	assert.Error(t, err)
}

func TestPipelineMetrics_Counters(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewPipelineMetrics(registry)
	require.NoError(t, err)

	m.RecordBlockProcessed(1024)
	m.RecordBlockProcessed(1024)
	m.RecordNumericAnomalies(3)
	m.RecordNumericAnomalies(0) // no-op
	m.RecordConfigUpdate("applied")
	m.RecordConfigUpdate("rejected")
	m.RecordRecordingBlockWritten()
	m.RecordRecordingBlockDropped()
	m.RecordRecordingError("open")

	assert.InDelta(t, 2, testutil.ToFloat64(m.blocksProcessedTotal), 0)
	assert.InDelta(t, 2048, testutil.ToFloat64(m.samplesProcessedTotal), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.numericAnomaliesTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.configUpdatesTotal.WithLabelValues("applied")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.configUpdatesTotal.WithLabelValues("rejected")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.recordingBlocksWrittenTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.recordingBlocksDroppedTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.recordingErrorsTotal.WithLabelValues("open")), 0)
}
