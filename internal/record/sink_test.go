package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearvoice/superhear/internal/errors"
	"github.com/clearvoice/superhear/internal/observability"
)

const testSampleRate = 44100

func decodeWav(t *testing.T, path string) []int {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.EqualValues(t, testSampleRate, dec.SampleRate)
	assert.EqualValues(t, 1, dec.NumChans)
	assert.EqualValues(t, 16, dec.BitDepth)
	return buf.Data
}

func TestSink_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.wav")
	sink := NewSink(testSampleRate, nil, nil)

	require.NoError(t, sink.Start(path))
	assert.True(t, sink.Active())

	const blocks = 5
	const blockSize = 8
	for i := 0; i < blocks; i++ {
		block := make([]float64, blockSize)
		for j := range block {
			block[j] = float64(i+1) * 0.1
		}
		sink.Enqueue(block)
	}

	require.NoError(t, sink.Stop())
	assert.False(t, sink.Active())

	data := decodeWav(t, path)
	require.Len(t, data, blocks*blockSize)
	for k, sample := range data {
		want := float64(k/blockSize+1) * 0.1
		assert.InDelta(t, want, float64(sample)/32767.0, 1.0/32767.0,
			"sample %d out of order or corrupted", k)
	}
}

func TestSink_ClampsOutOfRangeSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")
	sink := NewSink(testSampleRate, nil, nil)

	require.NoError(t, sink.Start(path))
	sink.Enqueue([]float64{2.0, -2.0, 1.0, -1.0})
	require.NoError(t, sink.Stop())

	data := decodeWav(t, path)
	require.Len(t, data, 4)
	assert.Equal(t, 32767, data[0])
	assert.Equal(t, -32767, data[1])
	assert.Equal(t, 32767, data[2])
	assert.Equal(t, -32767, data[3])
}

func TestSink_StartAndStopAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.wav")
	sink := NewSink(testSampleRate, nil, nil)

	require.NoError(t, sink.Start(first))
	// Second start is a no-op and must not retarget the session.
	require.NoError(t, sink.Start(filepath.Join(dir, "second.wav")))

	sink.Enqueue([]float64{0.5, 0.5})

	require.NoError(t, sink.Stop())
	require.NoError(t, sink.Stop())

	require.Len(t, decodeWav(t, first), 2)
	_, err := os.Stat(filepath.Join(dir, "second.wav"))
	assert.True(t, os.IsNotExist(err))
}

func TestSink_EnqueueWhileStoppedIsNoOp(t *testing.T) {
	sink := NewSink(testSampleRate, nil, nil)

	assert.NotPanics(t, func() {
		sink.Enqueue([]float64{0.1, 0.2})
	})
	assert.False(t, sink.Active())
}

func TestSink_StartFailureRevertsToStopped(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	sink := NewSink(testSampleRate, nil, nil)
	err := sink.Start(filepath.Join(blocker, "nested", "out.wav"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
	assert.False(t, sink.Active())
}

func TestSink_FullQueueDropsOldest(t *testing.T) {
	metrics, err := observability.NewPipelineMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	sink := NewSink(testSampleRate, metrics, nil)

	// Stage a job with a tiny queue and no writer, so the queue state
	// after each push is fully deterministic.
	j := &job{queue: make(chan []float64, 2)}
	sink.current.Store(j)

	sink.Enqueue([]float64{1})
	sink.Enqueue([]float64{2})
	sink.Enqueue([]float64{3})

	first := <-j.queue
	second := <-j.queue
	assert.Equal(t, []float64{2}, first, "oldest block should have been evicted")
	assert.Equal(t, []float64{3}, second)
	assert.Empty(t, j.queue)
}

func TestSink_GracefulStopDrainsQueue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drain.wav")
	sink := NewSink(testSampleRate, nil, nil)

	require.NoError(t, sink.Start(path))

	const blocks = 32
	const blockSize = 16
	for i := 0; i < blocks; i++ {
		block := make([]float64, blockSize)
		for j := range block {
			block[j] = 0.25
		}
		sink.Enqueue(block)
	}
	require.NoError(t, sink.Stop())

	assert.Len(t, decodeWav(t, path), blocks*blockSize)
}

func TestDefaultFilePath(t *testing.T) {
	p := DefaultFilePath("/tmp/clips")
	assert.Equal(t, "/tmp/clips", filepath.Dir(p))
	assert.Regexp(t, `^recording_\d{8}_\d{6}\.wav$`, filepath.Base(p))
}
