package transport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearvoice/superhear/internal/conf"
	"github.com/clearvoice/superhear/internal/pipeline"
)

func testSettings() *conf.Settings {
	s := &conf.Settings{}
	s.Audio.SampleRate = 44100
	s.Audio.BlockSize = 8
	return s
}

// passthroughChain builds a chain with every stage disabled and all gains
// at unity so transport tests observe byte movement, not DSP.
func passthroughChain(t *testing.T) *pipeline.SignalChain {
	t.Helper()
	cfg := pipeline.ChainConfig{
		BandPassLowHz:         300,
		BandPassHighHz:        3400,
		CompressorThresholdDb: -50,
		CompressorRatio:       8,
		CompressorAttackMs:    5,
		CompressorReleaseMs:   100,
		LimiterThresholdDb:    -1,
	}
	store, err := pipeline.NewParameterStore(cfg, 44100, nil, nil)
	require.NoError(t, err)
	return pipeline.NewSignalChain(store, nil, nil)
}

func pcmBytes(samples ...float64) []byte {
	out := make([]byte, len(samples)*2)
	Float64ToBytes(out, samples)
	return out
}

func TestConvertRoundTrip(t *testing.T) {
	src := []float64{0, 0.5, -0.5, 0.999, -0.999, 0.25}
	encoded := make([]byte, len(src)*2)
	Float64ToBytes(encoded, src)

	decoded := make([]float64, len(src))
	BytesToFloat64(decoded, encoded)

	for i := range src {
		assert.InDelta(t, src[i], decoded[i], 2.0/32767.0, "sample %d", i)
	}
}

func TestConvertClampsOutOfRange(t *testing.T) {
	encoded := make([]byte, 4)
	Float64ToBytes(encoded, []float64{1.5, -1.5})

	decoded := make([]float64, 2)
	BytesToFloat64(decoded, encoded)

	assert.InDelta(t, 1.0, decoded[0], 2.0/32767.0)
	assert.InDelta(t, -1.0, decoded[1], 2.0/32767.0)
}

func TestCalculateLevel(t *testing.T) {
	silence := calculateLevel(make([]float64, 64))
	assert.Equal(t, 0, silence.Level)
	assert.False(t, silence.Clipping)

	loud := make([]float64, 64)
	for i := range loud {
		loud[i] = 0.5
	}
	mid := calculateLevel(loud)
	assert.Greater(t, mid.Level, 50)
	assert.False(t, mid.Clipping)

	clipped := make([]float64, 64)
	for i := range clipped {
		clipped[i] = 1.0
	}
	hot := calculateLevel(clipped)
	assert.GreaterOrEqual(t, hot.Level, 95)
	assert.True(t, hot.Clipping)

	assert.Equal(t, LevelData{}, calculateLevel(nil))
}

func TestEngine_AssemblesBlocksFromPartialCallbacks(t *testing.T) {
	e := NewEngine(testSettings(), passthroughChain(t), nil, nil)

	// Feed one 8-sample block in uneven callback-sized pieces.
	input := pcmBytes(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8)
	e.onFrames(nil, input[:6], 3)
	assert.Equal(t, 0, e.processPending(), "no complete block staged yet")

	e.onFrames(nil, input[6:], 5)
	assert.Equal(t, 1, e.processPending())

	// The processed block is now available on the playback side.
	out := make([]byte, len(input))
	e.onFrames(out, nil, 8)

	got := make([]float64, 8)
	BytesToFloat64(got, out)
	want := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 2.0/32767.0, "sample %d", i)
	}
}

func TestEngine_UnderrunPadsWithSilence(t *testing.T) {
	e := NewEngine(testSettings(), passthroughChain(t), nil, nil)

	out := pcmBytes(0.9, 0.9, 0.9, 0.9)
	e.onFrames(out, nil, 2)

	for i, b := range out {
		assert.Zero(t, b, "byte %d should be padded with silence", i)
	}
	assert.EqualValues(t, 1, e.underruns.Load())
}

func TestEngine_DropsInputWhenRingFull(t *testing.T) {
	e := NewEngine(testSettings(), passthroughChain(t), nil, nil)

	// Ring holds ringBlocks blocks, never draining it forces a drop.
	block := pcmBytes(0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1)
	for i := 0; i < ringBlocks+1; i++ {
		e.onFrames(nil, block, 8)
	}

	assert.EqualValues(t, 1, e.inputDrops.Load())
	assert.Equal(t, ringBlocks, e.processPending())
}

func TestEngine_ProcessPendingHandlesMultipleBlocks(t *testing.T) {
	e := NewEngine(testSettings(), passthroughChain(t), nil, nil)

	block := pcmBytes(0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2)
	e.onFrames(nil, append(append([]byte{}, block...), block...), 16)

	assert.Equal(t, 2, e.processPending())
}

func TestEngine_ChainIsAppliedToStream(t *testing.T) {
	settings := testSettings()

	cfg := pipeline.ChainConfig{
		InputGainDb:           20 * math.Log10(2), // exact 2x gain
		BandPassLowHz:         300,
		BandPassHighHz:        3400,
		CompressorThresholdDb: -50,
		CompressorRatio:       8,
		CompressorAttackMs:    5,
		CompressorReleaseMs:   100,
		LimiterThresholdDb:    -1,
	}
	store, err := pipeline.NewParameterStore(cfg, 44100, nil, nil)
	require.NoError(t, err)
	e := NewEngine(settings, pipeline.NewSignalChain(store, nil, nil), nil, nil)

	e.onFrames(nil, pcmBytes(0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2), 8)
	require.Equal(t, 1, e.processPending())

	out := make([]byte, 16)
	e.onFrames(out, nil, 8)

	got := make([]float64, 8)
	BytesToFloat64(got, out)
	for i, sample := range got {
		assert.InDelta(t, 0.4, sample, 3.0/32767.0, "sample %d", i)
	}
}

func TestEngine_LevelMeterEmitsWithoutBlocking(t *testing.T) {
	e := NewEngine(testSettings(), passthroughChain(t), nil, nil)

	block := pcmBytes(0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5)
	// Nobody reads the level channel, processing must still proceed.
	for i := 0; i < 10; i++ {
		e.onFrames(nil, block, 8)
		require.Equal(t, 1, e.processPending())
	}

	level := <-e.Levels()
	assert.Greater(t, level.Level, 0)
}

func TestEngine_StopWithoutStartIsNoOp(t *testing.T) {
	e := NewEngine(testSettings(), passthroughChain(t), nil, nil)
	assert.NotPanics(t, e.Stop)
}
