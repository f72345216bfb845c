package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyLimiter_BrickWall(t *testing.T) {
	t.Parallel()

	const thresholdDb = -6.0
	threshold := DbToLinear(thresholdDb)

	samples := []float64{0.0, 0.3, 1.0, -1.0, 2.5, -2.5, threshold}
	ApplyLimiter(samples, thresholdDb)

	for i, s := range samples {
		assert.LessOrEqual(t, math.Abs(s), threshold, "sample %d", i)
	}

	// below threshold untouched
	assert.Equal(t, 0.0, samples[0])
	assert.Equal(t, 0.3, samples[1])

	// sign preserved on clamped samples
	assert.Equal(t, threshold, samples[2])
	assert.Equal(t, -threshold, samples[3])
	assert.Equal(t, threshold, samples[4])
	assert.Equal(t, -threshold, samples[5])
}

func TestApplyLimiter_ImpulseAtMinusSixDb(t *testing.T) {
	t.Parallel()

	impulse := make([]float64, 16)
	impulse[0] = 1.0
	ApplyLimiter(impulse, -6)

	assert.InDelta(t, 0.501, impulse[0], 0.001)
	for i := 1; i < len(impulse); i++ {
		assert.Zero(t, impulse[i])
	}
}

func TestApplyLimiter_AlreadyClippedInput(t *testing.T) {
	t.Parallel()

	threshold := DbToLinear(-1)
	samples := []float64{1.0, -1.0, 1.0, -1.0}
	ApplyLimiter(samples, -1)

	for _, s := range samples {
		assert.LessOrEqual(t, math.Abs(s), threshold)
	}
}
