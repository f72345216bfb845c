package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSection_DCResponse(t *testing.T) {
	t.Parallel()

	t.Run("lowpass passes DC", func(t *testing.T) {
		t.Parallel()
		s := NewSection(lowpassCoefficients(48000, 1000, 0.707))

		input := make([]float64, 2000)
		for i := range input {
			input[i] = 0.5
		}
		s.ProcessBlock(input)

		// after settling the output should sit at the DC value
		for i := 1900; i < 2000; i++ {
			assert.InDelta(t, 0.5, input[i], 0.01)
		}
	})

	t.Run("highpass blocks DC", func(t *testing.T) {
		t.Parallel()
		s := NewSection(highpassCoefficients(48000, 1000, 0.707))

		input := make([]float64, 2000)
		for i := range input {
			input[i] = 0.5
		}
		s.ProcessBlock(input)

		for i := 1900; i < 2000; i++ {
			assert.InDelta(t, 0.0, input[i], 0.001)
		}
	})
}

func TestSection_StateContinuityAcrossBlocks(t *testing.T) {
	t.Parallel()

	// Processing a signal in two halves must equal processing it in one
	// shot; the delay line carries over.
	whole := NewSection(lowpassCoefficients(44100, 2000, 0.707))
	split := NewSection(lowpassCoefficients(44100, 2000, 0.707))

	input := make([]float64, 512)
	for i := range input {
		input[i] = float64((i%7)-3) / 4.0
	}

	oneShot := append([]float64(nil), input...)
	whole.ProcessBlock(oneShot)

	halves := append([]float64(nil), input...)
	split.ProcessBlock(halves[:256])
	split.ProcessBlock(halves[256:])

	for i := range oneShot {
		assert.InDelta(t, oneShot[i], halves[i], 1e-12, "sample %d", i)
	}
}

func TestSection_Reset(t *testing.T) {
	t.Parallel()

	s := NewSection(lowpassCoefficients(44100, 1000, 0.707))
	block := []float64{1, 1, 1, 1}
	s.ProcessBlock(block)
	s.Reset()

	assert.Zero(t, s.d0)
	assert.Zero(t, s.d1)
}

func TestFirstOrderSections(t *testing.T) {
	t.Parallel()

	lp := firstOrderLowpass(44100, 1000)
	assert.Zero(t, lp.B2)
	assert.Zero(t, lp.A2)

	hp := firstOrderHighpass(44100, 1000)
	assert.Zero(t, hp.B2)
	assert.Zero(t, hp.A2)
	// unity at infinite frequency means B0 = -B1
	assert.InDelta(t, hp.B0, -hp.B1, 1e-12)
}
