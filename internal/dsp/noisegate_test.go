package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyNoiseGate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		threshold float64
		in        []float64
		want      []float64
	}{
		{
			name:      "below threshold forced to zero",
			threshold: 0.1,
			in:        []float64{0.05, -0.05, 0.099, -0.0999},
			want:      []float64{0, 0, 0, 0},
		},
		{
			name:      "at or above threshold unchanged",
			threshold: 0.1,
			in:        []float64{0.1, -0.1, 0.5, -1.0},
			want:      []float64{0.1, -0.1, 0.5, -1.0},
		},
		{
			name:      "mixed",
			threshold: 0.01,
			in:        []float64{0.005, 0.5, -0.009, -0.02},
			want:      []float64{0, 0.5, 0, -0.02},
		},
		{
			name:      "zero threshold is a no-op",
			threshold: 0,
			in:        []float64{0.0001, -0.0001},
			want:      []float64{0.0001, -0.0001},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			samples := append([]float64(nil), tt.in...)
			ApplyNoiseGate(samples, tt.threshold)
			assert.Equal(t, tt.want, samples)
		})
	}
}
