package dsp

import "math"

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
// First-order sections set B2 and A2 to zero.
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section is a single biquad filter with coefficients and delay-line state.
// It implements Direct Form II Transposed processing.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y
	return y
}

// ProcessBlock filters a block of samples in place. Zero-alloc.
func (s *Section) ProcessBlock(samples []float64) {
	for i, x := range samples {
		samples[i] = s.ProcessSample(x)
	}
}

// Reset clears the section's delay-line state.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// lowpassCoefficients designs a lowpass biquad at freq (Hz) with quality
// factor q, following the audio EQ cookbook.
func lowpassCoefficients(sampleRate, freq, q float64) Coefficients {
	w0 := 2.0 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * q)

	a0 := 1.0 + alpha
	return Coefficients{
		B0: (1.0 - cw) / 2.0 / a0,
		B1: (1.0 - cw) / a0,
		B2: (1.0 - cw) / 2.0 / a0,
		A1: -2.0 * cw / a0,
		A2: (1.0 - alpha) / a0,
	}
}

// highpassCoefficients designs a highpass biquad at freq (Hz) with quality
// factor q, following the audio EQ cookbook.
func highpassCoefficients(sampleRate, freq, q float64) Coefficients {
	w0 := 2.0 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * q)

	a0 := 1.0 + alpha
	return Coefficients{
		B0: (1.0 + cw) / 2.0 / a0,
		B1: -(1.0 + cw) / a0,
		B2: (1.0 + cw) / 2.0 / a0,
		A1: -2.0 * cw / a0,
		A2: (1.0 - alpha) / a0,
	}
}

// firstOrderLowpass designs a first-order lowpass section via the bilinear
// transform, used as the odd-order tail of a Butterworth cascade.
func firstOrderLowpass(sampleRate, freq float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1.0 / (1.0 + k)
	return Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1.0) * norm,
	}
}

// firstOrderHighpass designs a first-order highpass section via the
// bilinear transform.
func firstOrderHighpass(sampleRate, freq float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1.0 / (1.0 + k)
	return Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1.0) * norm,
	}
}
