package dsp

import (
	"math"

	"github.com/clearvoice/superhear/internal/errors"
)

// BandPassOrder is the Butterworth order of each half of the band-pass:
// an order-5 high-pass at the low cutoff cascaded with an order-5 low-pass
// at the high cutoff.
const BandPassOrder = 5

// BandPass is the causal band-pass filter behind the speech-focus stage.
// It is realized as a cascade of second-order (plus one first-order)
// sections whose delay-line state persists across blocks, so it can filter
// a live stream sample by sample. Zero-phase bidirectional filtering needs
// the whole signal in both time directions and has no streaming form.
type BandPass struct {
	sampleRate float64
	lowHz      float64
	highHz     float64
	sections   []*Section
}

// NewBandPass designs a Butterworth band-pass for the given corner
// frequencies at the session sample rate. Corner frequencies must satisfy
// 0 < low < high < nyquist.
func NewBandPass(sampleRate, lowHz, highHz float64) (*BandPass, error) {
	if sampleRate <= 0 {
		return nil, errors.Newf("sample rate must be positive, got %g", sampleRate).
			Component(errors.ComponentDSP).
			Category(errors.CategoryValidation).
			Context("field", "sampleRate").
			Build()
	}
	nyquist := sampleRate / 2.0
	if lowHz <= 0 || lowHz >= highHz || highHz >= nyquist {
		return nil, errors.Newf("band-pass corners must satisfy 0 < low < high < nyquist, got low=%g high=%g nyquist=%g", lowHz, highHz, nyquist).
			Component(errors.ComponentDSP).
			Category(errors.CategoryValidation).
			Context("field", "bandPassLowHz/bandPassHighHz").
			Build()
	}

	sections := butterworthHighpass(sampleRate, lowHz, BandPassOrder)
	sections = append(sections, butterworthLowpass(sampleRate, highHz, BandPassOrder)...)

	return &BandPass{
		sampleRate: sampleRate,
		lowHz:      lowHz,
		highHz:     highHz,
		sections:   sections,
	}, nil
}

// Matches reports whether the filter was designed for the given corners and
// sample rate. The chain uses this to recompute coefficients only when the
// cutoffs actually change, not on every block.
func (bp *BandPass) Matches(sampleRate, lowHz, highHz float64) bool {
	return bp != nil && bp.sampleRate == sampleRate && bp.lowHz == lowHz && bp.highHz == highHz
}

// ProcessBlock filters a block of samples in place, carrying the delay-line
// state of every section into the next block.
func (bp *BandPass) ProcessBlock(samples []float64) {
	for _, section := range bp.sections {
		section.ProcessBlock(samples)
	}
}

// Reset clears all delay-line state.
func (bp *BandPass) Reset() {
	for _, section := range bp.sections {
		section.Reset()
	}
}

// butterworthQ returns the quality factor of the index-th second-order
// section of an order-N Butterworth cascade, derived from the pole angles.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2.0 * float64(order))
	return 1.0 / (2.0 * math.Sin(theta))
}

// butterworthLowpass designs a lowpass Butterworth cascade. For odd orders
// the final section is first-order.
func butterworthLowpass(sampleRate, freq float64, order int) []*Section {
	sections := make([]*Section, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		sections = append(sections, NewSection(lowpassCoefficients(sampleRate, freq, q)))
	}
	if order%2 != 0 {
		sections = append(sections, NewSection(firstOrderLowpass(sampleRate, freq)))
	}
	return sections
}

// butterworthHighpass designs a highpass Butterworth cascade. For odd
// orders the final section is first-order.
func butterworthHighpass(sampleRate, freq float64, order int) []*Section {
	sections := make([]*Section, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		sections = append(sections, NewSection(highpassCoefficients(sampleRate, freq, q)))
	}
	if order%2 != 0 {
		sections = append(sections, NewSection(firstOrderHighpass(sampleRate, freq)))
	}
	return sections
}
