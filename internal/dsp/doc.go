// Package dsp provides the per-stage signal processing kernels used by the
// enhancement chain: gain staging, noise gating, a causal Butterworth
// band-pass filter, a stateful dynamic range compressor, and a brick-wall
// limiter.
//
// All kernels operate in place on blocks of mono float64 samples in the
// nominal range [-1.0, 1.0]. Stages that carry history across blocks
// (BandPass, Compressor) own their state explicitly so continuity across
// block boundaries is testable.
package dsp
