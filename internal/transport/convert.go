package transport

import (
	"encoding/binary"
	"math"
)

// BytesToFloat64 decodes little-endian 16-bit PCM into normalized float64
// samples in dst. dst must hold len(src)/2 samples.
func BytesToFloat64(dst []float64, src []byte) {
	for i := 0; i < len(dst); i++ {
		sample := int16(binary.LittleEndian.Uint16(src[i*2 : i*2+2]))
		dst[i] = float64(sample) / 32768.0
	}
}

// Float64ToBytes encodes normalized float64 samples as little-endian 16-bit
// PCM into dst, clamping to full scale. dst must hold len(src)*2 bytes.
func Float64ToBytes(dst []byte, src []float64) {
	for i, sample := range src {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		binary.LittleEndian.PutUint16(dst[i*2:i*2+2], uint16(int16(sample*32767.0)))
	}
}

// LevelData describes the loudness of one processed block, scaled for
// display as a 0-100 meter.
type LevelData struct {
	Level    int
	Clipping bool
}

// calculateLevel computes the RMS of a processed block and scales it to a
// 0-100 meter value, flagging blocks that reach full scale.
func calculateLevel(samples []float64) LevelData {
	if len(samples) == 0 {
		return LevelData{}
	}

	var sum float64
	isClipping := false
	for _, sample := range samples {
		abs := math.Abs(sample)
		sum += abs * abs
		if abs >= 1.0 {
			isClipping = true
		}
	}

	rms := math.Sqrt(sum / float64(len(samples)))

	// Convert RMS to decibels and map roughly -60..-10 dBFS onto 0-100.
	db := 20 * math.Log10(math.Max(rms, 1e-10))
	scaledLevel := (db + 60) * (100.0 / 50.0)

	if isClipping {
		scaledLevel = math.Max(scaledLevel, 95)
	}
	if scaledLevel < 0 {
		scaledLevel = 0
	} else if scaledLevel > 100 {
		scaledLevel = 100
	}

	return LevelData{Level: int(scaledLevel), Clipping: isClipping}
}
