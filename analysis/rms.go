// Package analysis provides signal-level measurements over mono sample
// buffers: RMS energy, quiet-region (room tone) detection, breath
// detection in inter-word gaps, and pink noise synthesis for gap filling.
//
// All functions take float64 samples normalized to [-1, 1].
package analysis

import "math"

// RMS computes root-mean-square energy of the whole buffer.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// WindowedRMS computes RMS energy in sliding windows, one value per hop.
// Returns nil when the buffer is shorter than one window.
func WindowedRMS(samples []float64, sampleRate, windowMs, hopMs int) []float64 {
	window := sampleRate * windowMs / 1000
	hop := sampleRate * hopMs / 1000
	if window <= 0 || hop <= 0 || len(samples) < window {
		return nil
	}

	frames := (len(samples)-window)/hop + 1
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		start := i * hop
		out[i] = RMS(samples[start : start+window])
	}
	return out
}
