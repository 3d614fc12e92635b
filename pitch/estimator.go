// Package pitch estimates fundamental frequency from mono sample buffers
// and derives the semitone shifts used for pitch normalization.
package pitch

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-collage/analysis"
)

// Default F0 search range covers typical speech.
const (
	DefaultMinF0 = 50.0
	DefaultMaxF0 = 400.0

	// periodicityThreshold is the minimum normalized autocorrelation for
	// a lag to count as voiced.
	periodicityThreshold = 0.3

	// silenceRMS is the RMS floor below which estimation is skipped.
	silenceRMS = 1e-6
)

// Estimator estimates F0 via normalized autocorrelation.
type Estimator struct {
	sampleRate int
	minF0      float64
	maxF0      float64
	threshold  float64
}

// NewEstimator creates an estimator with the default speech F0 range.
func NewEstimator(sampleRate int) *Estimator {
	return &Estimator{
		sampleRate: sampleRate,
		minF0:      DefaultMinF0,
		maxF0:      DefaultMaxF0,
		threshold:  periodicityThreshold,
	}
}

// NewEstimatorRange creates an estimator with a custom F0 search range.
func NewEstimatorRange(sampleRate int, minF0, maxF0 float64) *Estimator {
	return &Estimator{
		sampleRate: sampleRate,
		minF0:      minF0,
		maxF0:      maxF0,
		threshold:  periodicityThreshold,
	}
}

// Estimate returns the fundamental frequency of samples in Hz. The second
// return is false when the clip is silent, noisy, or only weakly periodic;
// callers must leave such clips' pitch unmodified rather than guess.
//
// The scan runs from the shortest lag (highest frequency) to the longest
// and returns the first local autocorrelation maximum above the
// periodicity threshold. Scanning in this direction avoids locking onto a
// sub-harmonic an octave below the true pitch.
func (e *Estimator) Estimate(samples []float64) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	if analysis.RMS(samples) < silenceRMS {
		return 0, false
	}

	lagMin := int(float64(e.sampleRate) / e.maxF0)
	lagMax := int(float64(e.sampleRate) / e.minF0)
	if lagMax > len(samples)-1 {
		lagMax = len(samples) - 1
	}
	if lagMin < 1 {
		lagMin = 1
	}
	if lagMin >= lagMax {
		return 0, false
	}

	// Mean-subtract so DC offset does not masquerade as periodicity.
	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	x := make([]float64, len(samples))
	r0 := 0.0
	for i, s := range samples {
		x[i] = s - mean
		r0 += x[i] * x[i]
	}
	if r0 < 1e-12 {
		return 0, false
	}

	autocorr := make([]float64, lagMax-lagMin+1)
	for i := range autocorr {
		lag := lagMin + i
		sum := 0.0
		for j := 0; j < len(x)-lag; j++ {
			sum += x[j] * x[j+lag]
		}
		autocorr[i] = sum / r0
	}

	if len(autocorr) >= 2 && autocorr[0] >= e.threshold && autocorr[0] >= autocorr[1] {
		return float64(e.sampleRate) / float64(lagMin), true
	}
	for i := 1; i < len(autocorr)-1; i++ {
		if autocorr[i] >= e.threshold &&
			autocorr[i] >= autocorr[i-1] &&
			autocorr[i] >= autocorr[i+1] {
			return float64(e.sampleRate) / float64(lagMin+i), true
		}
	}

	return 0, false
}

// MedianF0 computes the median of the voiced estimates in f0s. Entries
// produced by unvoiced clips must already be filtered out by the caller.
// Returns (0, false) for an empty input.
func MedianF0(f0s []float64) (float64, bool) {
	if len(f0s) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), f0s...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil), true
}

// SemitoneOffset returns the signed semitone distance from f0 to target.
func SemitoneOffset(f0, target float64) float64 {
	if f0 <= 0 || target <= 0 {
		return 0
	}
	return 12 * math.Log2(target/f0)
}

// ClampSemitones limits a shift to ±limit semitones. Normalization uses a
// 5-semitone limit to stay within natural-sounding bounds.
func ClampSemitones(shift, limit float64) float64 {
	if shift > limit {
		return limit
	}
	if shift < -limit {
		return -limit
	}
	return shift
}

// NormalizationLimit is the semitone clamp applied when shifting clips
// toward a shared pitch target.
const NormalizationLimit = 5.0
