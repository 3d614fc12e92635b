package collage

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-collage/analysis"
	"github.com/RyanBlaney/sonido-collage/audio"
	"github.com/RyanBlaney/sonido-collage/pitch"
)

const (
	// pitchSkipSemitones leaves clips alone when the planned shift is
	// inaudible.
	pitchSkipSemitones = 0.1

	// gainSkipDB leaves clips alone for sub-half-decibel corrections;
	// gainClampDB bounds corrections so quiet room tone is not blown up.
	gainSkipDB  = 0.5
	gainClampDB = 20.0
)

// PlanPitchShifts estimates each clip's F0 and returns per-clip semitone
// shifts that pull voiced clips toward the median pitch. Shifts are
// clamped to ±pitchRange; unvoiced clips and shifts under a tenth of a
// semitone get 0.
func PlanPitchShifts(clips []audio.Buffer, pitchRange float64) []float64 {
	shifts := make([]float64, len(clips))
	if len(clips) == 0 {
		return shifts
	}

	f0s := make([]float64, len(clips))
	var voiced []float64
	for i, clip := range clips {
		est := pitch.NewEstimator(clip.SampleRate)
		f0, ok := est.Estimate(clip.Samples)
		if !ok {
			continue
		}
		f0s[i] = f0
		voiced = append(voiced, f0)
	}

	median, ok := pitch.MedianF0(voiced)
	if !ok {
		return shifts
	}

	for i, f0 := range f0s {
		if f0 <= 0 {
			continue
		}
		shift := pitch.ClampSemitones(pitch.SemitoneOffset(f0, median), pitchRange)
		if math.Abs(shift) < pitchSkipSemitones {
			continue
		}
		shifts[i] = shift
	}
	return shifts
}

// PlanGains returns per-clip dB gains that pull each clip's RMS toward
// the median clip RMS. Gains are clamped to ±20 dB; silent clips and
// corrections under half a decibel get 0.
func PlanGains(clips []audio.Buffer) []float64 {
	gains := make([]float64, len(clips))
	if len(clips) == 0 {
		return gains
	}

	levels := make([]float64, len(clips))
	var nonSilent []float64
	for i, clip := range clips {
		levels[i] = analysis.RMS(clip.Samples)
		if levels[i] > 0 {
			nonSilent = append(nonSilent, levels[i])
		}
	}
	if len(nonSilent) == 0 {
		return gains
	}

	sort.Float64s(nonSilent)
	target := stat.Quantile(0.5, stat.Empirical, nonSilent, nil)

	for i, level := range levels {
		if level <= 0 {
			continue
		}
		gain := 20 * math.Log10(target/level)
		if gain > gainClampDB {
			gain = gainClampDB
		} else if gain < -gainClampDB {
			gain = -gainClampDB
		}
		if math.Abs(gain) < gainSkipDB {
			continue
		}
		gains[i] = gain
	}
	return gains
}
