// Package melody maps a note sequence onto a pool of syllable clips and
// renders a sung vocal track. Notes arrive as a plain list; where they
// come from (a sequencer, a score file) is the caller's business.
package melody

import (
	"math"
	"math/rand"
)

// Note is one melody note. Pitch is a MIDI note number.
type Note struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"` // seconds
	End      float64 `json:"end"`   // seconds
	Velocity int     `json:"velocity"`
}

// Duration returns the note length in seconds.
func (n Note) Duration() float64 {
	return n.End - n.Start
}

// DurationClass buckets notes by length; the class drives how many
// syllables a note swallows and which effects it gets.
type DurationClass string

const (
	DurationShort  DurationClass = "short"
	DurationMedium DurationClass = "medium"
	DurationLong   DurationClass = "long"
)

// ClassifyDuration buckets a note duration in seconds.
func ClassifyDuration(d float64) DurationClass {
	switch {
	case d < 0.2:
		return DurationShort
	case d < 1.0:
		return DurationMedium
	default:
		return DurationLong
	}
}

// NoteHz converts a MIDI note number to frequency.
func NoteHz(pitch int) float64 {
	return 440 * math.Pow(2, float64(pitch-69)/12)
}

// TargetShift returns the semitone shift that moves sourceF0 onto the
// note's pitch, plus a signed drift for loose pitch following.
func TargetShift(pitch int, sourceF0, driftSemitones float64) float64 {
	return 12*math.Log2(NoteHz(pitch)/sourceF0) + driftSemitones
}

// Planning defaults.
const (
	DefaultDriftRange        = 2.0
	DefaultChorusProbability = 0.3

	// MaxShiftSemitones caps the note shift; an octave each way keeps
	// the formants from collapsing entirely.
	MaxShiftSemitones = 12.0
)

// Mapping says how one melody note maps onto syllable clips.
type Mapping struct {
	Note            Note          `json:"note"`
	SyllableIndices []int         `json:"syllable_indices"`
	DriftSemitones  float64       `json:"drift_semitones"`
	Vibrato         bool          `json:"vibrato"`
	Chorus          bool          `json:"chorus"`
	Class           DurationClass `json:"class"`
}

// syllable count draws per duration class, weighted toward fewer.
var (
	mediumSyllableChoices = []int{1, 1, 1, 2, 2, 3}
	longSyllableChoices   = []int{1, 2, 2, 3, 3, 4}
)

// PlanMapping assigns syllables to notes by cycling through the pool.
// Short notes take one syllable; longer notes take a weighted draw.
// Each note gets a gaussian pitch drift clamped to ±driftRange, vibrato
// on held notes, and chorus on sustained notes or by chance.
func PlanMapping(notes []Note, poolSize int, driftRange, chorusProbability float64, rng *rand.Rand) []Mapping {
	if poolSize <= 0 {
		return nil
	}

	mappings := make([]Mapping, 0, len(notes))
	cursor := 0
	for _, note := range notes {
		duration := note.Duration()
		class := ClassifyDuration(duration)

		count := 1
		switch class {
		case DurationMedium:
			count = mediumSyllableChoices[rng.Intn(len(mediumSyllableChoices))]
		case DurationLong:
			count = longSyllableChoices[rng.Intn(len(longSyllableChoices))]
		}

		indices := make([]int, count)
		for i := range indices {
			indices[i] = cursor % poolSize
			cursor++
		}

		drift := rng.NormFloat64() * driftRange / 3
		if drift > driftRange {
			drift = driftRange
		} else if drift < -driftRange {
			drift = -driftRange
		}

		vibrato := class == DurationLong || (class == DurationMedium && duration > 0.6)
		chorus := duration > 0.6 || rng.Float64() < chorusProbability

		mappings = append(mappings, Mapping{
			Note:            note,
			SyllableIndices: indices,
			DriftSemitones:  drift,
			Vibrato:         vibrato,
			Chorus:          chorus,
			Class:           class,
		})
	}
	return mappings
}
