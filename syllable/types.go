// Package syllable defines the timed phoneme/syllable data model and the
// syllabifiers that split a word's phoneme sequence into syllables with
// estimated time spans.
package syllable

import (
	"github.com/RyanBlaney/sonido-collage/phonetics"
)

// Phoneme is a single phoneme with timing in the source recording.
type Phoneme struct {
	Label string  `json:"label"` // ARPABET (e.g. "AH0") or IPA when signal-aligned
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
}

// Syllable is an ordered group of phonemes forming one syllable, with its
// time span and a back-reference to the originating word.
type Syllable struct {
	Phonemes  []Phoneme `json:"phonemes"`
	Start     float64   `json:"start"` // first phoneme start (seconds)
	End       float64   `json:"end"`   // last phoneme end (seconds)
	Word      string    `json:"word"`  // parent word text
	WordIndex int       `json:"word_index"`
}

// Duration returns the syllable's length in seconds.
func (s Syllable) Duration() float64 {
	return s.End - s.Start
}

// Labels returns the syllable's phoneme labels in order.
func (s Syllable) Labels() []string {
	labels := make([]string, len(s.Phonemes))
	for i, p := range s.Phonemes {
		labels[i] = p.Label
	}
	return labels
}

// Stress returns the stress level of the syllable's nucleus, or
// phonetics.StressNone when no phoneme carries a stress digit.
func (s Syllable) Stress() int {
	for _, p := range s.Phonemes {
		if level := phonetics.StressOf(p.Label); level != phonetics.StressNone {
			return level
		}
	}
	return phonetics.StressNone
}

// Word is a transcript word with its constituent syllables. The syllable
// spans partition [Start, End) without gaps or overlaps.
type Word struct {
	Text      string     `json:"text"`
	Start     float64    `json:"start"`
	End       float64    `json:"end"`
	Syllables []Syllable `json:"syllables"`
}
