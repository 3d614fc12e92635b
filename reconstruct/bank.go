// Package reconstruct implements text reconstruction: a bank of source
// syllables is matched against phonemized target text, timing is planned
// for the matched sequence, and clips are cut and joined into output
// speech.
package reconstruct

import (
	"errors"

	"github.com/RyanBlaney/sonido-collage/phonetics"
	"github.com/RyanBlaney/sonido-collage/syllable"
)

// ErrEmptyBank is fatal for reconstruction: with no source syllables no
// output can be produced.
var ErrEmptyBank = errors.New("reconstruct: syllable bank is empty")

// BankEntry is one source syllable indexed for matching. Index is the
// syllable's position in its source stream, which the matcher uses to
// detect contiguous runs.
type BankEntry struct {
	Labels []string `json:"phonemes"`
	Start  float64  `json:"start"`
	End    float64  `json:"end"`
	Word   string   `json:"word"`
	Stress int      `json:"stress"`
	Source string   `json:"source"`
	Index  int      `json:"index"`
}

// Duration returns the entry's natural clip length in seconds.
func (e BankEntry) Duration() float64 { return e.End - e.Start }

// BuildBank indexes source syllables for matching. Punctuation and other
// non-phoneme labels are dropped from each syllable; syllables left with
// no real phonemes are skipped entirely.
func BuildBank(syls []syllable.Syllable, sourcePath string) []BankEntry {
	entries := make([]BankEntry, 0, len(syls))
	for i, syl := range syls {
		var labels []string
		for _, ph := range syl.Phonemes {
			if phonetics.IsPhonemeLabel(ph.Label) {
				labels = append(labels, ph.Label)
			}
		}
		if len(labels) == 0 {
			continue
		}
		entries = append(entries, BankEntry{
			Labels: labels,
			Start:  syl.Start,
			End:    syl.End,
			Word:   syl.Word,
			Stress: extractStress(labels),
			Source: sourcePath,
			Index:  i,
		})
	}
	return entries
}

// extractStress returns the first stress digit found in labels, or
// phonetics.StressNone.
func extractStress(labels []string) int {
	for _, label := range labels {
		if s := phonetics.StressOf(label); s != phonetics.StressNone {
			return s
		}
	}
	return phonetics.StressNone
}

// adjacent reports whether b immediately follows a in the same source.
func adjacent(a, b BankEntry) bool {
	return a.Source == b.Source && b.Index == a.Index+1
}
