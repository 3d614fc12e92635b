package reconstruct

import (
	"strings"

	"github.com/RyanBlaney/sonido-collage/g2p"
	"github.com/RyanBlaney/sonido-collage/logging"
	"github.com/RyanBlaney/sonido-collage/phonetics"
	"github.com/RyanBlaney/sonido-collage/syllable"
)

// TargetSyllable is a syllable-shaped unit derived from target text.
// Phonemes and stress are known but there is no source audio yet.
// WordStart marks syllables that begin a new word, which the timing
// planner turns into inter-word pauses.
type TargetSyllable struct {
	Labels    []string `json:"phonemes"`
	Word      string   `json:"word"`
	WordIndex int      `json:"word_index"`
	Stress    int      `json:"stress"`
	WordStart bool     `json:"word_start"`
}

// TargetFromText phonemizes target text into syllables. Punctuation is
// stripped from word edges; words that fail phonemization are skipped
// with the returned count.
func TargetFromText(text string, conv *g2p.Converter) ([]TargetSyllable, int) {
	var targets []TargetSyllable
	skipped := 0

	for wi, raw := range strings.Fields(text) {
		word := strings.Trim(raw, ".,!?;:\"'()-")
		if word == "" {
			continue
		}

		phonemes, err := conv.Convert(word)
		if err != nil {
			logging.Debug("skipping target word", logging.Fields{
				"word":  word,
				"error": err.Error(),
			})
			skipped++
			continue
		}

		var labels []string
		for _, p := range phonemes {
			if phonetics.IsPhonemeLabel(p) {
				labels = append(labels, p)
			}
		}
		if len(labels) == 0 {
			skipped++
			continue
		}

		var syls [][]string
		parts, err := syllable.Syllabify(labels, false)
		if err != nil {
			// No vowel: keep the word as a single syllable.
			syls = [][]string{labels}
		} else {
			for _, p := range parts {
				syls = append(syls, p.Labels())
			}
		}

		for si, labels := range syls {
			targets = append(targets, TargetSyllable{
				Labels:    labels,
				Word:      word,
				WordIndex: wi,
				Stress:    extractStress(labels),
				WordStart: si == 0,
			})
		}
	}

	return targets, skipped
}
