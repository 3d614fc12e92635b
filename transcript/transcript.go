// Package transcript handles transcription input: per-file word/timing
// triples produced by an external transcriber. It validates span order
// and turns words into the flat syllable stream the downstream modes
// consume.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/RyanBlaney/sonido-collage/g2p"
	"github.com/RyanBlaney/sonido-collage/logging"
	"github.com/RyanBlaney/sonido-collage/syllable"
)

// Word is one transcribed word with its time span in the source audio.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ErrNotChronological reports out-of-order or overlapping word spans.
var ErrNotChronological = errors.New("transcript: word spans out of order")

// Load decodes a JSON array of words and validates it.
func Load(r io.Reader) ([]Word, error) {
	var words []Word
	if err := json.NewDecoder(r).Decode(&words); err != nil {
		return nil, fmt.Errorf("transcript: decode: %w", err)
	}
	if err := Validate(words); err != nil {
		return nil, err
	}
	return words, nil
}

// LoadFile loads a transcript JSON file.
func LoadFile(path string) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks that word spans are well-formed, chronologically
// ordered, and non-overlapping. Gaps between words are fine; they are
// treated as inter-word silence.
func Validate(words []Word) error {
	for i, w := range words {
		if w.End < w.Start {
			return fmt.Errorf("%w: word %d (%q) has end %v before start %v",
				ErrNotChronological, i, w.Text, w.End, w.Start)
		}
		if i > 0 && w.Start < words[i-1].End {
			return fmt.Errorf("%w: word %d (%q) starts at %v before previous end %v",
				ErrNotChronological, i, w.Text, w.Start, words[i-1].End)
		}
	}
	return nil
}

// Stream is the flat syllable sequence extracted from one transcript,
// plus the words that could not be processed. Skipped counts words
// dropped for malformed input (no usable phonemes); the run continues
// past them.
type Stream struct {
	Syllables []syllable.Syllable
	Words     []syllable.Word
	Skipped   int
}

// Syllabize converts every transcript word into timed syllables using the
// supplied phonemizer and aligner. Words that fail phonemization or
// syllabification are skipped and counted, never fatal.
func Syllabize(words []Word, conv *g2p.Converter, aligner syllable.Aligner) Stream {
	var out Stream
	for i, w := range words {
		phonemes, err := conv.Convert(w.Text)
		if err != nil {
			logging.Debug("skipping word: phonemization failed", logging.Fields{
				"word":  w.Text,
				"index": i,
				"error": err.Error(),
			})
			out.Skipped++
			continue
		}

		syls, err := aligner.AlignWord(syllable.AlignInput{
			Word:      w.Text,
			WordIndex: i,
			Start:     w.Start,
			End:       w.End,
			Labels:    phonemes,
		})
		if err != nil {
			logging.Debug("skipping word: syllabification failed", logging.Fields{
				"word":  w.Text,
				"index": i,
				"error": err.Error(),
			})
			out.Skipped++
			continue
		}

		out.Syllables = append(out.Syllables, syls...)
		out.Words = append(out.Words, syllable.Word{
			Text:      w.Text,
			Start:     w.Start,
			End:       w.End,
			Syllables: syls,
		})
	}
	return out
}
