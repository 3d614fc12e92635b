package g2p

import (
	"errors"
	"strings"
	"unicode"

	"github.com/RyanBlaney/sonido-collage/logging"
)

// ErrNoLetters is returned when a word contains no alphabetic characters
// and therefore has no pronunciation.
var ErrNoLetters = errors.New("g2p: word has no alphabetic characters")

// Converter maps orthographic words to ARPABET phoneme sequences. The
// dictionary is consulted first; out-of-vocabulary words fall through to
// the rule-based predictor.
type Converter struct {
	dict   *Dictionary
	logger logging.Logger
}

// NewConverter creates a converter over the given dictionary. A nil
// dictionary is allowed; every word then goes through the fallback rules.
func NewConverter(dict *Dictionary) *Converter {
	if dict == nil {
		dict = NewDictionary()
	}
	return &Converter{
		dict:   dict,
		logger: logging.WithFields(logging.Fields{"component": "g2p"}),
	}
}

// Convert returns the ordered ARPABET phonemes for a word. Punctuation is
// stripped before lookup. The only failure mode is a word with no
// alphabetic characters.
func (c *Converter) Convert(word string) ([]string, error) {
	cleaned := cleanWord(word)
	if cleaned == "" {
		return nil, ErrNoLetters
	}

	if phonemes, ok := c.dict.Lookup(cleaned); ok {
		return phonemes, nil
	}

	c.logger.Debug("word not in dictionary, using fallback rules", logging.Fields{
		"word": cleaned,
	})
	return fallback(cleaned), nil
}

// cleanWord strips everything but letters and apostrophes, so that
// transcript tokens like "hello," or "(um)" resolve to dictionary keys.
func cleanWord(word string) string {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || r == '\'' {
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), "'")
	if strings.IndexFunc(s, unicode.IsLetter) < 0 {
		return ""
	}
	return s
}
