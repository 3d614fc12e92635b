// Package g2p converts orthographic words to ARPABET phoneme sequences
// using a CMU-format pronunciation dictionary with a rule-based fallback
// for out-of-vocabulary words.
package g2p

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Dictionary holds word-to-pronunciation mappings in CMU dictionary format.
type Dictionary struct {
	entries map[string][][]string // uppercased word -> pronunciation variants
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[string][][]string)}
}

// Add adds a pronunciation variant for a word.
func (d *Dictionary) Add(word string, phonemes []string) {
	key := strings.ToUpper(word)
	d.entries[key] = append(d.entries[key], phonemes)
}

// Len returns the number of distinct words in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Load reads a CMU Pronouncing Dictionary from r.
//
// Format: one word per line, "WORD  PH1 PH2 PH3 ...". Lines starting with
// ";;;" are comments. Alternative pronunciations carry a variant marker:
// "WORD(2)  PH1 PH2 ...".
func Load(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		// Strip variant marker: WORD(2) -> WORD
		word := fields[0]
		if i := strings.IndexByte(word, '('); i >= 0 {
			word = word[:i]
		}

		d.Add(word, fields[1:])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return d, nil
}

// LoadFile is a convenience wrapper that opens a dictionary file path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns the first pronunciation variant for a word, or false if
// the word is not in the dictionary. Lookup is case-insensitive.
func (d *Dictionary) Lookup(word string) ([]string, bool) {
	variants, ok := d.entries[strings.ToUpper(word)]
	if !ok || len(variants) == 0 {
		return nil, false
	}
	return variants[0], true
}

// LookupAll returns every pronunciation variant for a word.
func (d *Dictionary) LookupAll(word string) [][]string {
	return d.entries[strings.ToUpper(word)]
}
