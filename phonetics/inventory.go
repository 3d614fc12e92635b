// Package phonetics provides the ARPABET phoneme inventory, sonority
// ranking, and articulatory feature distances used for syllable analysis
// and matching.
package phonetics

import (
	"strings"
	"unicode"
)

// Stress levels carried by ARPABET vowel phonemes.
const (
	StressNone       = -1
	StressUnstressed = 0
	StressPrimary    = 1
	StressSecondary  = 2
)

// arpabetVowels is the set of stress-stripped ARPABET vowel bases.
var arpabetVowels = map[string]bool{
	"AA": true, "AE": true, "AH": true, "AO": true, "AW": true, "AY": true,
	"EH": true, "ER": true, "EY": true, "IH": true, "IY": true,
	"OW": true, "OY": true, "UH": true, "UW": true,
}

// StripStress removes a trailing stress marker (0, 1, 2) from an ARPABET
// phoneme label.
func StripStress(label string) string {
	if n := len(label); n > 0 {
		switch label[n-1] {
		case '0', '1', '2':
			return label[:n-1]
		}
	}
	return label
}

// StressOf returns the stress level encoded in an ARPABET label, or
// StressNone when the label carries no stress digit.
func StressOf(label string) int {
	if n := len(label); n > 0 {
		switch label[n-1] {
		case '0':
			return StressUnstressed
		case '1':
			return StressPrimary
		case '2':
			return StressSecondary
		}
	}
	return StressNone
}

// IsVowel reports whether an ARPABET label denotes a vowel. Labels with a
// stress digit are always vowels; otherwise the stress-stripped base is
// checked against the vowel inventory.
func IsVowel(label string) bool {
	base := StripStress(label)
	if base != label {
		return true
	}
	return arpabetVowels[base]
}

// IsIPA reports whether a label uses the IPA alphabet rather than ARPABET.
// ARPABET labels are uppercase ASCII; IPA labels are lowercase or
// non-ASCII.
func IsIPA(label string) bool {
	if label == "" {
		return false
	}
	r := []rune(label)[0]
	return unicode.IsLower(r) || r > unicode.MaxASCII
}

// IsPhonemeLabel reports whether a label is a real phoneme rather than
// punctuation that some converters emit inline.
func IsPhonemeLabel(label string) bool {
	if label == "" {
		return false
	}
	return unicode.IsLetter([]rune(label)[0])
}

// ipaVowels holds monophthong IPA vowel characters.
var ipaVowels = map[rune]bool{}

func init() {
	for _, r := range "aeiouɪɛæɑɒɔʊəɜɐʌ" {
		ipaVowels[r] = true
	}
}

// ipaDiphthongStarts lists IPA diphthongs treated as single nuclei.
var ipaDiphthongStarts = []string{"aɪ", "aʊ", "eɪ", "oʊ", "ɔɪ"}

// IsIPAVowel reports whether an IPA label denotes a vowel or diphthong.
func IsIPAVowel(label string) bool {
	if label == "" {
		return false
	}
	for _, d := range ipaDiphthongStarts {
		if strings.HasPrefix(label, d) {
			return true
		}
	}
	r := []rune(label)[0]
	if ipaVowels[r] {
		return true
	}
	trimmed := strings.TrimRight(label, "ːˑ")
	if trimmed == "" {
		return false
	}
	return ipaVowels[[]rune(trimmed)[0]]
}
