package phonetics

import "strings"

// Sonority ranks on the 7-point scale used for junction scoring and
// syllable boundary detection. Higher values are more sonorous.
const (
	SonorityUnknown   = 0
	SonorityStop      = 1
	SonorityAffricate = 2
	SonorityFricative = 3
	SonorityNasal     = 4
	SonorityLiquid    = 5
	SonorityGlide     = 6
	SonorityVowel     = 7
)

var arpabetSonority = map[string]int{}

func init() {
	classes := []struct {
		rank   int
		labels []string
	}{
		{SonorityStop, []string{"P", "B", "T", "D", "K", "G"}},
		{SonorityAffricate, []string{"CH", "JH"}},
		{SonorityFricative, []string{"F", "V", "TH", "DH", "S", "Z", "SH", "ZH", "HH"}},
		{SonorityNasal, []string{"M", "N", "NG"}},
		{SonorityLiquid, []string{"L", "R"}},
		{SonorityGlide, []string{"W", "Y"}},
	}
	for _, c := range classes {
		for _, l := range c.labels {
			arpabetSonority[l] = c.rank
		}
	}
}

// Phonemes that cannot legally start an English syllable. Starting a
// collaged "word" with one of these sounds unnatural.
var arpabetIllegalOnsets = map[string]bool{"NG": true, "ZH": true}
var ipaIllegalOnsets = map[string]bool{"ŋ": true}

// IPA consonant classes for the signal-aligner alphabet. These must yield
// the same category judgments as the ARPABET table.
var (
	ipaStops      = runeSet("pbtdkgʔ")
	ipaNasals     = runeSet("mnɲŋɴ")
	ipaFricatives = runeSet("fvθðszʃʒçxɣhɦ")
	ipaLaterals   = runeSet("lɫɬɮ")
	ipaRhotics    = map[string]bool{"r": true, "ɹ": true, "ɾ": true, "ɽ": true, "ʁ": true, "ʀ": true}
	ipaGlides     = map[string]bool{"j": true, "w": true, "ɥ": true}
)

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool, len(s))
	for _, r := range s {
		m[r] = true
	}
	return m
}

// Sonority returns the 7-point sonority rank of a phoneme label, accepting
// either ARPABET or IPA. Unknown labels return SonorityUnknown.
func Sonority(label string) int {
	if label == "" {
		return SonorityUnknown
	}
	if IsIPA(label) {
		return ipaSonority(label)
	}
	base := StripStress(label)
	if rank, ok := arpabetSonority[base]; ok {
		return rank
	}
	if label != base || arpabetVowels[base] {
		return SonorityVowel
	}
	return SonorityUnknown
}

func ipaSonority(label string) int {
	if IsIPAVowel(label) {
		return SonorityVowel
	}
	first := []rune(label)[0]
	switch {
	case ipaGlides[label] || first == 'j' || first == 'w' || first == 'ɥ':
		return SonorityGlide
	case ipaRhotics[label] || first == 'ɹ' || first == 'ɾ' || first == 'r':
		return SonorityLiquid
	case ipaLaterals[first]:
		return SonorityLiquid
	case ipaNasals[first]:
		return SonorityNasal
	case strings.HasPrefix(label, "tʃ") || strings.HasPrefix(label, "dʒ"):
		return SonorityAffricate
	case ipaFricatives[first]:
		return SonorityFricative
	case ipaStops[first]:
		return SonorityStop
	}
	return SonorityUnknown
}

// IllegalOnset reports whether a phoneme cannot legally begin an English
// syllable.
func IllegalOnset(label string) bool {
	if IsIPA(label) {
		return ipaIllegalOnsets[label]
	}
	return arpabetIllegalOnsets[StripStress(label)]
}

// GroupSonority maps a forced-aligner phoneme group label to a sonority
// rank. Groups follow the pg16 classification the signal aligner emits.
// Silence maps to -1 so it sorts below every real phoneme.
func GroupSonority(group string) int {
	if rank, ok := groupSonority[group]; ok {
		return rank
	}
	return SonorityStop
}

var groupSonority = map[string]int{
	"voiced_stops":         SonorityStop,
	"voiceless_stops":      SonorityStop,
	"affricates":           SonorityAffricate,
	"voiceless_fricatives": SonorityFricative,
	"voiced_fricatives":    SonorityFricative,
	"nasals":               SonorityNasal,
	"laterals":             SonorityLiquid,
	"rhotics":              SonorityLiquid,
	"approximants":         SonorityGlide,
	"glides":               SonorityGlide,
	"central_vowels":       SonorityVowel,
	"front_vowels":         SonorityVowel,
	"back_vowels":          SonorityVowel,
	"diphthongs":           SonorityVowel,
	"vowels":               SonorityVowel,
	"consonants":           SonorityStop,
	"silence":              -1,
}

// IsVowelGroup reports whether a pg16 group label represents a nucleus.
func IsVowelGroup(group string) bool {
	return groupSonority[group] == SonorityVowel
}
