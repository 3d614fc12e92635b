package syllable

import (
	"github.com/RyanBlaney/sonido-collage/phonetics"
)

// syllabifyTimed groups timed phonemes into syllables using their group
// classifications. Every vowel group is a nucleus. Consonants between two
// nuclei split at the sonority minimum: the boundary falls before the
// lowest-sonority consonant so the following onset rises into its nucleus.
// Leading consonants attach to the first nucleus, trailing consonants to
// the last. Silence-classified phonemes are dropped.
func syllabifyTimed(timed []Phoneme, groups []string, word string, wordIndex int) ([]Syllable, error) {
	type entry struct {
		ph    Phoneme
		group string
	}

	voiced := make([]entry, 0, len(timed))
	for i, ph := range timed {
		if phonetics.GroupSonority(groups[i]) < 0 {
			continue
		}
		voiced = append(voiced, entry{ph: ph, group: groups[i]})
	}
	if len(voiced) == 0 {
		return nil, ErrNoVowel
	}

	var nuclei []int
	for i, e := range voiced {
		if phonetics.IsVowelGroup(e.group) {
			nuclei = append(nuclei, i)
		}
	}
	if len(nuclei) == 0 {
		return nil, ErrNoVowel
	}

	// boundaries[k] is the index of the first phoneme of syllable k.
	boundaries := make([]int, 0, len(nuclei)+1)
	boundaries = append(boundaries, 0)
	for n := 0; n < len(nuclei)-1; n++ {
		lo, hi := nuclei[n]+1, nuclei[n+1] // consonants in [lo, hi)
		if lo >= hi {
			boundaries = append(boundaries, hi)
			continue
		}
		split := lo
		minSon := phonetics.GroupSonority(voiced[lo].group)
		for i := lo + 1; i < hi; i++ {
			if son := phonetics.GroupSonority(voiced[i].group); son < minSon {
				minSon = son
				split = i
			}
		}
		boundaries = append(boundaries, split)
	}
	boundaries = append(boundaries, len(voiced))

	syllables := make([]Syllable, 0, len(nuclei))
	for k := 0; k < len(boundaries)-1; k++ {
		lo, hi := boundaries[k], boundaries[k+1]
		phonemes := make([]Phoneme, 0, hi-lo)
		for i := lo; i < hi; i++ {
			phonemes = append(phonemes, voiced[i].ph)
		}
		syllables = append(syllables, Syllable{
			Phonemes:  phonemes,
			Start:     phonemes[0].Start,
			End:       phonemes[len(phonemes)-1].End,
			Word:      word,
			WordIndex: wordIndex,
		})
	}

	return syllables, nil
}
