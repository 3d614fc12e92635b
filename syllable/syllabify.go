package syllable

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-collage/phonetics"
)

// ErrNoVowel is returned when a phoneme sequence contains no vowel and
// therefore cannot be syllabified. Callers skip the offending word rather
// than aborting the run.
var ErrNoVowel = errors.New("syllable: no vowel in phoneme sequence")

// Parts is one syllable decomposed into onset, nucleus, and coda label
// sequences. The nucleus holds exactly one vowel (plus an R pulled in by
// r-coloring or a Y by y-gliding).
type Parts struct {
	Onset   []string
	Nucleus []string
	Coda    []string
}

// Labels returns onset+nucleus+coda as a flat sequence.
func (p Parts) Labels() []string {
	out := make([]string, 0, len(p.Onset)+len(p.Nucleus)+len(p.Coda))
	out = append(out, p.Onset...)
	out = append(out, p.Nucleus...)
	out = append(out, p.Coda...)
	return out
}

// slax is the set of stressed lax vowels the Alaska rule applies before.
var slax = map[string]bool{
	"IH1": true, "IH2": true, "EH1": true, "EH2": true,
	"AE1": true, "AE2": true, "AH1": true, "AH2": true,
	"UH1": true, "UH2": true,
}

// onsets2 lists the licit two-consonant English onsets.
var onsets2 = map[[2]string]bool{
	{"P", "R"}: true, {"T", "R"}: true, {"K", "R"}: true,
	{"B", "R"}: true, {"D", "R"}: true, {"G", "R"}: true,
	{"F", "R"}: true, {"TH", "R"}: true,
	{"P", "L"}: true, {"K", "L"}: true, {"B", "L"}: true,
	{"G", "L"}: true, {"F", "L"}: true, {"S", "L"}: true,
	{"K", "W"}: true, {"G", "W"}: true, {"S", "W"}: true,
	{"S", "P"}: true, {"S", "T"}: true, {"S", "K"}: true,
	{"HH", "Y"}: true, {"R", "W"}: true,
}

// onsets3 lists the licit three-consonant English onsets.
var onsets3 = map[[3]string]bool{
	{"S", "T", "R"}: true, {"S", "K", "L"}: true, {"T", "R", "W"}: true,
}

// Syllabify splits an ARPABET pronunciation into syllables using the
// Maximum Onset Principle: consonant runs between nuclei go to the onset
// of the following syllable, peeled back into the preceding coda only
// when the cluster is not a permitted English onset.
//
// alaskaRule controls whether /S/ is pulled into the coda after a
// stressed lax vowel ("Alaska" syllabifies as AH-LAES-KAH, not AH-LAE-SKAH).
func Syllabify(pron []string, alaskaRule bool) ([]Parts, error) {
	if len(pron) == 0 {
		return nil, nil
	}

	// Find nuclei; the interlude before each nucleus becomes its working
	// onset.
	var nuclei [][]string
	var onsets [][]string
	lastVowel := -1
	for j, seg := range pron {
		if phonetics.IsVowel(seg) {
			nuclei = append(nuclei, []string{seg})
			onsets = append(onsets, append([]string(nil), pron[lastVowel+1:j]...))
			lastVowel = j
		}
	}
	if len(nuclei) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoVowel, pron)
	}

	finalCoda := append([]string(nil), pron[lastVowel+1:]...)
	codas := make([][]string, 0, len(nuclei))

	// Resolve each inter-nucleus consonant cluster.
	for i := 1; i < len(onsets); i++ {
		var coda []string

		// R-coloring: a cluster-leading R attaches to the previous nucleus.
		if len(onsets[i]) > 1 && onsets[i][0] == "R" {
			nuclei[i-1] = append(nuclei[i-1], onsets[i][0])
			onsets[i] = onsets[i][1:]
		}

		// Y-gliding: a cluster-trailing Y in a long cluster joins the next
		// nucleus.
		if len(onsets[i]) > 2 && onsets[i][len(onsets[i])-1] == "Y" {
			nuclei[i] = append([]string{"Y"}, nuclei[i]...)
			onsets[i] = onsets[i][:len(onsets[i])-1]
		}

		// Alaska rule: /S/ goes to the coda after a stressed lax vowel.
		if len(onsets[i]) > 1 && alaskaRule && onsets[i][0] == "S" {
			prevNuc := nuclei[i-1]
			if slax[prevNuc[len(prevNuc)-1]] {
				coda = append(coda, onsets[i][0])
				onsets[i] = onsets[i][1:]
			}
		}

		// Onset maximization against the permitted onset sets.
		depth := 1
		if n := len(onsets[i]); n > 1 {
			lastTwo := [2]string{onsets[i][n-2], onsets[i][n-1]}
			if onsets2[lastTwo] {
				depth = 2
				if n >= 3 {
					lastThree := [3]string{onsets[i][n-3], onsets[i][n-2], onsets[i][n-1]}
					if onsets3[lastThree] {
						depth = 3
					}
				}
			}
		}

		for len(onsets[i]) > depth {
			coda = append(coda, onsets[i][0])
			onsets[i] = onsets[i][1:]
		}

		codas = append(codas, coda)
	}
	codas = append(codas, finalCoda)

	out := make([]Parts, len(nuclei))
	for i := range nuclei {
		out[i] = Parts{Onset: onsets[i], Nucleus: nuclei[i], Coda: codas[i]}
	}

	// Every input segment must be accounted for exactly once.
	var flat []string
	for _, p := range out {
		flat = append(flat, p.Labels()...)
	}
	if len(flat) != len(pron) {
		return nil, fmt.Errorf("syllable: could not syllabify %v, got %v", pron, flat)
	}
	for i := range flat {
		if flat[i] != pron[i] {
			return nil, fmt.Errorf("syllable: could not syllabify %v, got %v", pron, flat)
		}
	}

	return out, nil
}

// Destress removes stress markers from the nuclei of a syllabification.
func Destress(parts []Parts) []Parts {
	out := make([]Parts, len(parts))
	for i, p := range parts {
		nucleus := make([]string, len(p.Nucleus))
		for j, label := range p.Nucleus {
			nucleus[j] = phonetics.StripStress(label)
		}
		out[i] = Parts{Onset: p.Onset, Nucleus: nucleus, Coda: p.Coda}
	}
	return out
}
