package collage

import "math/rand"

// StretchConfig selects which syllables get time-stretched. Each mode is
// independent; any active mode can mark a syllable.
type StretchConfig struct {
	// RandomProbability stretches each syllable with this probability.
	// Negative disables the mode.
	RandomProbability float64 `json:"random_probability"`

	// AlternatingInterval stretches every Nth syllable overall. Zero
	// disables.
	AlternatingInterval int `json:"alternating_interval"`

	// BoundaryCount stretches the first and last N syllables of each
	// word. Zero disables.
	BoundaryCount int `json:"boundary_count"`

	// WordProbability stretches whole words with this probability.
	// Negative disables.
	WordProbability float64 `json:"word_probability"`

	// Factor is the stretch factor range; Min==Max pins it.
	Factor FloatRange `json:"factor"`
}

// ResolveStretchFactor picks a factor from the configured range.
func (c StretchConfig) ResolveStretchFactor(rng *rand.Rand) float64 {
	return c.Factor.Sample(rng)
}

// ShouldStretchSyllable reports whether any active per-syllable mode
// selects the syllable. syllableIndex counts across the whole collage;
// wordSyllableIndex and wordSyllableCount describe the syllable's
// position inside its word.
func (c StretchConfig) ShouldStretchSyllable(syllableIndex, wordSyllableIndex, wordSyllableCount int, rng *rand.Rand) bool {
	if c.RandomProbability > 0 && rng.Float64() < c.RandomProbability {
		return true
	}
	if c.AlternatingInterval > 0 && syllableIndex%c.AlternatingInterval == 0 {
		return true
	}
	if c.BoundaryCount > 0 {
		n := c.BoundaryCount
		if wordSyllableIndex < n || wordSyllableIndex >= wordSyllableCount-n {
			return true
		}
	}
	return false
}

// ShouldStretchWord reports whether the whole-word mode selects a word.
func (c StretchConfig) ShouldStretchWord(rng *rand.Rand) bool {
	return c.WordProbability > 0 && rng.Float64() < c.WordProbability
}

// ApplyStutter duplicates indices in a syllable sequence: after each
// element, with the given probability, n extra copies are appended where
// n is drawn from count.
func ApplyStutter(indices []int, probability float64, count Range, rng *rand.Rand) []int {
	result := make([]int, 0, len(indices))
	for _, idx := range indices {
		result = append(result, idx)
		if rng.Float64() < probability {
			n := count.Sample(rng)
			for i := 0; i < n; i++ {
				result = append(result, idx)
			}
		}
	}
	return result
}

// ApplyRepeat duplicates indices in a word sequence the same way
// ApplyStutter does for syllables.
func ApplyRepeat(indices []int, probability float64, count Range, rng *rand.Rand) []int {
	return ApplyStutter(indices, probability, count, rng)
}
