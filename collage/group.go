package collage

import (
	"math/rand"

	"github.com/RyanBlaney/sonido-collage/phonotactics"
	"github.com/RyanBlaney/sonido-collage/syllable"
)

// wordLengthWeights biases invented words toward short lengths: the weight
// at index i is the probability of a word with lengths.Min+i syllables.
var wordLengthWeights = []float64{0.30, 0.35, 0.25, 0.10}

// WeightedWordLength draws a word length from lengths using the built-in
// weight table. When the range is wider than the table, the tail lengths
// share the final weight; when narrower, the truncated weights are
// renormalized by rejection.
func WeightedWordLength(lengths Range, rng *rand.Rand) int {
	span := lengths.Max - lengths.Min + 1
	if span <= 1 {
		return lengths.Min
	}

	weights := make([]float64, span)
	total := 0.0
	for i := 0; i < span; i++ {
		w := wordLengthWeights[len(wordLengthWeights)-1]
		if i < len(wordLengthWeights) {
			w = wordLengthWeights[i]
		}
		weights[i] = w
		total += w
	}

	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return lengths.Min + i
		}
	}
	return lengths.Max
}

// GroupWords partitions a syllable stream into invented words of weighted
// random length. Words of more than one syllable have their syllables
// reordered for pronounceability.
func GroupWords(syls []syllable.Syllable, lengths Range, rng *rand.Rand) [][]syllable.Syllable {
	var words [][]syllable.Syllable
	for i := 0; i < len(syls); {
		n := WeightedWordLength(lengths, rng)
		if i+n > len(syls) {
			n = len(syls) - i
		}
		word := append([]syllable.Syllable(nil), syls[i:i+n]...)
		if len(word) > 1 {
			word = phonotactics.OrderSyllables(word, rng)
		}
		words = append(words, word)
		i += n
	}
	return words
}

// GroupPhrases partitions words into phrases of uniform random size.
func GroupPhrases(words [][]syllable.Syllable, sizes Range, rng *rand.Rand) [][][]syllable.Syllable {
	var phrases [][][]syllable.Syllable
	for i := 0; i < len(words); {
		n := sizes.Sample(rng)
		if i+n > len(words) {
			n = len(words) - i
		}
		phrases = append(phrases, words[i:i+n])
		i += n
	}
	return phrases
}

// GroupSentences partitions phrases into sentences of uniform random size.
func GroupSentences(phrases [][][]syllable.Syllable, sizes Range, rng *rand.Rand) [][][][]syllable.Syllable {
	var sentences [][][][]syllable.Syllable
	for i := 0; i < len(phrases); {
		n := sizes.Sample(rng)
		if i+n > len(phrases) {
			n = len(phrases) - i
		}
		sentences = append(sentences, phrases[i:i+n])
		i += n
	}
	return sentences
}
