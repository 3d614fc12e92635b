// Package phonotactics scores syllable-to-syllable transitions for
// naturalness and reorders small syllable groups into the best-sounding
// sequence. A collaged "word" built from unrelated syllables tends to
// sound like speech only when its junctions follow a rise-and-fall
// sonority shape; the scorer rewards that shape and penalizes boundaries
// English phonotactics forbids.
package phonotactics

import (
	"math/rand"

	"github.com/RyanBlaney/sonido-collage/phonetics"
	"github.com/RyanBlaney/sonido-collage/syllable"
)

// JunctionScore rates the boundary between syllable a (left) and
// syllable b (right). Three rules contribute:
//
//   - Sonority contour: +1 when sonority dips into the junction and rises
//     out of it (a's final phoneme below a's nucleus, b's first below b's
//     nucleus), -1 when neither side dips.
//   - Illegal onset: -2 when b begins with a phoneme that cannot start an
//     English syllable.
//   - Hiatus: -1 when a ends in a vowel and b starts with one.
func JunctionScore(a, b syllable.Syllable) int {
	if len(a.Phonemes) == 0 || len(b.Phonemes) == 0 {
		return 0
	}

	score := 0

	last := a.Phonemes[len(a.Phonemes)-1].Label
	first := b.Phonemes[0].Label

	lastSon := phonetics.Sonority(last)
	firstSon := phonetics.Sonority(first)
	dipIn := lastSon < nucleusSonority(a)
	riseOut := firstSon < nucleusSonority(b)
	if dipIn && riseOut {
		score++
	} else if !dipIn && !riseOut {
		score--
	}

	if phonetics.IllegalOnset(first) {
		score -= 2
	}

	if lastSon == phonetics.SonorityVowel && firstSon == phonetics.SonorityVowel {
		score--
	}

	return score
}

// WordScore sums junction scores over all adjacent pairs of an ordering.
func WordScore(syls []syllable.Syllable) int {
	total := 0
	for i := 1; i < len(syls); i++ {
		total += JunctionScore(syls[i-1], syls[i])
	}
	return total
}

func nucleusSonority(s syllable.Syllable) int {
	for _, ph := range s.Phonemes {
		if phonetics.Sonority(ph.Label) == phonetics.SonorityVowel {
			return phonetics.SonorityVowel
		}
	}
	return phonetics.SonorityVowel
}

// shuffleAttempts bounds the permutation search. Groups are at most four
// syllables, so a handful of samples reliably lands near the optimum.
const shuffleAttempts = 5

// OrderSyllables picks a natural-sounding ordering for a small syllable
// group. It draws shuffleAttempts random permutations from rng,
// deduplicates them, scores each with WordScore, and returns the highest
// scorer. Ties keep the earliest-generated candidate, so a fixed seed
// always reproduces the same ordering.
func OrderSyllables(syls []syllable.Syllable, rng *rand.Rand) []syllable.Syllable {
	if len(syls) < 2 {
		return append([]syllable.Syllable(nil), syls...)
	}

	seen := make(map[string]bool, shuffleAttempts)
	var best []syllable.Syllable
	bestScore := 0

	order := make([]int, len(syls))
	for attempt := 0; attempt < shuffleAttempts; attempt++ {
		for i := range order {
			order[i] = i
		}
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		key := orderingKey(order)
		if seen[key] {
			continue
		}
		seen[key] = true

		candidate := make([]syllable.Syllable, len(syls))
		for i, idx := range order {
			candidate[i] = syls[idx]
		}

		score := WordScore(candidate)
		if best == nil || score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	return best
}

func orderingKey(order []int) string {
	key := make([]byte, len(order))
	for i, idx := range order {
		key[i] = byte(idx)
	}
	return string(key)
}
