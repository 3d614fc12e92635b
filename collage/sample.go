package collage

import (
	"math/rand"
	"sort"

	"github.com/RyanBlaney/sonido-collage/syllable"
)

// SampleSyllables picks a random subset of syllables whose total duration
// approximately fills targetDuration, then shuffles the selection. The
// same rng state always yields the same sample.
func SampleSyllables(syls []syllable.Syllable, targetDuration float64, rng *rand.Rand) []syllable.Syllable {
	if len(syls) == 0 {
		return nil
	}

	available := append([]syllable.Syllable(nil), syls...)
	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	var selected []syllable.Syllable
	total := 0.0
	for _, syl := range available {
		dur := syl.Duration()
		if total+dur > targetDuration && len(selected) > 0 {
			break
		}
		selected = append(selected, syl)
		total += dur
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}

// SampleMultiSource samples round-robin across sources so every recording
// contributes material, then shuffles. Sources are visited in sorted key
// order to keep runs reproducible.
func SampleMultiSource(sources map[string][]syllable.Syllable, targetDuration float64, rng *rand.Rand) []syllable.Syllable {
	if len(sources) == 0 {
		return nil
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	pools := make(map[string][]syllable.Syllable, len(sources))
	for _, name := range names {
		pool := append([]syllable.Syllable(nil), sources[name]...)
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		pools[name] = pool
	}

	var selected []syllable.Syllable
	total := 0.0
	for len(names) > 0 && total < targetDuration {
		for i := 0; i < len(names); {
			name := names[i]
			pool := pools[name]
			if len(pool) == 0 {
				names = append(names[:i], names[i+1:]...)
				continue
			}
			syl := pool[len(pool)-1]
			pools[name] = pool[:len(pool)-1]
			selected = append(selected, syl)
			total += syl.Duration()
			if total >= targetDuration {
				break
			}
			i++
		}
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}
