package reconstruct

import (
	"math"

	"github.com/RyanBlaney/sonido-collage/phonetics"
)

// DefaultContinuityBonus is the cost reduction for matching consecutive
// targets to adjacent source syllables. The sequence matcher will prefer
// a contiguous source syllable whose distance is up to this much worse
// than the best non-contiguous alternative, preserving natural
// coarticulation.
const DefaultContinuityBonus = 7.0

// stressTiePenalty nudges the sequence matcher away from entries whose
// stress differs from the target's.
const stressTiePenalty = 0.1

// distanceEpsilon is the window within which two distances count as tied.
const distanceEpsilon = 1e-9

// MatchResult pairs one target syllable with its chosen bank entry.
// Never mutated after creation.
type MatchResult struct {
	TargetIndex int            `json:"target_index"`
	Target      TargetSyllable `json:"target"`
	Entry       BankEntry      `json:"matched"`
	Distance    float64        `json:"distance"`
	// TieBreak names the rule that decided between tied candidates:
	// "stress" or "index". Empty when the minimum was unique.
	TieBreak string `json:"tie_break,omitempty"`
}

// Matcher matches target syllables against a bank.
type Matcher struct {
	bank    []BankEntry
	weights phonetics.DistanceWeights
	bonus   float64
}

// NewMatcher creates a matcher over bank with the given distance weights.
func NewMatcher(bank []BankEntry, weights phonetics.DistanceWeights) *Matcher {
	return &Matcher{bank: bank, weights: weights, bonus: DefaultContinuityBonus}
}

// SetContinuityBonus overrides the sequence-mode continuity bonus.
func (m *Matcher) SetContinuityBonus(bonus float64) { m.bonus = bonus }

// MatchNearest matches each target independently to its nearest bank
// entry. Distance ties within epsilon prefer a stress-matching entry,
// then the earliest index, so results are deterministic.
func (m *Matcher) MatchNearest(targets []TargetSyllable) ([]MatchResult, error) {
	if len(m.bank) == 0 {
		return nil, ErrEmptyBank
	}

	results := make([]MatchResult, 0, len(targets))
	for ti, target := range targets {
		best := 0
		bestDist := phonetics.SyllableDistance(target.Labels, m.bank[0].Labels, m.weights)
		bestStress := stressMatches(m.bank[0], target)
		tieBreak := ""

		for j := 1; j < len(m.bank); j++ {
			d := phonetics.SyllableDistance(target.Labels, m.bank[j].Labels, m.weights)
			switch {
			case d < bestDist-distanceEpsilon:
				best, bestDist, bestStress = j, d, stressMatches(m.bank[j], target)
				tieBreak = ""
			case d < bestDist+distanceEpsilon:
				// Tied: prefer matching stress; otherwise keep the
				// earlier entry.
				if !bestStress && stressMatches(m.bank[j], target) {
					best, bestDist, bestStress = j, d, true
					tieBreak = "stress"
				} else if tieBreak == "" {
					tieBreak = "index"
				}
			}
		}

		results = append(results, MatchResult{
			TargetIndex: ti,
			Target:      target,
			Entry:       m.bank[best],
			Distance:    bestDist,
			TieBreak:    tieBreak,
		})
	}
	return results, nil
}

func stressMatches(e BankEntry, t TargetSyllable) bool {
	if t.Stress == phonetics.StressNone {
		return true
	}
	return e.Stress == t.Stress
}

// MatchSequence matches all targets jointly, minimizing total phonetic
// distance while rewarding contiguous source runs: when consecutive
// targets map to adjacent syllables of the same source, the path cost
// drops by the continuity bonus. Stress mismatches add a small fixed
// penalty so equal-distance candidates break toward matching stress.
func (m *Matcher) MatchSequence(targets []TargetSyllable) ([]MatchResult, error) {
	if len(m.bank) == 0 {
		return nil, ErrEmptyBank
	}
	n, b := len(targets), len(m.bank)
	if n == 0 {
		return nil, nil
	}

	dists := make([][]float64, n)
	for i, target := range targets {
		row := make([]float64, b)
		for j, entry := range m.bank {
			d := phonetics.SyllableDistance(target.Labels, entry.Labels, m.weights)
			if !stressMatches(entry, target) {
				d += stressTiePenalty
			}
			row[j] = d
		}
		dists[i] = row
	}

	// pred[j] is the bank index whose syllable immediately precedes
	// bank[j] in its source, or -1.
	pred := make([]int, b)
	for j := range pred {
		pred[j] = -1
		for k := 0; k < b; k++ {
			if adjacent(m.bank[k], m.bank[j]) {
				pred[j] = k
				break
			}
		}
	}

	dp := append([]float64(nil), dists[0]...)
	parents := make([][]int, n)

	for i := 1; i < n; i++ {
		minK := 0
		for k := 1; k < b; k++ {
			if dp[k] < dp[minK] {
				minK = k
			}
		}

		newDP := make([]float64, b)
		parent := make([]int, b)
		for j := 0; j < b; j++ {
			best := dp[minK] + dists[i][j]
			bestK := minK
			if k := pred[j]; k >= 0 {
				if contiguous := dp[k] + dists[i][j] - m.bonus; contiguous < best {
					best = contiguous
					bestK = k
				}
			}
			newDP[j] = best
			parent[j] = bestK
		}
		dp = newDP
		parents[i] = parent
	}

	last := 0
	for j := 1; j < b; j++ {
		if dp[j] < dp[last] {
			last = j
		}
	}
	path := make([]int, n)
	path[n-1] = last
	for i := n - 1; i > 0; i-- {
		path[i-1] = parents[i][path[i]]
	}

	results := make([]MatchResult, n)
	for i := range results {
		j := path[i]
		results[i] = MatchResult{
			TargetIndex: i,
			Target:      targets[i],
			Entry:       m.bank[j],
			Distance:    phonetics.SyllableDistance(targets[i].Labels, m.bank[j].Labels, m.weights),
		}
	}
	return results, nil
}

// MatchPhonemes matches each target phoneme to the closest individual
// phoneme anywhere in the bank. The result references the entry holding
// the winning phoneme.
func (m *Matcher) MatchPhonemes(labels []string) ([]MatchResult, error) {
	if len(m.bank) == 0 {
		return nil, ErrEmptyBank
	}

	results := make([]MatchResult, 0, len(labels))
	for i, label := range labels {
		bestEntry := 0
		bestDist := math.Inf(1)
	scan:
		for j, entry := range m.bank {
			for _, candidate := range entry.Labels {
				if d := phonetics.PhonemeDistance(label, candidate, m.weights); d < bestDist {
					bestDist = d
					bestEntry = j
					if d == 0 {
						break scan
					}
				}
			}
		}
		results = append(results, MatchResult{
			TargetIndex: i,
			Target:      TargetSyllable{Labels: []string{label}},
			Entry:       m.bank[bestEntry],
			Distance:    bestDist,
		})
	}
	return results, nil
}
