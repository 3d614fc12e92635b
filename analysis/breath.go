package analysis

import (
	"math"
	"sort"
)

// Breath energy bounds relative to speech RMS.
const (
	breathMinRatio = 0.01
	breathMaxRatio = 0.30
)

// FindBreaths scans the gaps between word spans for breath-like sounds.
// A breath is a gap between minGapMs and maxGapMs long whose RMS falls
// between 1% and 30% of the speech-region RMS level: quieter gaps are
// room tone, louder ones are missed speech.
func FindBreaths(samples []float64, sampleRate int, words []Span, minGapMs, maxGapMs int) []Span {
	if len(words) < 2 {
		return nil
	}

	sorted := append([]Span(nil), words...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	clampIndex := func(t float64) int {
		i := int(t * float64(sampleRate))
		if i < 0 {
			return 0
		}
		if i > len(samples) {
			return len(samples)
		}
		return i
	}

	var speechSum float64
	var speechCount int
	for _, w := range sorted {
		s, e := clampIndex(w.Start), clampIndex(w.End)
		for _, v := range samples[s:e] {
			speechSum += v * v
			speechCount++
		}
	}
	if speechCount == 0 {
		return nil
	}
	speechRMS := math.Sqrt(speechSum / float64(speechCount))
	if speechRMS < 1e-6 {
		return nil
	}

	minGap := float64(minGapMs) / 1000
	maxGap := float64(maxGapMs) / 1000

	var breaths []Span
	for i := 0; i < len(sorted)-1; i++ {
		gap := Span{Start: sorted[i].End, End: sorted[i+1].Start}
		if gap.Duration() < minGap || gap.Duration() > maxGap {
			continue
		}
		s, e := clampIndex(gap.Start), clampIndex(gap.End)
		if e <= s {
			continue
		}
		ratio := RMS(samples[s:e]) / speechRMS
		if ratio >= breathMinRatio && ratio <= breathMaxRatio {
			breaths = append(breaths, gap)
		}
	}
	return breaths
}
