package collage

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/RyanBlaney/sonido-collage/analysis"
	"github.com/RyanBlaney/sonido-collage/audio"
	"github.com/RyanBlaney/sonido-collage/logging"
	"github.com/RyanBlaney/sonido-collage/syllable"
)

// minStretchDuration guards the time stretcher against clips too short to
// frame.
const minStretchDuration = 0.08

// breathCrossfadeMs joins a breath onto the front of a gap.
const breathCrossfadeMs = 10

// roomToneMinMs is the shortest usable quiet stretch in a source.
const roomToneMinMs = 500

// breathGapMinMs/MaxMs bound the inter-word gaps searched for breaths.
const (
	breathGapMinMs = 200
	breathGapMaxMs = 600
)

// ErrNoSources is returned when Process is called with no input material.
var ErrNoSources = errors.New("collage: no sources")

// Source is one input recording with its syllabified transcript.
type Source struct {
	Name      string
	Audio     audio.Buffer
	Syllables []syllable.Syllable
}

// WordClip is one assembled nonsense word.
type WordClip struct {
	Syllables []syllable.Syllable `json:"syllables"`
	Source    string              `json:"source"` // dominant source name
	Buffer    audio.Buffer        `json:"-"`
}

// Result is the assembled collage plus its structure metadata.
type Result struct {
	Output    audio.Buffer
	Words     []WordClip
	Phrases   int
	Sentences int
	RoomTones map[string]analysis.Span
	Breaths   int
}

// Process runs the full collage pipeline: analyze sources for room tone
// and breaths, sample and regroup syllables, cut and polish clips, fuse
// words and phrases, and join everything with textured gaps.
func Process(ctx context.Context, backend audio.Backend, sources []Source, opts Options, rng *rand.Rand) (Result, error) {
	if len(sources) == 0 {
		return Result{}, ErrNoSources
	}
	sampleRate := sources[0].Audio.SampleRate
	for _, src := range sources[1:] {
		if src.Audio.SampleRate != sampleRate {
			return Result{}, errors.New("collage: sources must share a sample rate")
		}
	}

	// Analyze sources for gap texture.
	res := Result{RoomTones: map[string]analysis.Span{}}
	var roomTones []audio.Buffer
	var breathClips []audio.Buffer
	for _, src := range sources {
		if opts.RoomTone {
			if span, ok := analysis.FindRoomTone(src.Audio.Samples, sampleRate, roomToneMinMs); ok {
				res.RoomTones[src.Name] = span
				roomTones = append(roomTones, sliceSpan(src.Audio, span))
				logging.Info("room tone found", logging.Fields{
					"source": src.Name,
					"start":  span.Start,
					"end":    span.End,
				})
			}
		}
		if opts.BreathProbability > 0 {
			bounds := wordBounds(src.Syllables)
			for _, span := range analysis.FindBreaths(src.Audio.Samples, sampleRate, bounds, breathGapMinMs, breathGapMaxMs) {
				breathClips = append(breathClips, sliceSpan(src.Audio, span))
			}
		}
	}
	res.Breaths = len(breathClips)

	// Sample syllables across sources, then group into nonsense words.
	var selected []syllable.Syllable
	if len(sources) == 1 {
		selected = SampleSyllables(sources[0].Syllables, opts.TargetDuration, rng)
	} else {
		pool := make(map[string][]syllable.Syllable, len(sources))
		for _, src := range sources {
			pool[src.Name] = src.Syllables
		}
		selected = SampleMultiSource(pool, opts.TargetDuration, rng)
	}
	if len(selected) == 0 {
		return Result{}, ErrNoSources
	}
	words := GroupWords(selected, opts.SyllablesPerWord, rng)

	// Cut every syllable clip.
	type sylClip struct {
		wordIdx int
		syl     syllable.Syllable
		buf     audio.Buffer
	}
	var clips []sylClip
	for wi, word := range words {
		for _, syl := range word {
			src, ok := findSource(sources, syl)
			if !ok {
				continue
			}
			buf, err := backend.Cut(ctx, src.Audio, syl.Start, syl.End)
			if err != nil {
				logging.Warn("syllable cut failed", logging.Fields{
					"word": syl.Word, "error": err.Error(),
				})
				continue
			}
			clips = append(clips, sylClip{wordIdx: wi, syl: syl, buf: buf})
		}
	}
	if len(clips) == 0 {
		return Result{}, ErrNoSources
	}

	// Pitch and volume normalization toward the median clip.
	bufs := make([]audio.Buffer, len(clips))
	for i, c := range clips {
		bufs[i] = c.buf
	}
	if opts.PitchNormalize {
		for i, shift := range PlanPitchShifts(bufs, opts.PitchRange) {
			if shift == 0 {
				continue
			}
			if shifted, err := backend.PitchShift(ctx, clips[i].buf, shift); err == nil {
				clips[i].buf = shifted
			}
		}
		for i, c := range clips {
			bufs[i] = c.buf
		}
	}
	if opts.VolumeNormalize {
		for i, gain := range PlanGains(bufs) {
			if gain == 0 {
				continue
			}
			if adjusted, err := backend.Mix(ctx, []audio.Buffer{clips[i].buf}, []float64{gain}); err == nil {
				clips[i].buf = adjusted
			}
		}
	}

	// Stutter duplicates syllable clips within their word.
	if opts.Stutter != nil {
		var next []sylClip
		for wi := range words {
			var indices []int
			for ci, c := range clips {
				if c.wordIdx == wi {
					indices = append(indices, ci)
				}
			}
			for _, ci := range ApplyStutter(indices, opts.Stutter.Probability, opts.Stutter.Count, rng) {
				next = append(next, clips[ci])
			}
		}
		clips = next
	}

	// Per-syllable time stretch.
	if opts.Stretch != nil {
		globalIdx := 0
		for wi := range words {
			var wordClipIdx []int
			for ci, c := range clips {
				if c.wordIdx == wi {
					wordClipIdx = append(wordClipIdx, ci)
				}
			}
			for pos, ci := range wordClipIdx {
				if clips[ci].buf.Duration() >= minStretchDuration &&
					opts.Stretch.ShouldStretchSyllable(globalIdx, pos, len(wordClipIdx), rng) {
					factor := opts.Stretch.ResolveStretchFactor(rng)
					if stretched, err := backend.TimeStretch(ctx, clips[ci].buf, factor); err == nil {
						clips[ci].buf = stretched
					}
				}
				globalIdx++
			}
		}
	}

	// Fuse syllables into word clips.
	for wi, wordSyls := range words {
		var parts []audio.Buffer
		for _, c := range clips {
			if c.wordIdx == wi {
				parts = append(parts, c.buf)
			}
		}
		if len(parts) == 0 {
			continue
		}
		fused, err := backend.Concatenate(ctx, parts, opts.SyllableCrossfadeMs)
		if err != nil {
			logging.Warn("word fuse failed", logging.Fields{"error": err.Error()})
			continue
		}
		res.Words = append(res.Words, WordClip{
			Syllables: wordSyls,
			Source:    dominantSource(sources, wordSyls),
			Buffer:    fused,
		})
	}
	if len(res.Words) == 0 {
		return Result{}, ErrNoSources
	}

	// Whole-word stretch and word repeat.
	if opts.Stretch != nil {
		for i := range res.Words {
			if res.Words[i].Buffer.Duration() >= minStretchDuration && opts.Stretch.ShouldStretchWord(rng) {
				factor := opts.Stretch.ResolveStretchFactor(rng)
				if stretched, err := backend.TimeStretch(ctx, res.Words[i].Buffer, factor); err == nil {
					res.Words[i].Buffer = stretched
				}
			}
		}
	}
	if opts.Repeat != nil {
		indices := make([]int, len(res.Words))
		for i := range indices {
			indices[i] = i
		}
		repeated := ApplyRepeat(indices, opts.Repeat.Probability, opts.Repeat.Count, rng)
		next := make([]WordClip, 0, len(repeated))
		for _, i := range repeated {
			next = append(next, res.Words[i])
		}
		res.Words = next
	}

	// Fuse words into phrase clips.
	wordGroups := make([][]syllable.Syllable, len(res.Words))
	for i, w := range res.Words {
		wordGroups[i] = w.Syllables
	}
	phraseGroups := GroupPhrases(wordGroups, opts.WordsPerPhrase, rng)
	var phraseBufs []audio.Buffer
	wi := 0
	for _, phrase := range phraseGroups {
		parts := make([]audio.Buffer, 0, len(phrase))
		for range phrase {
			parts = append(parts, res.Words[wi].Buffer)
			wi++
		}
		fused, err := backend.Concatenate(ctx, parts, opts.WordCrossfadeMs)
		if err != nil {
			continue
		}
		if opts.ProsodicDynamics {
			fused = applyDynamics(fused)
		}
		phraseBufs = append(phraseBufs, fused)
	}
	res.Phrases = len(phraseBufs)

	// Group phrases into sentences and interleave gaps.
	var sentenceSizes []int
	for remaining := len(phraseBufs); remaining > 0; {
		n := opts.PhrasesPerSentence.Sample(rng)
		if n > remaining {
			n = remaining
		}
		sentenceSizes = append(sentenceSizes, n)
		remaining -= n
	}
	res.Sentences = len(sentenceSizes)

	var pieces []audio.Buffer
	pi := 0
	for si, size := range sentenceSizes {
		for pj := 0; pj < size; pj++ {
			pieces = append(pieces, phraseBufs[pi])
			lastInSentence := pj == size-1
			lastSentence := si == len(sentenceSizes)-1
			pi++
			if lastInSentence && lastSentence {
				continue
			}
			var gapDur float64
			phraseGap := !lastInSentence
			if phraseGap {
				gapDur = opts.PhrasePause.Sample(rng)
			} else {
				gapDur = opts.SentencePause.Sample(rng)
			}
			gap := buildGap(ctx, backend, gapDur, sampleRate, roomTones, len(pieces))
			if phraseGap && len(breathClips) > 0 && rng.Float64() < opts.BreathProbability {
				breath := breathClips[rng.Intn(len(breathClips))]
				if joined, err := backend.Concatenate(ctx, []audio.Buffer{breath, gap}, breathCrossfadeMs); err == nil {
					gap = joined
				}
			}
			pieces = append(pieces, gap)
		}
	}

	out, err := backend.Concatenate(ctx, pieces, 0)
	if err != nil {
		return Result{}, err
	}

	// Global speed, then the pink noise bed.
	if opts.Speed > 0 && opts.Speed != 1 {
		if sped, err := backend.TimeStretch(ctx, out, 1.0/opts.Speed); err == nil {
			out = sped
		}
	}
	if opts.NoiseLevelDB != 0 {
		noise := audio.Buffer{
			Samples:    analysis.PinkNoise(out.Duration(), sampleRate, rng),
			SampleRate: sampleRate,
		}
		if mixed, err := backend.Mix(ctx, []audio.Buffer{out, noise}, []float64{0, opts.NoiseLevelDB}); err == nil {
			out = mixed
		}
	}

	res.Output = out
	return res, nil
}

// sliceSpan copies the span's samples out of a buffer without fades.
func sliceSpan(buf audio.Buffer, span analysis.Span) audio.Buffer {
	start := int(span.Start * float64(buf.SampleRate))
	end := int(span.End * float64(buf.SampleRate))
	if start < 0 {
		start = 0
	}
	if end > len(buf.Samples) {
		end = len(buf.Samples)
	}
	if end <= start {
		return audio.Buffer{SampleRate: buf.SampleRate}
	}
	out := make([]float64, end-start)
	copy(out, buf.Samples[start:end])
	return audio.Buffer{Samples: out, SampleRate: buf.SampleRate}
}

// wordBounds collapses a syllable list to sorted word time spans.
func wordBounds(syls []syllable.Syllable) []analysis.Span {
	type key struct {
		word string
		idx  int
	}
	spans := map[key]analysis.Span{}
	for _, s := range syls {
		k := key{s.Word, s.WordIndex}
		if cur, ok := spans[k]; ok {
			if s.Start < cur.Start {
				cur.Start = s.Start
			}
			if s.End > cur.End {
				cur.End = s.End
			}
			spans[k] = cur
		} else {
			spans[k] = analysis.Span{Start: s.Start, End: s.End}
		}
	}
	out := make([]analysis.Span, 0, len(spans))
	for _, span := range spans {
		out = append(out, span)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// findSource locates the source a syllable was cut from by matching its
// word and time span.
func findSource(sources []Source, syl syllable.Syllable) (Source, bool) {
	for _, src := range sources {
		for _, s := range src.Syllables {
			if s.Word == syl.Word && s.WordIndex == syl.WordIndex &&
				s.Start == syl.Start && s.End == syl.End {
				return src, true
			}
		}
	}
	return Source{}, false
}

// dominantSource returns the source contributing the most syllables.
func dominantSource(sources []Source, syls []syllable.Syllable) string {
	counts := map[string]int{}
	for _, syl := range syls {
		if src, ok := findSource(sources, syl); ok {
			counts[src.Name]++
		}
	}
	best, bestCount := "unknown", 0
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}

// buildGap produces a pause buffer: silence, with room tone laid under it
// when any was found. Room tone sources rotate by gap index.
func buildGap(ctx context.Context, backend audio.Backend, durationS float64, sampleRate int, roomTones []audio.Buffer, gapIndex int) audio.Buffer {
	gap := audio.Silence(durationS, sampleRate)
	if len(roomTones) == 0 {
		return gap
	}
	rt := roomTones[gapIndex%len(roomTones)]
	n := len(gap.Samples)
	if len(rt.Samples) < n {
		n = len(rt.Samples)
	}
	trimmed := audio.Buffer{Samples: rt.Samples[:n], SampleRate: sampleRate}
	mixed, err := backend.Mix(ctx, []audio.Buffer{gap, trimmed}, []float64{0, 0})
	if err != nil {
		return gap
	}
	return mixed
}

// applyDynamics shapes a phrase: a slight lift over the first fifth and a
// 3 dB tail-off after seventy percent. Short phrases pass through.
func applyDynamics(buf audio.Buffer) audio.Buffer {
	dur := buf.Duration()
	if dur <= 0.3 {
		return buf
	}
	out := buf.Clone()
	liftEnd := int(0.2 * float64(len(out.Samples)))
	fadeStart := int(0.7 * float64(len(out.Samples)))
	lift := math.Pow(10, 1.12/20)
	drop := math.Pow(10, -3.0/20)
	for i := range out.Samples {
		switch {
		case i < liftEnd:
			out.Samples[i] *= lift
		case i >= fadeStart:
			out.Samples[i] *= drop
		}
	}
	return out
}
