package collage

import (
	"context"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/RyanBlaney/sonido-collage/audio"
	"github.com/RyanBlaney/sonido-collage/syllable"
)

func makeSyllable(word string, wordIndex int, start, end float64, labels ...string) syllable.Syllable {
	phs := make([]syllable.Phoneme, len(labels))
	span := (end - start) / float64(len(labels))
	for i, l := range labels {
		phs[i] = syllable.Phoneme{
			Label: l,
			Start: start + float64(i)*span,
			End:   start + float64(i+1)*span,
		}
	}
	return syllable.Syllable{Phonemes: phs, Start: start, End: end, Word: word, WordIndex: wordIndex}
}

func sineBuffer(freq float64, durationS float64, sampleRate int, amp float64) audio.Buffer {
	n := int(durationS * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return audio.Buffer{Samples: samples, SampleRate: sampleRate}
}

func TestSampleSyllablesDurationBound(t *testing.T) {
	var syls []syllable.Syllable
	for i := 0; i < 20; i++ {
		start := float64(i) * 0.5
		syls = append(syls, makeSyllable("w", i, start, start+0.3, "T", "AH0"))
	}

	rng := rand.New(rand.NewSource(1))
	selected := SampleSyllables(syls, 1.5, rng)
	if len(selected) == 0 {
		t.Fatal("expected a non-empty sample")
	}
	total := 0.0
	for _, s := range selected {
		total += s.Duration()
	}
	// One syllable may overshoot the target, never two.
	if total > 1.5+0.3 {
		t.Errorf("sampled %.2fs, want at most %.2fs", total, 1.8)
	}
}

func TestSampleSyllablesDeterministic(t *testing.T) {
	var syls []syllable.Syllable
	for i := 0; i < 10; i++ {
		start := float64(i)
		syls = append(syls, makeSyllable("w", i, start, start+0.2, "T", "AH0"))
	}

	a := SampleSyllables(syls, 1.0, rand.New(rand.NewSource(7)))
	b := SampleSyllables(syls, 1.0, rand.New(rand.NewSource(7)))
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different samples")
	}
}

func TestSampleMultiSourceUsesAllSources(t *testing.T) {
	sources := map[string][]syllable.Syllable{}
	for _, name := range []string{"alpha", "beta", "gamma"} {
		var syls []syllable.Syllable
		for i := 0; i < 10; i++ {
			start := float64(i)
			syls = append(syls, makeSyllable(name, i, start, start+0.2, "T", "AH0"))
		}
		sources[name] = syls
	}

	rng := rand.New(rand.NewSource(3))
	selected := SampleMultiSource(sources, 3.0, rng)
	seen := map[string]bool{}
	for _, s := range selected {
		seen[s.Word] = true
	}
	for name := range sources {
		if !seen[name] {
			t.Errorf("source %s contributed no syllables", name)
		}
	}
}

func TestWeightedWordLength(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	if got := WeightedWordLength(Range{2, 2}, rng); got != 2 {
		t.Errorf("degenerate range: got %d, want 2", got)
	}
	counts := map[int]int{}
	for i := 0; i < 1000; i++ {
		n := WeightedWordLength(Range{1, 4}, rng)
		if n < 1 || n > 4 {
			t.Fatalf("length %d out of range", n)
		}
		counts[n]++
	}
	// Two-syllable words carry the largest weight.
	if counts[2] <= counts[4] {
		t.Errorf("expected 2-syllable words to dominate 4-syllable: %v", counts)
	}
}

func TestGroupWordsPreservesSyllables(t *testing.T) {
	var syls []syllable.Syllable
	for i := 0; i < 13; i++ {
		start := float64(i)
		syls = append(syls, makeSyllable("w", i, start, start+0.2, "T", "AH0"))
	}

	words := GroupWords(syls, Range{1, 4}, rand.New(rand.NewSource(2)))
	total := 0
	for _, w := range words {
		if len(w) == 0 {
			t.Fatal("empty word")
		}
		total += len(w)
	}
	if total != len(syls) {
		t.Errorf("grouped %d syllables, want %d", total, len(syls))
	}
}

func TestGroupPhrasesPartition(t *testing.T) {
	words := make([][]syllable.Syllable, 11)
	for i := range words {
		words[i] = []syllable.Syllable{makeSyllable("w", i, float64(i), float64(i)+0.2, "T", "AH0")}
	}
	phrases := GroupPhrases(words, Range{3, 5}, rand.New(rand.NewSource(4)))
	total := 0
	for _, p := range phrases {
		total += len(p)
	}
	if total != len(words) {
		t.Errorf("phrases cover %d words, want %d", total, len(words))
	}
}

func TestGroupSentencesPartition(t *testing.T) {
	phrases := make([][][]syllable.Syllable, 7)
	for i := range phrases {
		phrases[i] = [][]syllable.Syllable{{makeSyllable("w", i, float64(i), float64(i)+0.2, "T", "AH0")}}
	}
	sentences := GroupSentences(phrases, Range{2, 3}, rand.New(rand.NewSource(6)))
	total := 0
	for _, s := range sentences {
		if len(s) == 0 {
			t.Fatal("empty sentence")
		}
		total += len(s)
	}
	if total != len(phrases) {
		t.Errorf("sentences cover %d phrases, want %d", total, len(phrases))
	}
}

func TestApplyStutter(t *testing.T) {
	indices := []int{0, 1, 2}
	rng := rand.New(rand.NewSource(1))

	out := ApplyStutter(indices, 1.0, Range{2, 2}, rng)
	if len(out) != 9 {
		t.Fatalf("got %d indices, want 9", len(out))
	}
	want := []int{0, 0, 0, 1, 1, 1, 2, 2, 2}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}

	if out := ApplyStutter(indices, 0, Range{1, 2}, rng); !reflect.DeepEqual(out, indices) {
		t.Errorf("zero probability changed the sequence: %v", out)
	}
}

func TestShouldStretchSyllableModes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	alternating := StretchConfig{AlternatingInterval: 2, Factor: FloatRange{2, 2}}
	if !alternating.ShouldStretchSyllable(0, 0, 4, rng) {
		t.Error("alternating mode missed index 0")
	}
	if alternating.ShouldStretchSyllable(1, 1, 4, rng) {
		t.Error("alternating mode selected index 1")
	}
	if !alternating.ShouldStretchSyllable(2, 2, 4, rng) {
		t.Error("alternating mode missed index 2")
	}

	boundary := StretchConfig{BoundaryCount: 1, Factor: FloatRange{2, 2}}
	if !boundary.ShouldStretchSyllable(0, 0, 3, rng) {
		t.Error("boundary mode missed word-initial syllable")
	}
	if boundary.ShouldStretchSyllable(1, 1, 3, rng) {
		t.Error("boundary mode selected word-medial syllable")
	}
	if !boundary.ShouldStretchSyllable(2, 2, 3, rng) {
		t.Error("boundary mode missed word-final syllable")
	}

	if got := alternating.ResolveStretchFactor(rng); got != 2.0 {
		t.Errorf("pinned factor: got %v, want 2.0", got)
	}
}

func TestPlanPitchShifts(t *testing.T) {
	clips := []audio.Buffer{
		sineBuffer(220, 0.5, 16000, 0.5),
		sineBuffer(311, 0.5, 16000, 0.5),
	}
	shifts := PlanPitchShifts(clips, 5)
	if shifts[0] != 0 {
		t.Errorf("median-pitch clip shifted by %v, want 0", shifts[0])
	}
	// 311 Hz is ~6 semitones above 220; the plan clamps to the range.
	if math.Abs(shifts[1]+5) > 1e-9 {
		t.Errorf("got shift %v, want -5 (clamped)", shifts[1])
	}
}

func TestPlanGains(t *testing.T) {
	clips := []audio.Buffer{
		sineBuffer(220, 0.2, 16000, 0.1),
		sineBuffer(220, 0.2, 16000, 0.4),
	}
	gains := PlanGains(clips)
	if gains[0] != 0 {
		t.Errorf("median-level clip adjusted by %v dB, want 0", gains[0])
	}
	want := 20 * math.Log10(0.25)
	if math.Abs(gains[1]-want) > 0.2 {
		t.Errorf("got gain %v dB, want about %v", gains[1], want)
	}
}

func TestProcessEndToEnd(t *testing.T) {
	sampleRate := 16000
	src := Source{
		Name:  "take1",
		Audio: sineBuffer(220, 8.0, sampleRate, 0.4),
	}
	for i := 0; i < 12; i++ {
		start := 0.2 + float64(i)*0.6
		src.Syllables = append(src.Syllables,
			makeSyllable("word", i, start, start+0.25, "T", "AH0"))
	}

	opts := Defaults()
	opts.TargetDuration = 2.0
	opts.NoiseLevelDB = -40

	backend := audio.NewPCMBackend()
	res, err := Process(context.Background(), backend, []Source{src}, opts, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Output.Samples) == 0 {
		t.Fatal("empty output")
	}
	if res.Output.SampleRate != sampleRate {
		t.Errorf("output sample rate %d, want %d", res.Output.SampleRate, sampleRate)
	}
	if len(res.Words) == 0 || res.Phrases == 0 || res.Sentences == 0 {
		t.Errorf("missing structure: %d words, %d phrases, %d sentences",
			len(res.Words), res.Phrases, res.Sentences)
	}
	for _, w := range res.Words {
		if w.Source != "take1" {
			t.Errorf("word attributed to %q, want take1", w.Source)
		}
	}
}

func TestProcessDeterministic(t *testing.T) {
	sampleRate := 16000
	src := Source{Name: "s", Audio: sineBuffer(200, 6.0, sampleRate, 0.3)}
	for i := 0; i < 8; i++ {
		start := 0.1 + float64(i)*0.7
		src.Syllables = append(src.Syllables,
			makeSyllable("w", i, start, start+0.3, "K", "AE1", "T"))
	}
	opts := Defaults()
	opts.TargetDuration = 1.5

	backend := audio.NewPCMBackend()
	run := func(seed int64) audio.Buffer {
		res, err := Process(context.Background(), backend, []Source{src}, opts, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
		return res.Output
	}

	a, b := run(9), run(9)
	if !reflect.DeepEqual(a.Samples, b.Samples) {
		t.Error("same seed produced different audio")
	}
}

func TestProcessNoSources(t *testing.T) {
	backend := audio.NewPCMBackend()
	if _, err := Process(context.Background(), backend, nil, Defaults(), rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for empty source list")
	}
}
