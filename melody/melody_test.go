package melody

import (
	"context"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/RyanBlaney/sonido-collage/audio"
)

func sineClip(freq, durationS float64, sampleRate int) audio.Buffer {
	n := int(durationS * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.4 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return audio.Buffer{Samples: samples, SampleRate: sampleRate}
}

func TestClassifyDuration(t *testing.T) {
	cases := []struct {
		d    float64
		want DurationClass
	}{
		{0.05, DurationShort},
		{0.19, DurationShort},
		{0.2, DurationMedium},
		{0.99, DurationMedium},
		{1.0, DurationLong},
		{3.5, DurationLong},
	}
	for _, tc := range cases {
		if got := ClassifyDuration(tc.d); got != tc.want {
			t.Errorf("ClassifyDuration(%v) = %v, want %v", tc.d, got, tc.want)
		}
	}
}

func TestNoteHz(t *testing.T) {
	if got := NoteHz(69); math.Abs(got-440) > 1e-9 {
		t.Errorf("A4: got %v, want 440", got)
	}
	if got := NoteHz(60); math.Abs(got-261.6255653) > 1e-4 {
		t.Errorf("C4: got %v, want 261.6256", got)
	}
	if got := NoteHz(81); math.Abs(got-880) > 1e-9 {
		t.Errorf("A5: got %v, want 880", got)
	}
}

func TestTargetShift(t *testing.T) {
	// 220 Hz source onto A4 (440 Hz) is exactly one octave up.
	if got := TargetShift(69, 220, 0); math.Abs(got-12) > 1e-9 {
		t.Errorf("got %v, want 12", got)
	}
	if got := TargetShift(69, 440, 1.5); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("drift not additive: got %v, want 1.5", got)
	}
}

func TestPlanMappingCyclesPool(t *testing.T) {
	notes := []Note{
		{Pitch: 60, Start: 0, End: 0.1, Velocity: 90},
		{Pitch: 62, Start: 0.1, End: 0.2, Velocity: 90},
		{Pitch: 64, Start: 0.2, End: 0.3, Velocity: 90},
	}
	// Short notes take exactly one syllable each; a pool of two cycles.
	mappings := PlanMapping(notes, 2, DefaultDriftRange, 0, rand.New(rand.NewSource(1)))
	if len(mappings) != 3 {
		t.Fatalf("got %d mappings, want 3", len(mappings))
	}
	wantIdx := []int{0, 1, 0}
	for i, m := range mappings {
		if len(m.SyllableIndices) != 1 || m.SyllableIndices[0] != wantIdx[i] {
			t.Errorf("note %d indices %v, want [%d]", i, m.SyllableIndices, wantIdx[i])
		}
		if m.Class != DurationShort {
			t.Errorf("note %d class %v, want short", i, m.Class)
		}
	}
}

func TestPlanMappingDriftClamped(t *testing.T) {
	notes := make([]Note, 200)
	for i := range notes {
		notes[i] = Note{Pitch: 60, Start: float64(i), End: float64(i) + 0.5, Velocity: 80}
	}
	mappings := PlanMapping(notes, 10, 2.0, 0.3, rand.New(rand.NewSource(2)))
	for i, m := range mappings {
		if math.Abs(m.DriftSemitones) > 2.0 {
			t.Errorf("note %d drift %v exceeds range", i, m.DriftSemitones)
		}
	}
}

func TestPlanMappingEffectFlags(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	long := PlanMapping([]Note{{Pitch: 60, Start: 0, End: 1.5, Velocity: 80}}, 4, 2.0, 0, rng)
	if !long[0].Vibrato {
		t.Error("held note should get vibrato")
	}
	if !long[0].Chorus {
		t.Error("sustained note should get chorus")
	}
	short := PlanMapping([]Note{{Pitch: 60, Start: 0, End: 0.1, Velocity: 80}}, 4, 2.0, 0, rng)
	if short[0].Vibrato {
		t.Error("short note should not get vibrato")
	}
}

func TestPlanMappingDeterministic(t *testing.T) {
	notes := []Note{
		{Pitch: 60, Start: 0, End: 0.5, Velocity: 80},
		{Pitch: 64, Start: 0.5, End: 2.0, Velocity: 80},
	}
	a := PlanMapping(notes, 5, 2.0, 0.3, rand.New(rand.NewSource(7)))
	b := PlanMapping(notes, 5, 2.0, 0.3, rand.New(rand.NewSource(7)))
	for i := range a {
		if a[i].DriftSemitones != b[i].DriftSemitones || a[i].Chorus != b[i].Chorus {
			t.Fatalf("note %d differs across identical seeds", i)
		}
	}
}

func TestSplitDurations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	durs := splitDurations(1.0, 3, rng)
	total := 0.0
	for _, d := range durs {
		if d < minSyllableDur {
			t.Errorf("duration %v below floor", d)
		}
		total += d
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("durations sum to %v, want 1.0", total)
	}
}

func TestApplyVibratoPreservesLength(t *testing.T) {
	in := sineClip(220, 0.5, 16000)
	out := applyVibrato(in, 5.5, 50)
	if len(out.Samples) != len(in.Samples) {
		t.Errorf("length changed: %d -> %d", len(in.Samples), len(out.Samples))
	}
	// The modulated signal must differ from the input.
	same := true
	for i := range out.Samples {
		if out.Samples[i] != in.Samples[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("vibrato left the signal unchanged")
	}
}

func TestRenderNoteFitsDuration(t *testing.T) {
	backend := audio.NewPCMBackend()
	pool := []Clip{{Buffer: sineClip(220, 0.4, 16000), F0: 220}}
	m := Mapping{
		Note:            Note{Pitch: 69, Start: 0, End: 0.5, Velocity: 90},
		SyllableIndices: []int{0},
		Class:           DurationMedium,
	}

	r := NewRenderer(backend, 220, 7)
	out, err := r.RenderNote(context.Background(), m, pool, 0)
	if err != nil {
		t.Fatalf("RenderNote: %v", err)
	}
	if math.Abs(out.Duration()-0.5) > 0.1 {
		t.Errorf("rendered %v s, want about 0.5", out.Duration())
	}
}

func TestRenderNoteSeedVariation(t *testing.T) {
	backend := audio.NewPCMBackend()
	pool := []Clip{{Buffer: sineClip(220, 0.4, 16000), F0: 220}}
	m := Mapping{
		Note:            Note{Pitch: 69, Start: 0, End: 1.0, Velocity: 90},
		SyllableIndices: []int{0, 0},
		Class:           DurationLong,
	}

	render := func(seed int64) audio.Buffer {
		out, err := NewRenderer(backend, 220, seed).RenderNote(context.Background(), m, pool, 0)
		if err != nil {
			t.Fatalf("RenderNote(seed %d): %v", seed, err)
		}
		return out
	}

	first := render(1)
	if second := render(1); !reflect.DeepEqual(first.Samples, second.Samples) {
		t.Error("same seed rendered different audio")
	}
	other := render(2)
	if reflect.DeepEqual(first.Samples, other.Samples) {
		t.Error("different seeds rendered identical rhythmic splits")
	}
}

func TestRenderTrackTimeline(t *testing.T) {
	backend := audio.NewPCMBackend()
	pool := []Clip{
		{Buffer: sineClip(200, 0.3, 16000), F0: 200},
		{Buffer: sineClip(250, 0.3, 16000), F0: 250},
	}
	notes := []Note{
		{Pitch: 60, Start: 0, End: 0.3, Velocity: 80},
		{Pitch: 64, Start: 0.8, End: 1.1, Velocity: 80}, // 0.5s gap
	}
	mappings := PlanMapping(notes, len(pool), 2.0, 0, rand.New(rand.NewSource(4)))

	r := NewRenderer(backend, 225, 7)
	out, err := r.RenderTrack(context.Background(), mappings, pool)
	if err != nil {
		t.Fatalf("RenderTrack: %v", err)
	}
	// Two ~0.3s notes plus a 0.5s gap, less crossfade overlap.
	if out.Duration() < 0.8 || out.Duration() > 1.5 {
		t.Errorf("track duration %v out of expected range", out.Duration())
	}
}

func TestMixBacking(t *testing.T) {
	backend := audio.NewPCMBackend()
	vocal := sineClip(220, 0.5, 16000)
	backing := sineClip(110, 1.0, 16000)

	out, err := MixBacking(context.Background(), backend, vocal, backing, 0, -12)
	if err != nil {
		t.Fatalf("MixBacking: %v", err)
	}
	if math.Abs(out.Duration()-1.0) > 1e-3 {
		t.Errorf("mix duration %v, want the longer input (1.0)", out.Duration())
	}
}
