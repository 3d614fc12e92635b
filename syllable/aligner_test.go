package syllable

import (
	"math"
	"strings"
	"testing"
)

func TestProportionalAlignWord(t *testing.T) {
	a := NewProportionalAligner()
	syls, err := a.AlignWord(AlignInput{
		Word:      "banana",
		WordIndex: 3,
		Start:     1.0,
		End:       2.5,
		Labels:    strings.Fields("B AH0 N AE1 N AH0"),
	})
	if err != nil {
		t.Fatalf("AlignWord: %v", err)
	}
	if len(syls) != 3 {
		t.Fatalf("got %d syllables, want 3", len(syls))
	}

	// Spans must partition the word exactly, with no gaps between
	// consecutive syllables.
	if syls[0].Start != 1.0 {
		t.Errorf("first start = %v, want 1.0", syls[0].Start)
	}
	if syls[len(syls)-1].End != 2.5 {
		t.Errorf("last end = %v, want 2.5", syls[len(syls)-1].End)
	}
	for i := 1; i < len(syls); i++ {
		if syls[i].Start != syls[i-1].End {
			t.Errorf("gap between syllable %d and %d: %v != %v",
				i-1, i, syls[i-1].End, syls[i].Start)
		}
	}

	// Six phonemes over 1.5s gives 0.25s each; the first syllable has
	// two phonemes.
	if got := syls[0].Duration(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("first syllable duration = %v, want 0.5", got)
	}
	if syls[0].WordIndex != 3 || syls[0].Word != "banana" {
		t.Errorf("word metadata not carried: %+v", syls[0])
	}
}

func TestProportionalAlignWordEmpty(t *testing.T) {
	a := NewProportionalAligner()
	if _, err := a.AlignWord(AlignInput{Word: "x"}); err == nil {
		t.Error("expected error for empty labels")
	}
}

func TestSignalAlignWord(t *testing.T) {
	a := &SignalAligner{FeedConfigured: true}
	// "hello" as timed IPA phonemes: h ə l oʊ with a boundary at the
	// sonority minimum (the lateral) between the two vowels.
	in := AlignInput{
		Word: "hello",
		Timed: []Phoneme{
			{Label: "h", Start: 0.00, End: 0.05},
			{Label: "ə", Start: 0.05, End: 0.12},
			{Label: "l", Start: 0.12, End: 0.18},
			{Label: "oʊ", Start: 0.18, End: 0.35},
		},
		Groups: []string{"voiceless_fricatives", "central_vowels", "laterals", "diphthongs"},
	}
	syls, err := a.AlignWord(in)
	if err != nil {
		t.Fatalf("AlignWord: %v", err)
	}
	if len(syls) != 2 {
		t.Fatalf("got %d syllables, want 2", len(syls))
	}
	if len(syls[0].Phonemes) != 2 || syls[0].Phonemes[1].Label != "ə" {
		t.Errorf("first syllable = %v", syls[0].Labels())
	}
	if syls[1].Phonemes[0].Label != "l" {
		t.Errorf("second syllable starts with %q, want l", syls[1].Phonemes[0].Label)
	}
	if syls[1].Start != 0.12 || syls[1].End != 0.35 {
		t.Errorf("second syllable span = [%v, %v], want [0.12, 0.35]",
			syls[1].Start, syls[1].End)
	}
}

func TestSignalAlignWordDropsSilence(t *testing.T) {
	a := &SignalAligner{FeedConfigured: true}
	in := AlignInput{
		Word: "a",
		Timed: []Phoneme{
			{Label: "", Start: 0.0, End: 0.1},
			{Label: "ə", Start: 0.1, End: 0.2},
		},
		Groups: []string{"silence", "central_vowels"},
	}
	syls, err := a.AlignWord(in)
	if err != nil {
		t.Fatalf("AlignWord: %v", err)
	}
	if len(syls) != 1 || len(syls[0].Phonemes) != 1 {
		t.Fatalf("silence not dropped: %+v", syls)
	}
	if syls[0].Start != 0.1 {
		t.Errorf("start = %v, want 0.1", syls[0].Start)
	}
}

func TestSelectAligner(t *testing.T) {
	if a, err := SelectAligner("proportional", nil); err != nil || a.Name() != "proportional" {
		t.Errorf("proportional: %v, %v", a, err)
	}
	if _, err := SelectAligner("signal", &SignalAligner{}); err == nil {
		t.Error("signal without feed should be unavailable")
	}
	if a, err := SelectAligner("auto", &SignalAligner{}); err != nil || a.Name() != "proportional" {
		t.Errorf("auto should fall back to proportional, got %v, %v", a, err)
	}
	if a, err := SelectAligner("auto", &SignalAligner{FeedConfigured: true}); err != nil || a.Name() != "signal" {
		t.Errorf("auto with feed should pick signal, got %v, %v", a, err)
	}
	if _, err := SelectAligner("bogus", nil); err == nil {
		t.Error("unknown aligner name should error")
	}
}
