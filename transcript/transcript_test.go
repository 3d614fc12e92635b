package transcript

import (
	"errors"
	"strings"
	"testing"

	"github.com/RyanBlaney/sonido-collage/g2p"
	"github.com/RyanBlaney/sonido-collage/syllable"
)

func TestLoad(t *testing.T) {
	in := `[
		{"text": "hello", "start": 0.1, "end": 0.5},
		{"text": "world", "start": 0.6, "end": 1.0}
	]`
	words, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(words) != 2 || words[1].Text != "world" {
		t.Errorf("words = %+v", words)
	}
}

func TestLoadRejectsOverlap(t *testing.T) {
	in := `[
		{"text": "a", "start": 0.0, "end": 0.5},
		{"text": "b", "start": 0.4, "end": 0.9}
	]`
	_, err := Load(strings.NewReader(in))
	if !errors.Is(err, ErrNotChronological) {
		t.Errorf("got %v, want ErrNotChronological", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		words []Word
		ok    bool
	}{
		{"empty", nil, true},
		{"ordered with gap", []Word{{"a", 0, 1}, {"b", 1.5, 2}}, true},
		{"touching", []Word{{"a", 0, 1}, {"b", 1, 2}}, true},
		{"inverted span", []Word{{"a", 1, 0.5}}, false},
		{"overlap", []Word{{"a", 0, 1}, {"b", 0.9, 2}}, false},
	}
	for _, tt := range tests {
		err := Validate(tt.words)
		if (err == nil) != tt.ok {
			t.Errorf("%s: err = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestSyllabize(t *testing.T) {
	dict := g2p.NewDictionary()
	dict.Add("hello", []string{"HH", "AH0", "L", "OW1"})
	dict.Add("cat", []string{"K", "AE1", "T"})
	conv := g2p.NewConverter(dict)
	aligner := syllable.NewProportionalAligner()

	words := []Word{
		{Text: "hello", Start: 0, End: 0.5},
		{Text: "123", Start: 0.6, End: 0.8}, // no letters, skipped
		{Text: "cat", Start: 0.9, End: 1.2},
	}
	stream := Syllabize(words, conv, aligner)

	if stream.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", stream.Skipped)
	}
	if len(stream.Words) != 2 {
		t.Fatalf("words = %d, want 2", len(stream.Words))
	}
	if len(stream.Syllables) != 3 {
		t.Errorf("syllables = %d, want 3", len(stream.Syllables))
	}
	// Word index is the transcript position, not the surviving-word
	// position.
	last := stream.Syllables[len(stream.Syllables)-1]
	if last.WordIndex != 2 || last.Word != "cat" {
		t.Errorf("last syllable metadata = %q/%d, want cat/2", last.Word, last.WordIndex)
	}
}
