package syllable

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func pron(s string) []string {
	return strings.Fields(s)
}

func TestSyllabifyStreet(t *testing.T) {
	parts, err := Syllabify(pron("S T R IY1 T"), true)
	if err != nil {
		t.Fatalf("Syllabify: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("got %d syllables, want 1", len(parts))
	}
	if !reflect.DeepEqual(parts[0].Onset, pron("S T R")) {
		t.Errorf("onset = %v, want [S T R]", parts[0].Onset)
	}
	if !reflect.DeepEqual(parts[0].Coda, pron("T")) {
		t.Errorf("coda = %v, want [T]", parts[0].Coda)
	}
}

func TestSyllabifyExtra(t *testing.T) {
	// The T R cluster must land intact in the second syllable's onset.
	parts, err := Syllabify(pron("EH K S T R AH"), true)
	if err != nil {
		t.Fatalf("Syllabify: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("got %d syllables, want 2", len(parts))
	}
	onset := parts[1].Onset
	if len(onset) < 2 || onset[len(onset)-2] != "T" || onset[len(onset)-1] != "R" {
		t.Errorf("second onset = %v, want it to end in T R", onset)
	}
}

func TestSyllabifyAlaskaRule(t *testing.T) {
	// AH0 L AE1 S K AH0: with the rule on, S closes the stressed syllable.
	withRule, err := Syllabify(pron("AH0 L AE1 S K AH0"), true)
	if err != nil {
		t.Fatalf("Syllabify: %v", err)
	}
	if len(withRule) != 3 {
		t.Fatalf("got %d syllables, want 3", len(withRule))
	}
	if !reflect.DeepEqual(withRule[1].Coda, pron("S")) {
		t.Errorf("with rule: middle coda = %v, want [S]", withRule[1].Coda)
	}

	withoutRule, err := Syllabify(pron("AH0 L AE1 S K AH0"), false)
	if err != nil {
		t.Fatalf("Syllabify: %v", err)
	}
	if !reflect.DeepEqual(withoutRule[2].Onset, pron("S K")) {
		t.Errorf("without rule: final onset = %v, want [S K]", withoutRule[2].Onset)
	}
}

func TestSyllabifyRColoring(t *testing.T) {
	// ARPANET-style: a cluster-leading R joins the previous nucleus.
	parts, err := Syllabify(pron("P AA1 R T IY0"), true)
	if err != nil {
		t.Fatalf("Syllabify: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("got %d syllables, want 2", len(parts))
	}
	if !reflect.DeepEqual(parts[0].Nucleus, pron("AA1 R")) {
		t.Errorf("first nucleus = %v, want [AA1 R]", parts[0].Nucleus)
	}
}

func TestSyllabifyCounts(t *testing.T) {
	tests := []struct {
		pron string
		want int
	}{
		{"B AH0 N AE1 N AH0", 3},
		{"K AH0 N S T R AH1 K T", 2},
		{"K AE1 T", 1},
		{"HH AH0 L OW1", 2},
	}
	for _, tt := range tests {
		parts, err := Syllabify(pron(tt.pron), true)
		if err != nil {
			t.Errorf("%q: %v", tt.pron, err)
			continue
		}
		if len(parts) != tt.want {
			t.Errorf("%q: got %d syllables, want %d", tt.pron, len(parts), tt.want)
		}
	}
}

func TestSyllabifyPreservesSegments(t *testing.T) {
	inputs := []string{
		"EH1 K S T R AH0",
		"S T R EH1 NG K TH S",
		"AH0 L AE1 S K AH0",
		"M Y UW1 Z IH0 K",
	}
	for _, in := range inputs {
		parts, err := Syllabify(pron(in), true)
		if err != nil {
			t.Errorf("%q: %v", in, err)
			continue
		}
		var flat []string
		for _, p := range parts {
			flat = append(flat, p.Labels()...)
		}
		if !reflect.DeepEqual(flat, pron(in)) {
			t.Errorf("%q: flattened to %v", in, flat)
		}
	}
}

func TestSyllabifyNoVowel(t *testing.T) {
	_, err := Syllabify(pron("S T R"), true)
	if !errors.Is(err, ErrNoVowel) {
		t.Errorf("got %v, want ErrNoVowel", err)
	}
}

func TestSyllabifyEmpty(t *testing.T) {
	parts, err := Syllabify(nil, true)
	if err != nil {
		t.Fatalf("Syllabify(nil): %v", err)
	}
	if len(parts) != 0 {
		t.Errorf("got %d syllables, want 0", len(parts))
	}
}

func TestDestress(t *testing.T) {
	parts, err := Syllabify(pron("K AE1 M AH0 L"), true)
	if err != nil {
		t.Fatalf("Syllabify: %v", err)
	}
	for _, p := range Destress(parts) {
		for _, label := range p.Nucleus {
			last := label[len(label)-1]
			if last >= '0' && last <= '2' {
				t.Errorf("nucleus label %q still carries stress", label)
			}
		}
	}
}
