package phonetics

import (
	"math"
	"testing"
)

func TestPhonemeDistanceZeroIffIdentical(t *testing.T) {
	w := DefaultDistanceWeights()

	labels := []string{"P", "B", "T", "K", "S", "SH", "M", "L", "R",
		"IY", "IH", "EH", "AE", "AA", "AH", "UW", "ER"}
	for _, a := range labels {
		if d := PhonemeDistance(a, a, w); d != 0 {
			t.Errorf("distance(%s,%s) = %v, want 0", a, a, d)
		}
		for _, b := range labels {
			if a == b {
				continue
			}
			if d := PhonemeDistance(a, b, w); d <= 0 {
				t.Errorf("distance(%s,%s) = %v, want > 0", a, b, d)
			}
		}
	}
}

func TestPhonemeDistanceIgnoresStress(t *testing.T) {
	w := DefaultDistanceWeights()
	if d := PhonemeDistance("AH0", "AH1", w); d != 0 {
		t.Errorf("stress variants should be distance 0, got %v", d)
	}
	if d := PhonemeDistance("IY1", "IY", w); d != 0 {
		t.Errorf("stressed vs bare should be distance 0, got %v", d)
	}
}

func TestPhonemeDistanceSymmetric(t *testing.T) {
	w := DefaultDistanceWeights()
	pairs := [][2]string{{"T", "K"}, {"S", "Z"}, {"IY", "UW"}, {"AH", "AE"}, {"T", "AA"}}
	for _, p := range pairs {
		ab := PhonemeDistance(p[0], p[1], w)
		ba := PhonemeDistance(p[1], p[0], w)
		if ab != ba {
			t.Errorf("distance(%s,%s)=%v but distance(%s,%s)=%v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestPhonemeDistanceCrossClass(t *testing.T) {
	w := DefaultDistanceWeights()
	if d := PhonemeDistance("T", "AA1", w); d != w.CrossClassPenalty {
		t.Errorf("consonant-vowel distance %v, want penalty %v", d, w.CrossClassPenalty)
	}
	if d := PhonemeDistance("T", "XX", w); d != w.CrossClassPenalty {
		t.Errorf("unknown label distance %v, want penalty %v", d, w.CrossClassPenalty)
	}
}

func TestPhonemeDistanceGradation(t *testing.T) {
	w := DefaultDistanceWeights()
	// T and D differ only in voicing; T and K also differ in place, so
	// near phonemes must sort closer than far ones.
	td := PhonemeDistance("T", "D", w)
	tg := PhonemeDistance("T", "G", w)
	if td >= tg {
		t.Errorf("distance(T,D)=%v should be less than distance(T,G)=%v", td, tg)
	}
	// Tense/lax vowel pairs differ by one dimension.
	iyih := PhonemeDistance("IY", "IH", w)
	iyaa := PhonemeDistance("IY", "AA", w)
	if iyih >= iyaa {
		t.Errorf("distance(IY,IH)=%v should be less than distance(IY,AA)=%v", iyih, iyaa)
	}
	if math.Abs(iyih-1.0) > 1e-9 {
		t.Errorf("IY vs IH differ only in tenseness: got %v, want 1.0", iyih)
	}
}

func TestSyllableDistanceEqualLength(t *testing.T) {
	w := DefaultDistanceWeights()
	a := []string{"K", "AE1", "T"}
	b := []string{"K", "AE1", "T"}
	if d := SyllableDistance(a, b, w); d != 0 {
		t.Errorf("identical syllables: got %v, want 0", d)
	}

	c := []string{"B", "AE1", "T"}
	want := PhonemeDistance("K", "B", w)
	if d := SyllableDistance(a, c, w); math.Abs(d-want) > 1e-9 {
		t.Errorf("got %v, want %v", d, want)
	}
}

func TestSyllableDistanceNucleusAnchored(t *testing.T) {
	w := DefaultDistanceWeights()
	// "[S T AA1]" vs "[T AA1]": the onsets align from the nucleus
	// backward, so T matches T and the extra S pays the penalty.
	a := []string{"S", "T", "AA1"}
	b := []string{"T", "AA1"}
	want := w.CrossClassPenalty // only the unmatched S costs
	if d := SyllableDistance(a, b, w); math.Abs(d-want) > 1e-9 {
		t.Errorf("got %v, want %v", d, want)
	}

	// Codas align forward from the nucleus.
	c := []string{"AA1", "T", "S"}
	e := []string{"AA1", "T"}
	if d := SyllableDistance(c, e, w); math.Abs(d-w.CrossClassPenalty) > 1e-9 {
		t.Errorf("coda alignment: got %v, want %v", d, w.CrossClassPenalty)
	}
}

func TestSyllableDistanceSymmetric(t *testing.T) {
	w := DefaultDistanceWeights()
	a := []string{"S", "T", "R", "IY1", "T"}
	b := []string{"K", "AE1", "T"}
	if SyllableDistance(a, b, w) != SyllableDistance(b, a, w) {
		t.Error("syllable distance is not symmetric")
	}
}

func TestStripStressAndStressOf(t *testing.T) {
	if got := StripStress("AH0"); got != "AH" {
		t.Errorf("StripStress(AH0) = %q", got)
	}
	if got := StripStress("T"); got != "T" {
		t.Errorf("StripStress(T) = %q", got)
	}
	if got := StressOf("AE2"); got != 2 {
		t.Errorf("StressOf(AE2) = %d, want 2", got)
	}
	if got := StressOf("T"); got != StressNone {
		t.Errorf("StressOf(T) = %d, want StressNone", got)
	}
}

func TestSonorityOrdering(t *testing.T) {
	// Stops < fricatives < nasals < liquids < glides < vowels.
	chain := []string{"T", "S", "N", "L", "W", "AA1"}
	for i := 1; i < len(chain); i++ {
		if Sonority(chain[i-1]) >= Sonority(chain[i]) {
			t.Errorf("sonority(%s)=%d not below sonority(%s)=%d",
				chain[i-1], Sonority(chain[i-1]), chain[i], Sonority(chain[i]))
		}
	}
}

func TestIllegalOnset(t *testing.T) {
	if !IllegalOnset("NG") {
		t.Error("NG can never start a syllable")
	}
	if IllegalOnset("T") {
		t.Error("T is a legal onset")
	}
}

func TestIsVowel(t *testing.T) {
	for _, v := range []string{"AA1", "IY0", "ER2", "AH"} {
		if !IsVowel(v) {
			t.Errorf("IsVowel(%s) = false", v)
		}
	}
	for _, c := range []string{"T", "NG", "ZH"} {
		if IsVowel(c) {
			t.Errorf("IsVowel(%s) = true", c)
		}
	}
}
