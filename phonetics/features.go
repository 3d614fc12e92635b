package phonetics

import "math"

// featureClass distinguishes consonant and vowel feature vectors.
type featureClass int

const (
	classConsonant featureClass = iota
	classVowel
)

// features is the articulatory feature vector for one phoneme. Consonants
// use place/manner/voicing; vowels use height/backness/rounding/tenseness.
// Each dimension is normalized to [0, 1] so the weights in DistanceWeights
// are directly comparable.
type features struct {
	class featureClass

	// consonant dimensions
	place   float64
	manner  float64
	voicing float64

	// vowel dimensions
	height    float64
	backness  float64
	rounding  float64
	tenseness float64
}

// Place of articulation positions, front to back.
const (
	placeBilabial     = 0.0 / 7
	placeLabiodental  = 1.0 / 7
	placeDental       = 2.0 / 7
	placeAlveolar     = 3.0 / 7
	placePostalveolar = 4.0 / 7
	placePalatal      = 5.0 / 7
	placeVelar        = 6.0 / 7
	placeGlottal      = 7.0 / 7
)

// Manner of articulation, least to most sonorous.
const (
	mannerStop      = 0.0 / 5
	mannerAffricate = 1.0 / 5
	mannerFricative = 2.0 / 5
	mannerNasal     = 3.0 / 5
	mannerLiquid    = 4.0 / 5
	mannerGlide     = 5.0 / 5
)

// Vowel dimensions.
const (
	heightHigh = 1.0
	heightMid  = 0.5
	heightLow  = 0.0

	backFront   = 0.0
	backCentral = 0.5
	backBack    = 1.0
)

func consonant(place, manner, voicing float64) features {
	return features{class: classConsonant, place: place, manner: manner, voicing: voicing}
}

func vowel(height, backness, rounding, tenseness float64) features {
	return features{class: classVowel, height: height, backness: backness, rounding: rounding, tenseness: tenseness}
}

// featureTable maps stress-stripped ARPABET labels to feature vectors.
// The vowel entries are chosen so that no two labels share an identical
// vector; diphthongs are encoded by their dominant articulation.
var featureTable = map[string]features{
	// consonants
	"P":  consonant(placeBilabial, mannerStop, 0),
	"B":  consonant(placeBilabial, mannerStop, 1),
	"T":  consonant(placeAlveolar, mannerStop, 0),
	"D":  consonant(placeAlveolar, mannerStop, 1),
	"K":  consonant(placeVelar, mannerStop, 0),
	"G":  consonant(placeVelar, mannerStop, 1),
	"CH": consonant(placePostalveolar, mannerAffricate, 0),
	"JH": consonant(placePostalveolar, mannerAffricate, 1),
	"F":  consonant(placeLabiodental, mannerFricative, 0),
	"V":  consonant(placeLabiodental, mannerFricative, 1),
	"TH": consonant(placeDental, mannerFricative, 0),
	"DH": consonant(placeDental, mannerFricative, 1),
	"S":  consonant(placeAlveolar, mannerFricative, 0),
	"Z":  consonant(placeAlveolar, mannerFricative, 1),
	"SH": consonant(placePostalveolar, mannerFricative, 0),
	"ZH": consonant(placePostalveolar, mannerFricative, 1),
	"HH": consonant(placeGlottal, mannerFricative, 0),
	"M":  consonant(placeBilabial, mannerNasal, 1),
	"N":  consonant(placeAlveolar, mannerNasal, 1),
	"NG": consonant(placeVelar, mannerNasal, 1),
	"L":  consonant(placeAlveolar, mannerLiquid, 1),
	"R":  consonant(placePostalveolar, mannerLiquid, 1),
	"W":  consonant(placeBilabial, mannerGlide, 1),
	"Y":  consonant(placePalatal, mannerGlide, 1),

	// vowels
	"IY": vowel(heightHigh, backFront, 0, 1),
	"IH": vowel(heightHigh, backFront, 0, 0),
	"EY": vowel(heightMid, backFront, 0, 1),
	"EH": vowel(heightMid, backFront, 0, 0),
	"AE": vowel(heightLow, backFront, 0, 0),
	"AA": vowel(heightLow, backBack, 0, 1),
	"AH": vowel(heightMid, backCentral, 0, 0),
	"AO": vowel(heightLow, backBack, 1, 1),
	"OW": vowel(heightMid, backBack, 1, 1),
	"OY": vowel(heightMid, backBack, 1, 0),
	"UH": vowel(heightHigh, backBack, 1, 0),
	"UW": vowel(heightHigh, backBack, 1, 1),
	"AW": vowel(heightLow, backCentral, 1, 1),
	"AY": vowel(heightLow, backCentral, 0, 1),
	"ER": vowel(heightMid, backCentral, 1, 1),
}

// DistanceWeights configures the relative importance of each articulatory
// dimension in the phoneme distance. The exact weighting is deliberately
// configuration rather than a constant; DefaultDistanceWeights gives every
// dimension equal weight.
type DistanceWeights struct {
	Place     float64 `json:"place"`
	Manner    float64 `json:"manner"`
	Voicing   float64 `json:"voicing"`
	Height    float64 `json:"height"`
	Backness  float64 `json:"backness"`
	Rounding  float64 `json:"rounding"`
	Tenseness float64 `json:"tenseness"`

	// CrossClassPenalty is the fixed distance returned when comparing a
	// consonant to a vowel, or when a label is outside the inventory. It
	// also pads unmatched positions in syllable alignment.
	CrossClassPenalty float64 `json:"cross_class_penalty"`
}

// DefaultDistanceWeights returns unit weights with the cross-class penalty
// used by the matcher.
func DefaultDistanceWeights() DistanceWeights {
	return DistanceWeights{
		Place:             1.0,
		Manner:            1.0,
		Voicing:           1.0,
		Height:            1.0,
		Backness:          1.0,
		Rounding:          1.0,
		Tenseness:         1.0,
		CrossClassPenalty: 5.0,
	}
}

// PhonemeDistance computes the weighted Manhattan distance between two
// phoneme labels' articulatory feature vectors. Stress markers are
// ignored. Identical labels are distance 0; consonant-to-vowel and
// out-of-inventory comparisons return the fixed cross-class penalty. The
// function is pure and symmetric.
func PhonemeDistance(a, b string, w DistanceWeights) float64 {
	baseA := StripStress(a)
	baseB := StripStress(b)
	if baseA == baseB {
		return 0
	}

	fa, okA := featureTable[baseA]
	fb, okB := featureTable[baseB]
	if !okA || !okB || fa.class != fb.class {
		return w.CrossClassPenalty
	}

	if fa.class == classConsonant {
		return w.Place*math.Abs(fa.place-fb.place) +
			w.Manner*math.Abs(fa.manner-fb.manner) +
			w.Voicing*math.Abs(fa.voicing-fb.voicing)
	}
	return w.Height*math.Abs(fa.height-fb.height) +
		w.Backness*math.Abs(fa.backness-fb.backness) +
		w.Rounding*math.Abs(fa.rounding-fb.rounding) +
		w.Tenseness*math.Abs(fa.tenseness-fb.tenseness)
}

// SyllableDistance computes the distance between two syllables given as
// phoneme label sequences. Equal-length syllables align positionally.
// Unequal lengths align nucleus-to-nucleus: onsets align from their
// trailing end, codas from their leading end, and unmatched positions pay
// the cross-class penalty each.
func SyllableDistance(a, b []string, w DistanceWeights) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	if len(a) == len(b) {
		total := 0.0
		for i := range a {
			total += PhonemeDistance(a[i], b[i], w)
		}
		return total
	}

	nucA := nucleusIndex(a)
	nucB := nucleusIndex(b)
	if nucA < 0 || nucB < 0 {
		// No nucleus to anchor on; fall back to leading alignment.
		return paddedDistance(a, b, w)
	}

	total := PhonemeDistance(a[nucA], b[nucB], w)

	// Onsets: align right-to-left from the nucleus.
	onsetA, onsetB := nucA, nucB
	for i := 1; i <= max(onsetA, onsetB); i++ {
		ia, ib := nucA-i, nucB-i
		switch {
		case ia >= 0 && ib >= 0:
			total += PhonemeDistance(a[ia], b[ib], w)
		default:
			total += w.CrossClassPenalty
		}
	}

	// Codas: align left-to-right after the nucleus.
	codaA, codaB := len(a)-nucA-1, len(b)-nucB-1
	for i := 1; i <= max(codaA, codaB); i++ {
		ia, ib := nucA+i, nucB+i
		switch {
		case ia < len(a) && ib < len(b):
			total += PhonemeDistance(a[ia], b[ib], w)
		default:
			total += w.CrossClassPenalty
		}
	}

	return total
}

func paddedDistance(a, b []string, w DistanceWeights) float64 {
	total := 0.0
	n := max(len(a), len(b))
	for i := 0; i < n; i++ {
		if i < len(a) && i < len(b) {
			total += PhonemeDistance(a[i], b[i], w)
		} else {
			total += w.CrossClassPenalty
		}
	}
	return total
}

func nucleusIndex(labels []string) int {
	for i, l := range labels {
		if IsVowel(l) || IsIPAVowel(l) {
			return i
		}
	}
	return -1
}
