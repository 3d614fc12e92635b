// Package collage builds nonsense speech from a pool of source
// syllables: syllables are sampled, regrouped into fake words, phrases,
// and sentences, polished (pitch/volume normalization, stutter, stretch),
// and joined with room-tone gaps and breaths into one output buffer.
package collage

import "math/rand"

// Range is an inclusive integer range for group sizes.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Sample draws a uniform value from the range.
func (r Range) Sample(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// FloatRange is an inclusive range for durations and factors.
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Sample draws a uniform value from the range.
func (f FloatRange) Sample(rng *rand.Rand) float64 {
	if f.Max <= f.Min {
		return f.Min
	}
	return f.Min + rng.Float64()*(f.Max-f.Min)
}

// StutterConfig repeats individual syllables within words.
type StutterConfig struct {
	Probability float64 `json:"probability"`
	Count       Range   `json:"count"`
}

// RepeatConfig repeats whole words.
type RepeatConfig struct {
	Probability float64 `json:"probability"`
	Count       Range   `json:"count"`
}

// Options shapes one collage run. Zero values fall back to Defaults.
type Options struct {
	// TargetDuration is the approximate pre-gap output length in seconds.
	TargetDuration float64 `json:"target_duration"`

	SyllablesPerWord   Range `json:"syllables_per_word"`
	WordsPerPhrase     Range `json:"words_per_phrase"`
	PhrasesPerSentence Range `json:"phrases_per_sentence"`

	// Pause ranges in seconds.
	PhrasePause   FloatRange `json:"phrase_pause"`
	SentencePause FloatRange `json:"sentence_pause"`

	SyllableCrossfadeMs int `json:"syllable_crossfade_ms"`
	WordCrossfadeMs     int `json:"word_crossfade_ms"`

	PitchNormalize  bool    `json:"pitch_normalize"`
	PitchRange      float64 `json:"pitch_range"` // semitone clamp
	VolumeNormalize bool    `json:"volume_normalize"`

	// ProsodicDynamics lifts phrase onsets slightly and softens tails.
	ProsodicDynamics bool `json:"prosodic_dynamics"`

	// RoomTone mixes detected source room tone into gaps; breaths are
	// occasionally prepended to phrase gaps.
	RoomTone          bool    `json:"room_tone"`
	BreathProbability float64 `json:"breath_probability"`

	// NoiseLevelDB mixes a pink noise bed under the output; 0 disables.
	NoiseLevelDB float64 `json:"noise_level_db"`

	// Speed rescales the whole output; 0.5 plays at half speed. 0
	// disables.
	Speed float64 `json:"speed"`

	Stretch *StretchConfig `json:"stretch,omitempty"`
	Stutter *StutterConfig `json:"stutter,omitempty"`
	Repeat  *RepeatConfig  `json:"repeat,omitempty"`
}

// Defaults mirrors the standard collage shape: ten seconds of material,
// two-to-three-phrase sentences, breathy phrase gaps, light noise bed.
func Defaults() Options {
	return Options{
		TargetDuration:      10.0,
		SyllablesPerWord:    Range{1, 4},
		WordsPerPhrase:      Range{3, 5},
		PhrasesPerSentence:  Range{2, 3},
		PhrasePause:         FloatRange{0.4, 0.7},
		SentencePause:       FloatRange{0.8, 1.2},
		SyllableCrossfadeMs: 30,
		WordCrossfadeMs:     50,
		PitchNormalize:      true,
		PitchRange:          5,
		VolumeNormalize:     true,
		ProsodicDynamics:    true,
		RoomTone:            true,
		BreathProbability:   0.6,
		NoiseLevelDB:        -40,
	}
}
