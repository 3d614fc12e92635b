package syllable

import (
	"fmt"

	"github.com/RyanBlaney/sonido-collage/logging"
)

// AlignInput carries one word's material into an aligner. The proportional
// path uses Labels with the word's transcript span; the signal path uses
// Timed phonemes (real timestamps from a forced aligner) with their
// parallel group classifications.
type AlignInput struct {
	Word      string
	WordIndex int
	Start     float64 // word span start, seconds
	End       float64 // word span end, seconds

	Labels []string // ARPABET labels, proportional timing

	Timed  []Phoneme // signal-aligned phonemes with real timestamps
	Groups []string  // pg16 group per timed phoneme
}

// Availability is the typed result of probing an aligner at startup.
type Availability struct {
	Available bool
	Reason    string // empty when available
}

// Aligner turns one word's phoneme material into timed syllables.
// Implementations are selected once per run, not per word.
type Aligner interface {
	Name() string
	Probe() Availability
	AlignWord(in AlignInput) ([]Syllable, error)
}

// ProportionalAligner distributes the word's time span evenly across its
// phonemes: each phoneme gets (end-start)/count seconds, assigned in
// sequence. Real phoneme durations vary by class; the approximation is
// accepted because downstream processing treats syllables as atomic clips.
type ProportionalAligner struct {
	// AlaskaRule controls /S/-coda splitting after stressed lax vowels.
	AlaskaRule bool
}

// NewProportionalAligner creates the default aligner.
func NewProportionalAligner() *ProportionalAligner {
	return &ProportionalAligner{AlaskaRule: true}
}

func (a *ProportionalAligner) Name() string { return "proportional" }

func (a *ProportionalAligner) Probe() Availability {
	return Availability{Available: true}
}

// AlignWord syllabifies in.Labels and assigns proportional time spans.
// Syllable spans partition [in.Start, in.End) exactly: boundaries are
// computed as fractions of the full span rather than accumulated, so no
// rounding drift builds up across phonemes.
func (a *ProportionalAligner) AlignWord(in AlignInput) ([]Syllable, error) {
	if len(in.Labels) == 0 {
		return nil, fmt.Errorf("syllable: no phonemes for word %q", in.Word)
	}

	parts, err := Syllabify(in.Labels, a.AlaskaRule)
	if err != nil {
		return nil, err
	}

	total := len(in.Labels)
	span := in.End - in.Start
	boundary := func(i int) float64 {
		return in.Start + span*float64(i)/float64(total)
	}

	syllables := make([]Syllable, 0, len(parts))
	offset := 0
	for _, p := range parts {
		labels := p.Labels()
		phonemes := make([]Phoneme, len(labels))
		for j, label := range labels {
			phonemes[j] = Phoneme{
				Label: label,
				Start: boundary(offset + j),
				End:   boundary(offset + j + 1),
			}
		}
		syllables = append(syllables, Syllable{
			Phonemes:  phonemes,
			Start:     phonemes[0].Start,
			End:       phonemes[len(phonemes)-1].End,
			Word:      in.Word,
			WordIndex: in.WordIndex,
		})
		offset += len(labels)
	}

	return syllables, nil
}

// SignalAligner consumes per-phoneme timestamps produced by an external
// forced aligner and syllabifies them by sonority. It is only available
// when that collaborator is wired in.
type SignalAligner struct {
	// FeedConfigured reports whether a forced-aligner feed supplies Timed
	// phonemes for this run.
	FeedConfigured bool
}

func (a *SignalAligner) Name() string { return "signal" }

func (a *SignalAligner) Probe() Availability {
	if !a.FeedConfigured {
		return Availability{Available: false, Reason: "no forced-aligner feed configured"}
	}
	return Availability{Available: true}
}

// AlignWord builds syllables from the word's timed phonemes using the
// sonority-based boundary finder. Timestamps come straight from the feed.
func (a *SignalAligner) AlignWord(in AlignInput) ([]Syllable, error) {
	if len(in.Timed) == 0 {
		return nil, fmt.Errorf("syllable: no timed phonemes for word %q", in.Word)
	}
	if len(in.Timed) != len(in.Groups) {
		return nil, fmt.Errorf("syllable: %d timed phonemes but %d groups for word %q",
			len(in.Timed), len(in.Groups), in.Word)
	}
	return syllabifyTimed(in.Timed, in.Groups, in.Word, in.WordIndex)
}

// SelectAligner resolves an aligner by name. "auto" probes the signal
// aligner and falls back to proportional when it is unavailable, logging
// the decision; this is a startup choice, never a per-word retry.
func SelectAligner(name string, signal *SignalAligner) (Aligner, error) {
	switch name {
	case "proportional", "":
		return NewProportionalAligner(), nil
	case "signal":
		if signal == nil {
			signal = &SignalAligner{}
		}
		if avail := signal.Probe(); !avail.Available {
			return nil, fmt.Errorf("syllable: signal aligner unavailable: %s", avail.Reason)
		}
		return signal, nil
	case "auto":
		if signal != nil {
			if avail := signal.Probe(); avail.Available {
				logging.Info("auto-selected signal aligner")
				return signal, nil
			} else {
				logging.Info("signal aligner unavailable, falling back to proportional",
					logging.Fields{"reason": avail.Reason})
			}
		}
		return NewProportionalAligner(), nil
	default:
		return nil, fmt.Errorf("syllable: unknown aligner %q (have proportional, signal, auto)", name)
	}
}
