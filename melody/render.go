package melody

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/RyanBlaney/sonido-collage/audio"
	"github.com/RyanBlaney/sonido-collage/logging"
)

// ErrNoNotes is returned when nothing renders.
var ErrNoNotes = errors.New("melody: no notes rendered")

// Clip is one pooled syllable clip with its estimated pitch. F0 is zero
// for unvoiced clips; those still render, shifted from the pool median.
type Clip struct {
	Buffer audio.Buffer
	F0     float64
}

// Stretch ratio bounds for per-syllable time fitting.
const (
	minStretchRatio = 0.25
	maxStretchRatio = 4.0
)

const (
	minSyllableDur  = 0.05
	partCrossfadeMs = 20
	noteCrossfadeMs = 30
	minGapDuration  = 0.01
	vibratoMinDur   = 0.3
)

// Renderer turns note mappings into audio against a syllable pool.
type Renderer struct {
	backend  audio.Backend
	medianF0 float64
	maxShift float64
	seed     int64
}

// NewRenderer builds a renderer. medianF0 is the pool's median pitch
// after normalization; shifts are computed from it rather than per-clip
// so the whole pool sings from one reference. seed drives the rhythmic
// and chorus variation; the same seed rerenders a track bit-identically.
func NewRenderer(backend audio.Backend, medianF0 float64, seed int64) *Renderer {
	return &Renderer{backend: backend, medianF0: medianF0, maxShift: MaxShiftSemitones, seed: seed}
}

// RenderNote renders one mapping: its syllables are time-fitted into the
// note duration with a little rhythmic variation, pitch-shifted onto the
// note, and fused. The per-note variation is derived from the renderer
// seed and noteIndex so each note is independently reproducible.
func (r *Renderer) RenderNote(ctx context.Context, m Mapping, pool []Clip, noteIndex int) (audio.Buffer, error) {
	if len(m.SyllableIndices) == 0 || r.medianF0 <= 0 {
		return audio.Buffer{}, ErrNoNotes
	}
	rng := rand.New(rand.NewSource(r.seed ^ int64(noteIndex)))

	durations := splitDurations(m.Note.Duration(), len(m.SyllableIndices), rng)

	shift := TargetShift(m.Note.Pitch, r.medianF0, m.DriftSemitones)
	if shift > r.maxShift {
		shift = r.maxShift
	} else if shift < -r.maxShift {
		shift = -r.maxShift
	}

	var parts []audio.Buffer
	for i, idx := range m.SyllableIndices {
		clip := pool[idx]
		part, err := r.backend.PitchShift(ctx, clip.Buffer, shift)
		if err != nil {
			logging.Warn("note pitch shift failed", logging.Fields{"error": err.Error()})
			part = clip.Buffer
		}

		ratio := 1.0
		if durations[i] > 0 && clip.Buffer.Duration() > 0 {
			ratio = durations[i] / clip.Buffer.Duration()
		}
		if ratio < minStretchRatio {
			ratio = minStretchRatio
		} else if ratio > maxStretchRatio {
			ratio = maxStretchRatio
		}
		if stretched, err := r.backend.TimeStretch(ctx, part, ratio); err == nil {
			part = stretched
		}

		if m.Vibrato && durations[i] > vibratoMinDur {
			part = applyVibrato(part, 5.5, 50)
		}
		parts = append(parts, part)
	}

	out, err := r.backend.Concatenate(ctx, parts, partCrossfadeMs)
	if err != nil {
		return audio.Buffer{}, err
	}
	if m.Chorus {
		out = r.applyChorus(ctx, out, rng)
	}
	return out, nil
}

// RenderTrack renders all mappings and lays them out on the note
// timeline, with silence filling the gaps between notes.
func (r *Renderer) RenderTrack(ctx context.Context, mappings []Mapping, pool []Clip) (audio.Buffer, error) {
	type rendered struct {
		m   Mapping
		buf audio.Buffer
	}
	var notes []rendered
	for i, m := range mappings {
		buf, err := r.RenderNote(ctx, m, pool, i)
		if err != nil {
			logging.Debug("note render skipped", logging.Fields{"index": i})
			continue
		}
		notes = append(notes, rendered{m: m, buf: buf})
	}
	if len(notes) == 0 {
		return audio.Buffer{}, ErrNoNotes
	}

	sampleRate := notes[0].buf.SampleRate
	var pieces []audio.Buffer
	for i, n := range notes {
		if i > 0 {
			gap := n.m.Note.Start - notes[i-1].m.Note.End
			if gap > minGapDuration {
				pieces = append(pieces, audio.Silence(gap, sampleRate))
			}
		}
		pieces = append(pieces, n.buf)
	}
	return r.backend.Concatenate(ctx, pieces, noteCrossfadeMs)
}

// MixBacking lays the vocal over a backing buffer at the given levels.
// The usual levels put the backing 12 dB under the voice.
func MixBacking(ctx context.Context, backend audio.Backend, vocal, backing audio.Buffer, vocalDB, backingDB float64) (audio.Buffer, error) {
	return backend.Mix(ctx, []audio.Buffer{vocal, backing}, []float64{vocalDB, backingDB})
}

// splitDurations divides a note duration across n syllables with ±20%
// variation per syllable; the last syllable absorbs the remainder.
func splitDurations(total float64, n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	per := total / float64(n)
	remaining := total
	for i := 0; i < n; i++ {
		if i == n-1 {
			out[i] = remaining
			break
		}
		d := per * (0.8 + 0.4*rng.Float64())
		if reserve := minSyllableDur * float64(n-i-1); d > remaining-reserve {
			d = remaining - reserve
		}
		if d < minSyllableDur {
			d = minSyllableDur
		}
		out[i] = d
		remaining -= d
	}
	return out
}

// applyVibrato frequency-modulates the buffer with a sinusoidal delay
// line. The delay amplitude is chosen so the peak pitch deviation is
// depthCents at the given rate.
func applyVibrato(buf audio.Buffer, rateHz, depthCents float64) audio.Buffer {
	n := len(buf.Samples)
	if n == 0 {
		return buf
	}
	sr := float64(buf.SampleRate)
	// Peak pitch ratio deviation r gives delay amplitude r*sr/(2*pi*rate).
	deviation := math.Pow(2, depthCents/1200) - 1
	amp := deviation * sr / (2 * math.Pi * rateHz)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		pos := float64(i) - amp*(1+math.Sin(2*math.Pi*rateHz*float64(i)/sr))
		if pos < 0 {
			pos = 0
		}
		lo := int(pos)
		if lo >= n-1 {
			out[i] = buf.Samples[n-1]
			continue
		}
		frac := pos - float64(lo)
		out[i] = buf.Samples[lo]*(1-frac) + buf.Samples[lo+1]*frac
	}
	return audio.Buffer{Samples: out, SampleRate: buf.SampleRate}
}

// applyChorus layers two detuned, slightly delayed copies under the
// original at half level.
func (r *Renderer) applyChorus(ctx context.Context, buf audio.Buffer, rng *rand.Rand) audio.Buffer {
	voices := []audio.Buffer{buf}
	gains := []float64{0}
	for v := 0; v < 2; v++ {
		detune := (0.10 + 0.05*rng.Float64())
		if rng.Intn(2) == 0 {
			detune = -detune
		}
		delayMs := 15 + 15*rng.Float64()

		voice, err := r.backend.PitchShift(ctx, buf, detune)
		if err != nil {
			continue
		}
		pad := audio.Silence(delayMs/1000, buf.SampleRate)
		delayed, err := r.backend.Concatenate(ctx, []audio.Buffer{pad, voice}, 0)
		if err != nil {
			continue
		}
		voices = append(voices, delayed)
		gains = append(gains, -6)
	}
	if len(voices) == 1 {
		return buf
	}
	mixed, err := r.backend.Mix(ctx, voices, gains)
	if err != nil {
		return buf
	}
	// The delayed voices run past the dry signal; trim back.
	if len(mixed.Samples) > len(buf.Samples) {
		mixed.Samples = mixed.Samples[:len(buf.Samples)]
	}
	return mixed
}
