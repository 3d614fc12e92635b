// Package audio defines the transform backend contract the assembly
// stages consume, plus a pure-Go PCM implementation. Buffers are mono
// float64 sample slices normalized to [-1, 1].
package audio

import (
	"context"
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-collage/logging"
)

// Buffer is a mono sample buffer with its sample rate.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the buffer length in seconds.
func (b Buffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Clone returns a deep copy.
func (b Buffer) Clone() Buffer {
	return Buffer{
		Samples:    append([]float64(nil), b.Samples...),
		SampleRate: b.SampleRate,
	}
}

// ErrBackend wraps transform failures so callers can apply the drop
// policy uniformly.
var ErrBackend = errors.New("audio: backend failure")

// Backend is the audio transform contract. Implementations behave as pure
// functions over sample buffers: inputs are never mutated, and identical
// arguments yield identical results.
type Backend interface {
	// Cut extracts [start, end) seconds from a source buffer.
	Cut(ctx context.Context, src Buffer, start, end float64) (Buffer, error)
	// PitchShift shifts pitch by semitones without changing duration.
	PitchShift(ctx context.Context, buf Buffer, semitones float64) (Buffer, error)
	// TimeStretch scales duration by ratio (>1 is longer) preserving pitch.
	TimeStretch(ctx context.Context, buf Buffer, ratio float64) (Buffer, error)
	// Concatenate joins buffers with an equal-power crossfade.
	Concatenate(ctx context.Context, bufs []Buffer, crossfadeMs int) (Buffer, error)
	// Mix sums buffers after applying per-buffer gains in dB.
	Mix(ctx context.Context, bufs []Buffer, gainsDB []float64) (Buffer, error)
	// RMS measures a buffer's energy.
	RMS(ctx context.Context, buf Buffer) (float64, error)
}

// Retry invokes fn and retries once with identical arguments on failure.
// The second failure is returned to the caller, which drops the unit and
// continues the run.
func Retry(op string, fn func() (Buffer, error)) (Buffer, error) {
	out, err := fn()
	if err == nil {
		return out, nil
	}
	logging.Warn("audio transform failed, retrying", logging.Fields{
		"op":    op,
		"error": err.Error(),
	})
	out, err = fn()
	if err != nil {
		return Buffer{}, fmt.Errorf("%w: %s failed twice: %v", ErrBackend, op, err)
	}
	return out, nil
}
