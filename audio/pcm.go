package audio

import (
	"context"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-collage/analysis"
)

// PCM transform defaults. Cuts are padded slightly beyond the requested
// span and faded so clip edges never click.
const (
	DefaultCutPaddingMs = 25
	DefaultCutFadeMs    = 10

	// stretchFrameMs is the OLA grain size for time stretching.
	stretchFrameMs = 50
)

// PCMBackend implements Backend directly over float64 sample buffers.
type PCMBackend struct {
	CutPaddingMs int
	CutFadeMs    int
}

// NewPCMBackend creates a backend with the default cut padding and fades.
func NewPCMBackend() *PCMBackend {
	return &PCMBackend{
		CutPaddingMs: DefaultCutPaddingMs,
		CutFadeMs:    DefaultCutFadeMs,
	}
}

// Cut extracts [start, end) seconds, padded by CutPaddingMs on each side
// and clamped to the source bounds, with half-sine fades at both edges.
func (p *PCMBackend) Cut(ctx context.Context, src Buffer, start, end float64) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return Buffer{}, err
	}
	if src.SampleRate <= 0 {
		return Buffer{}, fmt.Errorf("%w: cut: invalid sample rate", ErrBackend)
	}

	pad := float64(p.CutPaddingMs) / 1000
	lo := int(math.Max(0, start-pad) * float64(src.SampleRate))
	hi := int(math.Min(src.Duration(), end+pad) * float64(src.SampleRate))
	if hi > len(src.Samples) {
		hi = len(src.Samples)
	}
	if hi <= lo {
		return Buffer{}, fmt.Errorf("%w: cut: empty span [%v, %v)", ErrBackend, start, end)
	}

	out := Buffer{
		Samples:    append([]float64(nil), src.Samples[lo:hi]...),
		SampleRate: src.SampleRate,
	}

	fade := src.SampleRate * p.CutFadeMs / 1000
	if fade > 0 && len(out.Samples) > fade*2 {
		applyFades(out.Samples, fade)
	}
	return out, nil
}

// applyFades shapes the first and last n samples with half-sine ramps.
func applyFades(samples []float64, n int) {
	for i := 0; i < n; i++ {
		g := math.Sin(math.Pi / 2 * float64(i) / float64(n))
		samples[i] *= g
		samples[len(samples)-1-i] *= g
	}
}

// PitchShift shifts pitch by resampling (which also changes speed) and
// stretching the result back to the original duration.
func (p *PCMBackend) PitchShift(ctx context.Context, buf Buffer, semitones float64) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return Buffer{}, err
	}
	if math.Abs(semitones) < 0.01 {
		return buf.Clone(), nil
	}

	ratio := math.Pow(2, semitones/12)
	raised := resample(buf, ratio)
	return p.TimeStretch(ctx, raised, ratio)
}

// resample reads buf at rate factor via linear interpolation. factor > 1
// raises pitch and shortens the buffer.
func resample(buf Buffer, factor float64) Buffer {
	n := int(float64(len(buf.Samples)) / factor)
	if n < 1 {
		n = 1
	}
	out := make([]float64, n)
	for i := range out {
		pos := float64(i) * factor
		j := int(pos)
		if j >= len(buf.Samples)-1 {
			out[i] = buf.Samples[len(buf.Samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = buf.Samples[j]*(1-frac) + buf.Samples[j+1]*frac
	}
	return Buffer{Samples: out, SampleRate: buf.SampleRate}
}

// TimeStretch scales duration by ratio using Hann-windowed overlap-add
// grains. Pitch is preserved; transients smear slightly at extreme
// ratios, which is acceptable for syllable-scale material.
func (p *PCMBackend) TimeStretch(ctx context.Context, buf Buffer, ratio float64) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return Buffer{}, err
	}
	if ratio <= 0 {
		return Buffer{}, fmt.Errorf("%w: stretch: ratio %v", ErrBackend, ratio)
	}
	if math.Abs(ratio-1) < 0.01 || len(buf.Samples) < 4 {
		return buf.Clone(), nil
	}

	frame := buf.SampleRate * stretchFrameMs / 1000
	if frame < 4 {
		frame = 4
	}
	if frame > len(buf.Samples) {
		frame = len(buf.Samples)
	}
	synthHop := frame / 2
	analysisHop := float64(synthHop) / ratio

	window := hannWindow(frame)
	outLen := int(float64(len(buf.Samples)) * ratio)
	out := make([]float64, outLen+frame)
	norm := make([]float64, outLen+frame)

	for outPos := 0; outPos < outLen; outPos += synthHop {
		inPos := int(float64(outPos) / float64(synthHop) * analysisHop)
		if inPos > len(buf.Samples)-frame {
			inPos = len(buf.Samples) - frame
		}
		for i := 0; i < frame; i++ {
			out[outPos+i] += buf.Samples[inPos+i] * window[i]
			norm[outPos+i] += window[i]
		}
	}

	result := make([]float64, outLen)
	for i := range result {
		if norm[i] > 1e-9 {
			result[i] = out[i] / norm[i]
		}
	}
	return Buffer{Samples: result, SampleRate: buf.SampleRate}, nil
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// Concatenate joins buffers in order with an equal-power crossfade of
// crossfadeMs between each adjacent pair.
func (p *PCMBackend) Concatenate(ctx context.Context, bufs []Buffer, crossfadeMs int) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return Buffer{}, err
	}
	if len(bufs) == 0 {
		return Buffer{}, fmt.Errorf("%w: concatenate: no buffers", ErrBackend)
	}
	sr := bufs[0].SampleRate
	for _, b := range bufs {
		if b.SampleRate != sr {
			return Buffer{}, fmt.Errorf("%w: concatenate: mixed sample rates %d and %d",
				ErrBackend, sr, b.SampleRate)
		}
	}

	out := append([]float64(nil), bufs[0].Samples...)
	fade := sr * crossfadeMs / 1000
	for _, b := range bufs[1:] {
		n := fade
		if n > len(out) {
			n = len(out)
		}
		if n > len(b.Samples) {
			n = len(b.Samples)
		}
		overlap := len(out) - n
		for i := 0; i < n; i++ {
			t := float64(i) / float64(n)
			gOut := math.Cos(t * math.Pi / 2)
			gIn := math.Sin(t * math.Pi / 2)
			out[overlap+i] = out[overlap+i]*gOut + b.Samples[i]*gIn
		}
		out = append(out, b.Samples[n:]...)
	}
	return Buffer{Samples: out, SampleRate: sr}, nil
}

// Mix sums buffers after applying per-buffer gains in dB. Output length
// is the longest input; missing gains default to 0 dB.
func (p *PCMBackend) Mix(ctx context.Context, bufs []Buffer, gainsDB []float64) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return Buffer{}, err
	}
	if len(bufs) == 0 {
		return Buffer{}, fmt.Errorf("%w: mix: no buffers", ErrBackend)
	}
	sr := bufs[0].SampleRate
	maxLen := 0
	for _, b := range bufs {
		if b.SampleRate != sr {
			return Buffer{}, fmt.Errorf("%w: mix: mixed sample rates %d and %d",
				ErrBackend, sr, b.SampleRate)
		}
		if len(b.Samples) > maxLen {
			maxLen = len(b.Samples)
		}
	}

	out := make([]float64, maxLen)
	for i, b := range bufs {
		gain := 1.0
		if i < len(gainsDB) {
			gain = math.Pow(10, gainsDB[i]/20)
		}
		for j, s := range b.Samples {
			out[j] += s * gain
		}
	}
	return Buffer{Samples: out, SampleRate: sr}, nil
}

// RMS measures buffer energy.
func (p *PCMBackend) RMS(ctx context.Context, buf Buffer) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return analysis.RMS(buf.Samples), nil
}

// Silence returns a zero buffer of the given duration.
func Silence(durationS float64, sampleRate int) Buffer {
	n := int(durationS * float64(sampleRate))
	if n < 0 {
		n = 0
	}
	return Buffer{Samples: make([]float64, n), SampleRate: sampleRate}
}
