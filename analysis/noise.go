package analysis

import (
	"math"
	"math/rand"

	"github.com/mjibson/go-dsp/fft"
)

// PinkNoise synthesizes durationS seconds of pink (1/f) noise by spectral
// shaping: Gaussian white noise is transformed, each bin scaled by
// 1/sqrt(f), and transformed back. The result is peak-normalized to
// [-1, 1]. The same rng state always yields the same buffer.
func PinkNoise(durationS float64, sampleRate int, rng *rand.Rand) []float64 {
	n := int(durationS * float64(sampleRate))
	if n <= 0 {
		return nil
	}

	white := make([]float64, n)
	for i := range white {
		white[i] = rng.NormFloat64()
	}

	spectrum := fft.FFTReal(white)

	// Bin k holds frequency k·sr/n below Nyquist and mirrors above it.
	// DC passes unscaled.
	for k := 1; k < n; k++ {
		bin := k
		if bin > n-bin {
			bin = n - bin
		}
		freq := float64(bin) * float64(sampleRate) / float64(n)
		spectrum[k] *= complex(1/math.Sqrt(freq), 0)
	}

	pink := make([]float64, n)
	peak := 0.0
	for i, c := range fft.IFFT(spectrum) {
		pink[i] = real(c)
		if a := math.Abs(pink[i]); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		for i := range pink {
			pink[i] /= peak
		}
	}
	return pink
}
