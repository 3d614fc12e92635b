package pitch

import (
	"math"
	"math/rand"
	"testing"
)

func sine(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return out
}

func TestEstimateSine(t *testing.T) {
	e := NewEstimator(16000)
	f0, ok := e.Estimate(sine(220, 16000, 16000/2))
	if !ok {
		t.Fatal("220 Hz sine reported unvoiced")
	}
	if math.Abs(f0-220) > 2 {
		t.Errorf("f0 = %v, want within 2 Hz of 220", f0)
	}
}

func TestEstimateSineRange(t *testing.T) {
	e := NewEstimator(16000)
	for _, freq := range []float64{80, 110, 150, 300} {
		f0, ok := e.Estimate(sine(freq, 16000, 8000))
		if !ok {
			t.Errorf("%v Hz sine reported unvoiced", freq)
			continue
		}
		// Integer lag quantization bounds the error to about one lag step.
		if math.Abs(f0-freq) > freq*0.03 {
			t.Errorf("f0 = %v, want near %v", f0, freq)
		}
	}
}

func TestEstimateWhiteNoise(t *testing.T) {
	e := NewEstimator(16000)
	undetermined := 0
	const trials = 25
	for seed := int64(0); seed < trials; seed++ {
		rng := rand.New(rand.NewSource(seed))
		noise := make([]float64, 8000)
		for i := range noise {
			noise[i] = rng.Float64()*2 - 1
		}
		if _, ok := e.Estimate(noise); !ok {
			undetermined++
		}
	}
	if undetermined < trials*4/5 {
		t.Errorf("white noise voiced too often: %d/%d undetermined", undetermined, trials)
	}
}

func TestEstimateSilence(t *testing.T) {
	e := NewEstimator(16000)
	if _, ok := e.Estimate(make([]float64, 4000)); ok {
		t.Error("silence reported voiced")
	}
	if _, ok := e.Estimate(nil); ok {
		t.Error("empty buffer reported voiced")
	}
}

func TestEstimateDCOffset(t *testing.T) {
	e := NewEstimator(16000)
	samples := make([]float64, 4000)
	for i := range samples {
		samples[i] = 0.5
	}
	if _, ok := e.Estimate(samples); ok {
		t.Error("constant signal reported voiced")
	}
}

func TestMedianF0(t *testing.T) {
	if _, ok := MedianF0(nil); ok {
		t.Error("empty input should report no median")
	}
	median, ok := MedianF0([]float64{220, 110, 330})
	if !ok || median != 220 {
		t.Errorf("median = %v, %v, want 220, true", median, ok)
	}
}

func TestSemitoneOffset(t *testing.T) {
	if got := SemitoneOffset(220, 440); math.Abs(got-12) > 1e-9 {
		t.Errorf("octave up = %v, want 12", got)
	}
	if got := SemitoneOffset(440, 220); math.Abs(got+12) > 1e-9 {
		t.Errorf("octave down = %v, want -12", got)
	}
	if got := SemitoneOffset(220, 220); got != 0 {
		t.Errorf("same pitch = %v, want 0", got)
	}
	if got := SemitoneOffset(0, 220); got != 0 {
		t.Errorf("unvoiced source = %v, want 0", got)
	}
}

func TestClampSemitones(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{7.2, 5}, {-9, -5}, {3.5, 3.5}, {0, 0},
	}
	for _, tt := range tests {
		if got := ClampSemitones(tt.in, NormalizationLimit); got != tt.want {
			t.Errorf("ClampSemitones(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
