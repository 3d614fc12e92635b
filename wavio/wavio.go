// Package wavio reads and writes mono WAV files as normalized float64
// buffers for the analysis and assembly stages.
package wavio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-collage/audio"
)

// Read decodes a WAV file into a mono float64 buffer in [-1, 1]. Multi
// channel files keep only the first channel.
func Read(path string) (audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return audio.Buffer{}, fmt.Errorf("wavio: %s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("wavio: decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return audio.Buffer{}, fmt.Errorf("wavio: %s has no format information", path)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	frames := len(buf.Data) / channels

	scale := pcmScale(buf.SourceBitDepth)

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		samples[i] = float64(buf.Data[i*channels]) / scale
	}

	return audio.Buffer{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// pcmScale returns the full-scale divisor for integer PCM at the given bit
// depth, defaulting to 16-bit when the decoder reports none.
func pcmScale(bitDepth int) float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	return float64(int(1) << (bitDepth - 1))
}

// Write encodes a buffer as 16-bit mono PCM, clipping samples to [-1, 1]
// and creating parent directories as needed.
func Write(path string, buf audio.Buffer) error {
	if buf.SampleRate <= 0 {
		return fmt.Errorf("wavio: write %s: invalid sample rate %d", path, buf.SampleRate)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("wavio: mkdir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}
	defer f.Close()

	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		clamped := math.Max(-1, math.Min(1, s))
		data[i] = int(clamped * 32767)
	}

	encoder := wav.NewEncoder(f, buf.SampleRate, 16, 1, 1)
	intBuf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: buf.SampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	if err := encoder.Write(intBuf); err != nil {
		return fmt.Errorf("wavio: encode %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("wavio: finalize %s: %w", path, err)
	}
	return nil
}
