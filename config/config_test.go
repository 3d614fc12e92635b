package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Aligner.Name != "auto" {
		t.Errorf("aligner %q, want auto", cfg.Aligner.Name)
	}
	if cfg.Matcher.Mode != "sequence" || cfg.Matcher.ContinuityBonus != 7.0 {
		t.Errorf("matcher defaults wrong: %+v", cfg.Matcher)
	}
	if cfg.Pitch.MinF0 != 50 || cfg.Pitch.MaxF0 != 400 {
		t.Errorf("pitch defaults wrong: %+v", cfg.Pitch)
	}
	if cfg.Collage.TargetDuration != 10.0 {
		t.Errorf("collage target duration %v, want 10", cfg.Collage.TargetDuration)
	}
	if cfg.Collage.SyllablesPerWord.Min != 1 || cfg.Collage.SyllablesPerWord.Max != 4 {
		t.Errorf("syllables per word default wrong: %+v", cfg.Collage.SyllablesPerWord)
	}
	if w := cfg.Distance.Weights(); w.CrossClassPenalty != 5.0 {
		t.Errorf("cross-class penalty %v, want 5", w.CrossClassPenalty)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	body := `
seed: 42
matcher:
  mode: nearest
collage:
  target_duration: 3.5
  noise_level_db: 0
timing:
  strictness: 0.8
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 42 {
		t.Errorf("seed %d, want 42", cfg.Seed)
	}
	if cfg.Matcher.Mode != "nearest" {
		t.Errorf("matcher mode %q, want nearest", cfg.Matcher.Mode)
	}
	if cfg.Collage.TargetDuration != 3.5 {
		t.Errorf("target duration %v, want 3.5", cfg.Collage.TargetDuration)
	}
	if cfg.Timing.Strictness != 0.8 {
		t.Errorf("strictness %v, want 0.8", cfg.Timing.Strictness)
	}
	// File values merge over defaults.
	if cfg.Collage.WordCrossfadeMs != 50 {
		t.Errorf("word crossfade %d, want default 50", cfg.Collage.WordCrossfadeMs)
	}
	opts := cfg.Collage.Options()
	if opts.TargetDuration != 3.5 || opts.NoiseLevelDB != 0 {
		t.Errorf("options conversion wrong: %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad aligner", func(c *Config) { c.Aligner.Name = "nope" }},
		{"bad matcher", func(c *Config) { c.Matcher.Mode = "fuzzy" }},
		{"inverted pitch", func(c *Config) { c.Pitch.MinF0, c.Pitch.MaxF0 = 400, 50 }},
		{"strictness above one", func(c *Config) { c.Timing.Strictness = 1.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
