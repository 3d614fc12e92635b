// Package config handles loading and validating the sonido-collage run
// configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-collage/collage"
	"github.com/RyanBlaney/sonido-collage/logging"
	"github.com/RyanBlaney/sonido-collage/phonetics"
)

// Config is the root configuration for a sonido-collage run.
type Config struct {
	Seed       int64          `mapstructure:"seed"`
	Dictionary string         `mapstructure:"dictionary"` // CMU-format dictionary path
	Aligner    AlignerConfig  `mapstructure:"aligner"`
	Pitch      PitchConfig    `mapstructure:"pitch"`
	Distance   DistanceConfig `mapstructure:"distance"`
	Matcher    MatcherConfig  `mapstructure:"matcher"`
	Timing     TimingConfig   `mapstructure:"timing"`
	Collage    CollageConfig  `mapstructure:"collage"`
	Melody     MelodyConfig   `mapstructure:"melody"`
	Logging    LoggingConfig  `mapstructure:"logging"`
}

// AlignerConfig selects the phoneme-to-time aligner.
type AlignerConfig struct {
	Name       string `mapstructure:"name"` // "proportional", "signal", "auto"
	AlaskaRule bool   `mapstructure:"alaska_rule"`
}

// PitchConfig bounds the F0 search.
type PitchConfig struct {
	MinF0 float64 `mapstructure:"min_f0"`
	MaxF0 float64 `mapstructure:"max_f0"`
}

// DistanceConfig weights the articulatory distance dimensions.
type DistanceConfig struct {
	Place             float64 `mapstructure:"place"`
	Manner            float64 `mapstructure:"manner"`
	Voicing           float64 `mapstructure:"voicing"`
	Height            float64 `mapstructure:"height"`
	Backness          float64 `mapstructure:"backness"`
	Rounding          float64 `mapstructure:"rounding"`
	Tenseness         float64 `mapstructure:"tenseness"`
	CrossClassPenalty float64 `mapstructure:"cross_class_penalty"`
}

// Weights converts the config into phonetics distance weights.
func (d DistanceConfig) Weights() phonetics.DistanceWeights {
	return phonetics.DistanceWeights{
		Place:             d.Place,
		Manner:            d.Manner,
		Voicing:           d.Voicing,
		Height:            d.Height,
		Backness:          d.Backness,
		Rounding:          d.Rounding,
		Tenseness:         d.Tenseness,
		CrossClassPenalty: d.CrossClassPenalty,
	}
}

// MatcherConfig selects the syllable matching mode.
type MatcherConfig struct {
	Mode            string  `mapstructure:"mode"` // "nearest" or "sequence"
	ContinuityBonus float64 `mapstructure:"continuity_bonus"`
}

// TimingConfig shapes the speak-mode timing plan.
type TimingConfig struct {
	Strictness float64 `mapstructure:"strictness"` // 0 natural .. 1 reference
}

// CollageConfig shapes collage mode; it maps onto collage.Options.
type CollageConfig struct {
	TargetDuration     float64       `mapstructure:"target_duration"`
	SyllablesPerWord   collage.Range `mapstructure:"syllables_per_word"`
	WordsPerPhrase     collage.Range `mapstructure:"words_per_phrase"`
	PhrasesPerSentence collage.Range `mapstructure:"phrases_per_sentence"`

	PhrasePause   collage.FloatRange `mapstructure:"phrase_pause"`
	SentencePause collage.FloatRange `mapstructure:"sentence_pause"`

	SyllableCrossfadeMs int `mapstructure:"syllable_crossfade_ms"`
	WordCrossfadeMs     int `mapstructure:"word_crossfade_ms"`

	PitchNormalize   bool    `mapstructure:"pitch_normalize"`
	PitchRange       float64 `mapstructure:"pitch_range"`
	VolumeNormalize  bool    `mapstructure:"volume_normalize"`
	ProsodicDynamics bool    `mapstructure:"prosodic_dynamics"`

	RoomTone          bool    `mapstructure:"room_tone"`
	BreathProbability float64 `mapstructure:"breath_probability"`
	NoiseLevelDB      float64 `mapstructure:"noise_level_db"`
	Speed             float64 `mapstructure:"speed"`
}

// Options converts the config into collage options.
func (c CollageConfig) Options() collage.Options {
	return collage.Options{
		TargetDuration:      c.TargetDuration,
		SyllablesPerWord:    c.SyllablesPerWord,
		WordsPerPhrase:      c.WordsPerPhrase,
		PhrasesPerSentence:  c.PhrasesPerSentence,
		PhrasePause:         c.PhrasePause,
		SentencePause:       c.SentencePause,
		SyllableCrossfadeMs: c.SyllableCrossfadeMs,
		WordCrossfadeMs:     c.WordCrossfadeMs,
		PitchNormalize:      c.PitchNormalize,
		PitchRange:          c.PitchRange,
		VolumeNormalize:     c.VolumeNormalize,
		ProsodicDynamics:    c.ProsodicDynamics,
		RoomTone:            c.RoomTone,
		BreathProbability:   c.BreathProbability,
		NoiseLevelDB:        c.NoiseLevelDB,
		Speed:               c.Speed,
	}
}

// MelodyConfig shapes sing mode.
type MelodyConfig struct {
	DriftRange        float64 `mapstructure:"drift_range"`
	ChorusProbability float64 `mapstructure:"chorus_probability"`
	VocalDB           float64 `mapstructure:"vocal_db"`
	BackingDB         float64 `mapstructure:"backing_db"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Load reads the configuration from file, environment variables, and
// defaults. If configFile is non-empty it is used directly; otherwise
// the standard search order applies: ./sonido-collage.yaml,
// ./configs/sonido-collage.yaml, /etc/sonido-collage/sonido-collage.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("sonido-collage")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/sonido-collage")
	}

	// Environment variables: SONIDO_SEED, SONIDO_MATCHER_MODE, etc.
	v.SetEnvPrefix("SONIDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		logging.Info("no config file found, using defaults and environment variables")
	} else {
		logging.Info("loaded config file", logging.Fields{"path": v.ConfigFileUsed()})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed", 0)
	v.SetDefault("dictionary", "")
	v.SetDefault("aligner.name", "auto")
	v.SetDefault("aligner.alaska_rule", true)
	v.SetDefault("pitch.min_f0", 50.0)
	v.SetDefault("pitch.max_f0", 400.0)

	w := phonetics.DefaultDistanceWeights()
	v.SetDefault("distance.place", w.Place)
	v.SetDefault("distance.manner", w.Manner)
	v.SetDefault("distance.voicing", w.Voicing)
	v.SetDefault("distance.height", w.Height)
	v.SetDefault("distance.backness", w.Backness)
	v.SetDefault("distance.rounding", w.Rounding)
	v.SetDefault("distance.tenseness", w.Tenseness)
	v.SetDefault("distance.cross_class_penalty", w.CrossClassPenalty)

	v.SetDefault("matcher.mode", "sequence")
	v.SetDefault("matcher.continuity_bonus", 7.0)
	v.SetDefault("timing.strictness", 0.5)

	opts := collage.Defaults()
	v.SetDefault("collage.target_duration", opts.TargetDuration)
	v.SetDefault("collage.syllables_per_word.min", opts.SyllablesPerWord.Min)
	v.SetDefault("collage.syllables_per_word.max", opts.SyllablesPerWord.Max)
	v.SetDefault("collage.words_per_phrase.min", opts.WordsPerPhrase.Min)
	v.SetDefault("collage.words_per_phrase.max", opts.WordsPerPhrase.Max)
	v.SetDefault("collage.phrases_per_sentence.min", opts.PhrasesPerSentence.Min)
	v.SetDefault("collage.phrases_per_sentence.max", opts.PhrasesPerSentence.Max)
	v.SetDefault("collage.phrase_pause.min", opts.PhrasePause.Min)
	v.SetDefault("collage.phrase_pause.max", opts.PhrasePause.Max)
	v.SetDefault("collage.sentence_pause.min", opts.SentencePause.Min)
	v.SetDefault("collage.sentence_pause.max", opts.SentencePause.Max)
	v.SetDefault("collage.syllable_crossfade_ms", opts.SyllableCrossfadeMs)
	v.SetDefault("collage.word_crossfade_ms", opts.WordCrossfadeMs)
	v.SetDefault("collage.pitch_normalize", opts.PitchNormalize)
	v.SetDefault("collage.pitch_range", opts.PitchRange)
	v.SetDefault("collage.volume_normalize", opts.VolumeNormalize)
	v.SetDefault("collage.prosodic_dynamics", opts.ProsodicDynamics)
	v.SetDefault("collage.room_tone", opts.RoomTone)
	v.SetDefault("collage.breath_probability", opts.BreathProbability)
	v.SetDefault("collage.noise_level_db", opts.NoiseLevelDB)
	v.SetDefault("collage.speed", 0.0)

	v.SetDefault("melody.drift_range", 2.0)
	v.SetDefault("melody.chorus_probability", 0.3)
	v.SetDefault("melody.vocal_db", 0.0)
	v.SetDefault("melody.backing_db", -12.0)

	v.SetDefault("logging.level", "info")
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Aligner.Name {
	case "proportional", "signal", "auto":
	default:
		return fmt.Errorf("unknown aligner %q", c.Aligner.Name)
	}
	switch c.Matcher.Mode {
	case "nearest", "sequence":
	default:
		return fmt.Errorf("unknown matcher mode %q", c.Matcher.Mode)
	}
	if c.Pitch.MinF0 <= 0 || c.Pitch.MaxF0 <= c.Pitch.MinF0 {
		return fmt.Errorf("invalid pitch range %v-%v", c.Pitch.MinF0, c.Pitch.MaxF0)
	}
	if c.Timing.Strictness < 0 || c.Timing.Strictness > 1 {
		return fmt.Errorf("strictness %v outside [0,1]", c.Timing.Strictness)
	}
	return nil
}

// SetupLogging applies the configured level to the global logger.
func SetupLogging(cfg LoggingConfig) {
	switch strings.ToLower(cfg.Level) {
	case "debug":
		logging.SetLevel(logging.DebugLevel)
	case "warn":
		logging.SetLevel(logging.WarnLevel)
	case "error":
		logging.SetLevel(logging.ErrorLevel)
	default:
		logging.SetLevel(logging.InfoLevel)
	}
}
