// Sonido-collage re-renders recorded speech: it cuts source recordings
// into syllables and reassembles them as nonsense collage, as spoken
// text, or as a sung melody.
//
// Usage:
//
//	sonido-collage -mode collage [flags] source.wav [more.wav ...]
//	sonido-collage -mode speak -text "hello world" source.wav
//	sonido-collage -mode sing -notes melody.json source.wav
//
// Each source WAV needs a sidecar transcript (source.json) holding the
// word timings.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/RyanBlaney/sonido-collage/audio"
	"github.com/RyanBlaney/sonido-collage/collage"
	"github.com/RyanBlaney/sonido-collage/config"
	"github.com/RyanBlaney/sonido-collage/g2p"
	"github.com/RyanBlaney/sonido-collage/logging"
	"github.com/RyanBlaney/sonido-collage/melody"
	"github.com/RyanBlaney/sonido-collage/pitch"
	"github.com/RyanBlaney/sonido-collage/reconstruct"
	"github.com/RyanBlaney/sonido-collage/syllable"
	"github.com/RyanBlaney/sonido-collage/transcript"
	"github.com/RyanBlaney/sonido-collage/wavio"
)

// version is set at build time via ldflags.
var version = "dev"

type source struct {
	path   string
	name   string
	buffer audio.Buffer
	stream transcript.Stream
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/sonido-collage.yaml)")
	mode := flag.String("mode", "collage", "collage, speak, or sing")
	text := flag.String("text", "", "target text for speak mode")
	notesFile := flag.String("notes", "", "note list JSON for sing mode")
	backingFile := flag.String("backing", "", "optional backing WAV for sing mode")
	outFile := flag.String("out", "out.wav", "output WAV path")
	dumpFile := flag.String("dump", "", "write bank and match log JSON (speak mode)")
	seed := flag.Int64("seed", 0, "random seed; overrides config when nonzero")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sonido-collage %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.Error(err, "failed to load configuration")
		os.Exit(1)
	}
	config.SetupLogging(cfg.Logging)
	logging.Info("sonido-collage starting", logging.Fields{"version": version, "mode": *mode})

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if flag.NArg() == 0 {
		logging.Error(nil, "no source WAV files given")
		os.Exit(1)
	}

	var dict *g2p.Dictionary
	if cfg.Dictionary != "" {
		dict, err = g2p.LoadFile(cfg.Dictionary)
		if err != nil {
			logging.Error(err, "failed to load dictionary", logging.Fields{"path": cfg.Dictionary})
			os.Exit(1)
		}
		logging.Info("dictionary loaded", logging.Fields{"entries": dict.Len()})
	}
	conv := g2p.NewConverter(dict)

	aligner, err := syllable.SelectAligner(cfg.Aligner.Name, nil)
	if err != nil {
		logging.Error(err, "aligner selection failed")
		os.Exit(1)
	}
	if prop, ok := aligner.(*syllable.ProportionalAligner); ok {
		prop.AlaskaRule = cfg.Aligner.AlaskaRule
	}

	sources, err := loadSources(flag.Args(), conv, aligner)
	if err != nil {
		logging.Error(err, "failed to load sources")
		os.Exit(1)
	}

	runSeed := cfg.Seed
	if *seed != 0 {
		runSeed = *seed
	}
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(runSeed))
	logging.Info("seeded", logging.Fields{"seed": runSeed})

	backend := audio.NewPCMBackend()

	var out audio.Buffer
	switch *mode {
	case "collage":
		out, err = runCollage(ctx, backend, sources, cfg, rng)
	case "speak":
		out, err = runSpeak(ctx, backend, sources, cfg, conv, *text, *dumpFile)
	case "sing":
		out, err = runSing(ctx, backend, sources, cfg, *notesFile, *backingFile, rng)
	default:
		logging.Error(nil, "unknown mode", logging.Fields{"mode": *mode})
		os.Exit(1)
	}
	if err != nil {
		logging.Error(err, "run failed", logging.Fields{"mode": *mode})
		os.Exit(1)
	}

	if err := wavio.Write(*outFile, out); err != nil {
		logging.Error(err, "failed to write output", logging.Fields{"path": *outFile})
		os.Exit(1)
	}
	logging.Info("done", logging.Fields{
		"path":     *outFile,
		"duration": fmt.Sprintf("%.2fs", out.Duration()),
	})
}

// loadSources reads each WAV and its sidecar transcript, then syllabifies.
func loadSources(paths []string, conv *g2p.Converter, aligner syllable.Aligner) ([]source, error) {
	var sources []source
	for _, path := range paths {
		buf, err := wavio.Read(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		sidecar := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
		words, err := transcript.LoadFile(sidecar)
		if err != nil {
			return nil, fmt.Errorf("reading transcript %s: %w", sidecar, err)
		}

		stream := transcript.Syllabize(words, conv, aligner)
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		logging.Info("source loaded", logging.Fields{
			"source":    name,
			"duration":  fmt.Sprintf("%.1fs", buf.Duration()),
			"syllables": len(stream.Syllables),
			"skipped":   stream.Skipped,
		})
		sources = append(sources, source{path: path, name: name, buffer: buf, stream: stream})
	}
	return sources, nil
}

func runCollage(ctx context.Context, backend audio.Backend, sources []source, cfg *config.Config, rng *rand.Rand) (audio.Buffer, error) {
	in := make([]collage.Source, len(sources))
	for i, s := range sources {
		in[i] = collage.Source{Name: s.name, Audio: s.buffer, Syllables: s.stream.Syllables}
	}
	res, err := collage.Process(ctx, backend, in, cfg.Collage.Options(), rng)
	if err != nil {
		return audio.Buffer{}, err
	}
	logging.Info("collage assembled", logging.Fields{
		"words":     len(res.Words),
		"phrases":   res.Phrases,
		"sentences": res.Sentences,
		"breaths":   res.Breaths,
	})
	return res.Output, nil
}

func runSpeak(ctx context.Context, backend audio.Backend, sources []source, cfg *config.Config, conv *g2p.Converter, text, dumpFile string) (audio.Buffer, error) {
	if text == "" {
		return audio.Buffer{}, fmt.Errorf("speak mode needs -text")
	}

	var bank []reconstruct.BankEntry
	buffers := make(map[string]audio.Buffer, len(sources))
	for _, s := range sources {
		bank = append(bank, reconstruct.BuildBank(s.stream.Syllables, s.path)...)
		buffers[s.path] = s.buffer
	}

	targets, skipped := reconstruct.TargetFromText(text, conv)
	if skipped > 0 {
		logging.Warn("words skipped from target text", logging.Fields{"count": skipped})
	}

	matcher := reconstruct.NewMatcher(bank, cfg.Distance.Weights())
	matcher.SetContinuityBonus(cfg.Matcher.ContinuityBonus)

	var matches []reconstruct.MatchResult
	var err error
	if cfg.Matcher.Mode == "nearest" {
		matches, err = matcher.MatchNearest(targets)
	} else {
		matches, err = matcher.MatchSequence(targets)
	}
	if err != nil {
		return audio.Buffer{}, err
	}

	if dumpFile != "" {
		if err := reconstruct.WriteDumpFile(dumpFile, bank, matches); err != nil {
			logging.Warn("failed to write dump", logging.Fields{"path": dumpFile, "error": err.Error()})
		}
	}

	plans := reconstruct.PlanFreeSpacing(matches)
	out, stats, err := reconstruct.Assemble(ctx, backend, buffers, matches, plans, nil)
	if err != nil {
		return audio.Buffer{}, err
	}
	logging.Info("speech assembled", logging.Fields{
		"syllables": len(matches),
		"runs":      stats.Runs,
		"dropped":   stats.DroppedRuns,
	})
	return out, nil
}

func runSing(ctx context.Context, backend audio.Backend, sources []source, cfg *config.Config, notesFile, backingFile string, rng *rand.Rand) (audio.Buffer, error) {
	if notesFile == "" {
		return audio.Buffer{}, fmt.Errorf("sing mode needs -notes")
	}
	data, err := os.ReadFile(notesFile)
	if err != nil {
		return audio.Buffer{}, err
	}
	var notes []melody.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return audio.Buffer{}, fmt.Errorf("parsing notes: %w", err)
	}
	if len(notes) == 0 {
		return audio.Buffer{}, fmt.Errorf("no notes in %s", notesFile)
	}

	// Cut the syllable pool and estimate each clip's pitch.
	var pool []melody.Clip
	var f0s []float64
	for _, s := range sources {
		est := pitch.NewEstimatorRange(s.buffer.SampleRate, cfg.Pitch.MinF0, cfg.Pitch.MaxF0)
		for _, syl := range s.stream.Syllables {
			buf, err := backend.Cut(ctx, s.buffer, syl.Start, syl.End)
			if err != nil {
				continue
			}
			clip := melody.Clip{Buffer: buf}
			if f0, ok := est.Estimate(buf.Samples); ok {
				clip.F0 = f0
				f0s = append(f0s, f0)
			}
			pool = append(pool, clip)
		}
	}
	if len(pool) == 0 {
		return audio.Buffer{}, fmt.Errorf("no syllable clips cut from sources")
	}
	medianF0, ok := pitch.MedianF0(f0s)
	if !ok {
		return audio.Buffer{}, fmt.Errorf("no voiced clips in the pool")
	}
	logging.Info("syllable pool ready", logging.Fields{
		"clips":     len(pool),
		"median_f0": fmt.Sprintf("%.1fHz", medianF0),
	})

	mappings := melody.PlanMapping(notes, len(pool), cfg.Melody.DriftRange, cfg.Melody.ChorusProbability, rng)
	renderer := melody.NewRenderer(backend, medianF0, rng.Int63())
	vocal, err := renderer.RenderTrack(ctx, mappings, pool)
	if err != nil {
		return audio.Buffer{}, err
	}

	if backingFile == "" {
		return vocal, nil
	}
	backing, err := wavio.Read(backingFile)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("reading backing: %w", err)
	}
	return melody.MixBacking(ctx, backend, vocal, backing, cfg.Melody.VocalDB, cfg.Melody.BackingDB)
}
