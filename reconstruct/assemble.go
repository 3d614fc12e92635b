package reconstruct

import (
	"context"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-collage/audio"
	"github.com/RyanBlaney/sonido-collage/logging"
)

// Assembly tuning. Runs are cut with tight padding since clip edges land
// mid-speech; stretches within 5% of unity are skipped as inaudible.
const (
	assembleCrossfadeMs = 10
	stretchSkipWindow   = 0.05
	pitchSkipSemitones  = 0.1
)

// AssembleStats reports units dropped due to backend failures. The run
// continues past them.
type AssembleStats struct {
	Runs        int
	DroppedRuns int
}

// GroupContiguousRuns groups consecutive matches drawn from adjacent
// syllables of the same source. Each run is cut as one clip so natural
// coarticulation inside it survives. Returns index runs into matches.
func GroupContiguousRuns(matches []MatchResult) [][]int {
	if len(matches) == 0 {
		return nil
	}
	runs := [][]int{{0}}
	for i := 1; i < len(matches); i++ {
		lastRun := runs[len(runs)-1]
		prev := matches[lastRun[len(lastRun)-1]].Entry
		if adjacent(prev, matches[i].Entry) {
			runs[len(runs)-1] = append(runs[len(runs)-1], i)
		} else {
			runs = append(runs, []int{i})
		}
	}
	return runs
}

// Assemble cuts, stretches, shifts, and joins matched syllables into one
// buffer following the timing plan. sources maps source paths to decoded
// buffers. pitchShifts, when non-nil, gives per-unit semitone shifts;
// each contiguous run applies the mean of its units' shifts. Backend
// failures are retried once and then drop the run.
func Assemble(
	ctx context.Context,
	backend audio.Backend,
	sources map[string]audio.Buffer,
	matches []MatchResult,
	plans []TimingPlanEntry,
	pitchShifts []float64,
) (audio.Buffer, AssembleStats, error) {
	if len(matches) == 0 {
		return audio.Buffer{}, AssembleStats{}, fmt.Errorf("reconstruct: nothing to assemble")
	}
	if len(plans) != len(matches) {
		return audio.Buffer{}, AssembleStats{}, fmt.Errorf(
			"reconstruct: %d plans for %d matches", len(plans), len(matches))
	}

	runs := GroupContiguousRuns(matches)
	stats := AssembleStats{Runs: len(runs)}

	var pieces []audio.Buffer
	var sampleRate int
	prevEnd := 0.0

	for _, run := range runs {
		first, last := matches[run[0]], matches[run[len(run)-1]]
		src, ok := sources[first.Entry.Source]
		if !ok {
			logging.Warn("source buffer missing, dropping run", logging.Fields{
				"source": first.Entry.Source,
			})
			stats.DroppedRuns++
			continue
		}
		sampleRate = src.SampleRate

		clip, err := cutRun(ctx, backend, src, first.Entry.Start, last.Entry.End)
		if err != nil {
			logging.Warn("dropping run after failed cut", logging.Fields{
				"source": first.Entry.Source,
				"error":  err.Error(),
			})
			stats.DroppedRuns++
			continue
		}

		sourceDur := last.Entry.End - first.Entry.Start
		targetDur := 0.0
		for _, i := range run {
			targetDur += plans[i].Duration
		}
		if ratio := stretchRatio(targetDur, sourceDur); math.Abs(ratio-1) > stretchSkipWindow {
			stretched, err := audio.Retry("time_stretch", func() (audio.Buffer, error) {
				return backend.TimeStretch(ctx, clip, ratio)
			})
			if err != nil {
				logging.Warn("keeping unstretched clip", logging.Fields{"error": err.Error()})
			} else {
				clip = stretched
			}
		}

		if shift := runShift(run, pitchShifts); math.Abs(shift) > pitchSkipSemitones {
			shifted, err := audio.Retry("pitch_shift", func() (audio.Buffer, error) {
				return backend.PitchShift(ctx, clip, shift)
			})
			if err != nil {
				logging.Warn("keeping unshifted clip", logging.Fields{"error": err.Error()})
			} else {
				clip = shifted
			}
		}

		// Silence between the previous run's planned end and this
		// run's planned start.
		if gap := plans[run[0]].Start - prevEnd; gap > 0 && len(pieces) > 0 {
			pieces = append(pieces, audio.Silence(gap, sampleRate))
		}
		pieces = append(pieces, clip)
		prevEnd = plans[run[len(run)-1]].End()
	}

	if len(pieces) == 0 {
		return audio.Buffer{}, stats, fmt.Errorf("reconstruct: all %d runs dropped", stats.Runs)
	}

	out, err := backend.Concatenate(ctx, pieces, assembleCrossfadeMs)
	if err != nil {
		return audio.Buffer{}, stats, fmt.Errorf("reconstruct: concatenate: %w", err)
	}
	return out, stats, nil
}

func cutRun(ctx context.Context, backend audio.Backend, src audio.Buffer, start, end float64) (audio.Buffer, error) {
	return audio.Retry("cut", func() (audio.Buffer, error) {
		return backend.Cut(ctx, src, start, end)
	})
}

// runShift averages the meaningful per-unit shifts across a run.
func runShift(run []int, shifts []float64) float64 {
	if shifts == nil {
		return 0
	}
	sum, count := 0.0, 0
	for _, i := range run {
		if i < len(shifts) && math.Abs(shifts[i]) > pitchSkipSemitones {
			sum += shifts[i]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
