package reconstruct

// WordPauseS is the pause inserted before each new word in free-spacing
// mode.
const WordPauseS = 0.12

// defaultSyllableDur stands in for entries with no usable natural
// duration.
const defaultSyllableDur = 0.25

// TimingPlanEntry is the planned placement of one assembled unit. The
// stretch ratio is always reported, including 1.0, so callers can skip a
// no-op stretch explicitly.
type TimingPlanEntry struct {
	Start        float64 `json:"start"`
	Duration     float64 `json:"duration"`
	StretchRatio float64 `json:"stretch_ratio"`
}

// End returns the planned end time.
func (t TimingPlanEntry) End() float64 { return t.Start + t.Duration }

// PlanFreeSpacing places units sequentially at their natural durations,
// inserting a fixed pause wherever a target begins a new word.
func PlanFreeSpacing(matches []MatchResult) []TimingPlanEntry {
	plans := make([]TimingPlanEntry, 0, len(matches))
	cursor := 0.0
	for i, m := range matches {
		natural := m.Entry.Duration()
		dur := natural
		if dur <= 0 {
			dur = defaultSyllableDur
		}

		start := cursor
		if m.Target.WordStart && i > 0 {
			start += WordPauseS
		}

		plans = append(plans, TimingPlanEntry{
			Start:        start,
			Duration:     dur,
			StretchRatio: stretchRatio(dur, natural),
		})
		cursor = start + dur
	}
	return plans
}

// RefSpan is a reference start/end pair for one target unit, from a
// reference recording.
type RefSpan struct {
	Start float64
	End   float64
}

// PlanReference blends each unit's duration between its natural length
// and the reference span's length under strictness s in [0, 1]:
// duration = s·reference + (1-s)·natural. s=1 reproduces reference
// timing exactly; s=0 ignores the reference. Starts always follow
// sequentially from the previous planned end. Units beyond the reference
// list fall back to natural duration.
func PlanReference(matches []MatchResult, refs []RefSpan, strictness float64) []TimingPlanEntry {
	if strictness < 0 {
		strictness = 0
	}
	if strictness > 1 {
		strictness = 1
	}

	plans := make([]TimingPlanEntry, 0, len(matches))
	cursor := 0.0
	for i, m := range matches {
		natural := m.Entry.Duration()
		dur := natural
		if i < len(refs) {
			ref := refs[i].End - refs[i].Start
			dur = strictness*ref + (1-strictness)*natural
		}
		if dur <= 0 {
			dur = defaultSyllableDur
		}

		plans = append(plans, TimingPlanEntry{
			Start:        cursor,
			Duration:     dur,
			StretchRatio: stretchRatio(dur, natural),
		})
		cursor += dur
	}
	return plans
}

func stretchRatio(planned, natural float64) float64 {
	if natural <= 0 {
		return 1.0
	}
	return planned / natural
}
