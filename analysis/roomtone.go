package analysis

// Room tone scan resolution.
const (
	roomToneWindowMs = 25
	roomToneHopMs    = 12
)

// Span is a half-open time interval in seconds.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the span length in seconds.
func (s Span) Duration() float64 { return s.End - s.Start }

// FindRoomTone locates the quietest continuous region of at least
// minDurationMs. Frames below 10% of the mean windowed RMS count as quiet;
// the longest contiguous quiet run wins. A fully silent recording returns
// the whole span. Returns false when no region qualifies, which happens
// for recordings with no dynamic range.
func FindRoomTone(samples []float64, sampleRate, minDurationMs int) (Span, bool) {
	minSamples := sampleRate * minDurationMs / 1000
	if len(samples) < minSamples {
		return Span{}, false
	}

	rms := WindowedRMS(samples, sampleRate, roomToneWindowMs, roomToneHopMs)
	if len(rms) == 0 {
		return Span{}, false
	}

	mean := 0.0
	for _, v := range rms {
		mean += v
	}
	mean /= float64(len(rms))
	if mean < 1e-10 {
		return Span{Start: 0, End: float64(len(samples)) / float64(sampleRate)}, true
	}

	threshold := mean * 0.1

	bestStart, bestLen := 0, 0
	curStart, curLen := 0, 0
	for i, v := range rms {
		if v < threshold {
			if curLen == 0 {
				curStart = i
			}
			curLen++
			if curLen > bestLen {
				bestStart, bestLen = curStart, curLen
			}
		} else {
			curLen = 0
		}
	}
	if bestLen == 0 {
		return Span{}, false
	}

	hop := float64(sampleRate*roomToneHopMs/1000) / float64(sampleRate)
	span := Span{
		Start: float64(bestStart) * hop,
		End:   float64(bestStart+bestLen) * hop,
	}
	if span.Duration() < float64(minDurationMs)/1000 {
		return Span{}, false
	}
	return span, true
}
