package quality

import (
	"github.com/kianyew1/ecgquality/pkg/ecgquality/stats"
)

// WindowMetrics is the result of evaluating one window. Immutable once
// computed; ordinals are 1-based and strictly increasing in scan order.
type WindowMetrics struct {
	Window    int     `json:"window"`
	StartIdx  int     `json:"start_idx"`
	EndIdx    int     `json:"end_idx"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	NumPeaks  int     `json:"num_peaks"`
	// MSQI is the morphology score from the injected scorer, ideally in
	// [0,1] but not strictly bounded.
	MSQI float64 `json:"msqi"`
	// KSQI is the Pearson kurtosis of the window's samples.
	KSQI      float64 `json:"ksqi"`
	HeartRate float64 `json:"hr_bpm"`
	SDNN      float64 `json:"sdnn_ms"`
	Tier      Tier    `json:"tier"`
}

// classify maps a window's scores onto exactly one tier. The decision list
// is ordered; the first match wins.
func (c EngineConfig) classify(msqi, ksqi float64) Tier {
	switch {
	case ksqi < c.ArtifactKurtosis:
		return TierRejected
	case msqi < c.UnreliableMorphology:
		return TierUnreliable
	case ksqi > c.CleanKurtosis && msqi > c.StrongMorphology:
		return TierGood
	case msqi > c.StrongMorphology:
		return TierGoodBaselineWander
	case msqi >= c.UnreliableMorphology:
		return TierAcceptable
	default:
		// Unreachable given the branches above; kept as a safety net.
		return TierUnreliable
	}
}

// evaluateWindow computes all metrics and the tier for a single window.
// Metric failures degrade the affected field to 0 instead of aborting; no
// error leaves this method.
func (e *Engine) evaluateWindow(segment []float64, relativePeaks []int, samplingRate, startIdx, endIdx, ordinal int) WindowMetrics {
	m := WindowMetrics{
		Window:    ordinal,
		StartIdx:  startIdx,
		EndIdx:    endIdx,
		StartTime: float64(startIdx) / float64(samplingRate),
		EndTime:   float64(endIdx) / float64(samplingRate),
		NumPeaks:  len(relativePeaks),
		Tier:      TierUnreliable,
	}

	// Fewer beats than MinPeaks cannot yield a meaningful variability
	// estimate; short-circuit with all derived scores at zero.
	if len(relativePeaks) < e.cfg.MinPeaks {
		e.emit(TraceEvent{Window: ordinal, Tier: m.Tier, Note: "too few peaks"})
		return m
	}

	if e.scorer != nil {
		if scores, err := e.scorer.Score(segment, samplingRate); err == nil && len(scores) > 0 {
			// Scorers may return one score per beat; reduce to the mean.
			m.MSQI = stats.SafeFloat(stats.Mean(scores))
		}
	}

	m.KSQI = stats.SafeFloat(stats.Kurtosis(segment))

	intervals := make([]float64, len(relativePeaks)-1)
	for i := 1; i < len(relativePeaks); i++ {
		intervals[i-1] = float64(relativePeaks[i]-relativePeaks[i-1]) / float64(samplingRate)
	}
	if meanRR := stats.Mean(intervals); meanRR > 0 {
		m.HeartRate = stats.SafeFloat(60.0 / meanRR)
	}
	m.SDNN = stats.SafeFloat(stats.Std(intervals) * 1000.0)

	m.Tier = e.cfg.classify(m.MSQI, m.KSQI)
	e.emit(TraceEvent{
		Window:    ordinal,
		Tier:      m.Tier,
		MSQI:      m.MSQI,
		KSQI:      m.KSQI,
		HeartRate: m.HeartRate,
		SDNN:      m.SDNN,
	})
	return m
}
