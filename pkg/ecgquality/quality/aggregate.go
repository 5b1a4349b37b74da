package quality

import "sort"

// SampleRange is a half-open sample-index range with its time bounds in
// seconds for caller convenience.
type SampleRange struct {
	StartIdx  int     `json:"start_idx"`
	EndIdx    int     `json:"end_idx"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

type indexRange struct {
	start, end int
}

// SummaryStatistics aggregates the tier counts for one scan. The three
// primary tiers (good, rejected, unreliable) partition all windows;
// AcceptableWindows is a stricter post-hoc audit count and is not additive
// with the partition.
type SummaryStatistics struct {
	TotalWindows      int     `json:"total_windows"`
	GoodWindows       int     `json:"good_windows"`
	RejectedWindows   int     `json:"rejected_windows"`
	UnreliableWindows int     `json:"unreliable_windows"`
	AcceptableWindows int     `json:"acceptable_windows"`
	GoodPercentage    float64 `json:"good_percentage"`
	Status            Status  `json:"status"`
	Reason            string  `json:"reason,omitempty"`
}

// QualityReport is the aggregate output of one assessment: the best
// contiguous segment, every rejected range, the full per-window metric
// list in scan order, and summary statistics.
type QualityReport struct {
	BestSegment      SampleRange       `json:"best_segment"`
	RejectedSegments []SampleRange     `json:"rejected_segments"`
	Windows          []WindowMetrics   `json:"windows"`
	Summary          SummaryStatistics `json:"summary"`
}

// aggregate selects the best segment, partitions tier counts, and converts
// sample bounds to time bounds.
func (e *Engine) aggregate(windows []WindowMetrics, rejected []indexRange, waveformLen, samplingRate int) *QualityReport {
	if len(windows) == 0 {
		report := e.failedReport(waveformLen, samplingRate, "no windows analyzed")
		report.RejectedSegments = toSampleRanges(rejected, samplingRate)
		return report
	}

	// Stable sort keeps scan order on morphology-score ties, which defines
	// the best-segment tie-break.
	ranked := make([]WindowMetrics, len(windows))
	copy(ranked, windows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MSQI > ranked[j].MSQI
	})

	// Best segment: highest-morphology good window; if none qualify, fall
	// back to the highest-morphology window overall so a best segment is
	// always produced.
	best := ranked[0]
	for _, w := range ranked {
		if w.Tier.IsGood() {
			best = w
			break
		}
	}

	summary := SummaryStatistics{TotalWindows: len(windows)}
	for _, w := range windows {
		switch w.Tier {
		case TierRejected:
			summary.RejectedWindows++
		case TierUnreliable:
			summary.UnreliableWindows++
		default:
			// GOOD, GOOD (Baseline Wander), and ACCEPTABLE all count as
			// usable signal, so the three counts partition every window.
			summary.GoodWindows++
		}
		if w.Tier == TierGoodBaselineWander && w.MSQI > e.cfg.StrongMorphology && w.KSQI < e.cfg.WanderKurtosis {
			summary.AcceptableWindows++
		}
	}
	summary.GoodPercentage = float64(summary.GoodWindows) / float64(summary.TotalWindows) * 100.0
	if summary.GoodWindows > 0 {
		summary.Status = StatusSuccess
	} else {
		summary.Status = StatusWarning
	}

	return &QualityReport{
		BestSegment:      newSampleRange(best.StartIdx, best.EndIdx, samplingRate),
		RejectedSegments: toSampleRanges(rejected, samplingRate),
		Windows:          windows,
		Summary:          summary,
	}
}

func (e *Engine) failedReport(waveformLen, samplingRate int, reason string) *QualityReport {
	return NewFailedReport(e.cfg, waveformLen, samplingRate, reason)
}

// NewFailedReport builds the terminal FAILED report for whole-input
// failures, including failures upstream of the engine such as peak
// detection. The best-segment range defaults to the first window's worth of
// signal, or the entire waveform when shorter.
func NewFailedReport(cfg EngineConfig, waveformLen, samplingRate int, reason string) *QualityReport {
	if samplingRate <= 0 {
		samplingRate = 1
	}
	end := cfg.windowSamples(samplingRate)
	if end > waveformLen {
		end = waveformLen
	}
	return &QualityReport{
		BestSegment: newSampleRange(0, end, samplingRate),
		Summary: SummaryStatistics{
			Status: StatusFailed,
			Reason: reason,
		},
	}
}

func newSampleRange(start, end, samplingRate int) SampleRange {
	return SampleRange{
		StartIdx:  start,
		EndIdx:    end,
		StartTime: float64(start) / float64(samplingRate),
		EndTime:   float64(end) / float64(samplingRate),
	}
}

func toSampleRanges(ranges []indexRange, samplingRate int) []SampleRange {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]SampleRange, len(ranges))
	for i, r := range ranges {
		out[i] = newSampleRange(r.start, r.end, samplingRate)
	}
	return out
}
