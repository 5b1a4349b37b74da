// Package quality implements the sliding-window ECG quality engine: fixed
// 10-second windows advanced in 1-second strides are scored for beat-shape
// consistency (mSQI) and statistical noise (kSQI), classified into quality
// tiers, and aggregated into a report naming the single best segment and
// every rejected range.
//
// The engine is a pure computation over immutable inputs. It holds no state
// between calls and is safe to invoke concurrently from independent callers.
package quality

import (
	"sort"
)

// MorphologyScorer measures how well beats inside a window match a
// representative beat template. Implementations may return one score per
// beat; the engine reduces the slice to its mean. Higher means more
// consistent beat shapes, ideally in [0,1].
type MorphologyScorer interface {
	Score(segment []float64, samplingRate int) ([]float64, error)
}

// Engine runs quality assessments. Construct with NewEngine; the zero value
// is not usable.
type Engine struct {
	cfg    EngineConfig
	scorer MorphologyScorer
	trace  TraceFunc
}

// Option customizes an Engine.
type Option func(*Engine)

// WithConfig replaces the default window geometry and thresholds.
func WithConfig(cfg EngineConfig) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithTrace installs a per-window trace hook.
func WithTrace(fn TraceFunc) Option {
	return func(e *Engine) {
		e.trace = fn
	}
}

// NewEngine returns an engine using the given morphology scorer. A nil
// scorer degrades every window's mSQI to 0 rather than failing.
func NewEngine(scorer MorphologyScorer, opts ...Option) *Engine {
	e := &Engine{
		cfg:    DefaultEngineConfig(),
		scorer: scorer,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// Assess scans the waveform and returns the aggregate quality report.
// peaks must be ascending sample indices into waveform. Assess never
// returns nil: whole-input failures (waveform shorter than one window,
// non-positive sampling rate) surface as a FAILED report.
func (e *Engine) Assess(waveform []float64, peaks []int, samplingRate int) *QualityReport {
	if samplingRate <= 0 {
		return e.failedReport(len(waveform), samplingRate, "sampling rate must be positive")
	}

	width := e.cfg.windowSamples(samplingRate)
	stride := e.cfg.strideSamples(samplingRate)
	maxStart := len(waveform) - width
	if maxStart < 0 {
		return e.failedReport(len(waveform), samplingRate, "signal shorter than one analysis window")
	}

	var windows []WindowMetrics
	var rejected []indexRange

	for start := 0; start <= maxStart; start += stride {
		end := start + width
		ordinal := start/stride + 1

		relativePeaks := selectRelativePeaks(peaks, start, end)

		m, ok := e.scanWindow(waveform[start:end], relativePeaks, samplingRate, start, end, ordinal)
		if !ok {
			// A single bad window must not halt the rest of the scan.
			rejected = append(rejected, indexRange{start, end})
			continue
		}
		windows = append(windows, m)
		if m.Tier.IsRejectable() {
			rejected = append(rejected, indexRange{start, end})
		}
	}

	return e.aggregate(windows, rejected, len(waveform), samplingRate)
}

// scanWindow evaluates one window, converting any panic from metric
// computation into a rejected window instead of aborting the scan.
func (e *Engine) scanWindow(segment []float64, relativePeaks []int, samplingRate, start, end, ordinal int) (m WindowMetrics, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.emit(TraceEvent{Window: ordinal, Tier: TierRejected, Note: "window evaluation failed"})
			ok = false
		}
	}()
	m = e.evaluateWindow(segment, relativePeaks, samplingRate, start, end, ordinal)
	return m, true
}

// selectRelativePeaks returns the subset of peaks in [start, end),
// re-expressed relative to start. peaks must be ascending.
func selectRelativePeaks(peaks []int, start, end int) []int {
	first := sort.SearchInts(peaks, start)
	var relative []int
	for i := first; i < len(peaks) && peaks[i] < end; i++ {
		relative = append(relative, peaks[i]-start)
	}
	return relative
}
