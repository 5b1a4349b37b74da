package quality

import (
	"math"
	"reflect"
	"testing"
)

// panicScorer simulates a numerical routine blowing up mid-window.
type panicScorer struct{}

func (panicScorer) Score(segment []float64, samplingRate int) ([]float64, error) {
	panic("numerical failure")
}

// beatWaveform builds a waveform of the given length with unit spikes every
// interval samples, returning the waveform and the spike positions.
func beatWaveform(length, interval int) ([]float64, []int) {
	waveform := make([]float64, length)
	var peaks []int
	for i := interval; i < length; i += interval {
		waveform[i] = 1.0
		peaks = append(peaks, i)
	}
	return waveform, peaks
}

func TestAssessShortWaveform(t *testing.T) {
	e := NewEngine(fixedScorer{scores: []float64{0.9}})

	waveform, peaks := beatWaveform(4000, 500)
	report := e.Assess(waveform, peaks, 500)

	if report.Summary.Status != StatusFailed {
		t.Errorf("Status = %v, want %v", report.Summary.Status, StatusFailed)
	}
	if report.Summary.TotalWindows != 0 {
		t.Errorf("TotalWindows = %d, want 0", report.Summary.TotalWindows)
	}
	if report.Summary.Reason == "" {
		t.Error("expected an explanatory reason on a FAILED report")
	}
	// Best segment defaults to the whole (short) waveform
	if report.BestSegment.StartIdx != 0 || report.BestSegment.EndIdx != 4000 {
		t.Errorf("BestSegment = [%d, %d), want [0, 4000)",
			report.BestSegment.StartIdx, report.BestSegment.EndIdx)
	}
	if report.BestSegment.EndTime != 8.0 {
		t.Errorf("BestSegment.EndTime = %v, want 8", report.BestSegment.EndTime)
	}
}

func TestAssessInvalidSamplingRate(t *testing.T) {
	e := NewEngine(fixedScorer{scores: []float64{0.9}})

	waveform, peaks := beatWaveform(5000, 500)
	report := e.Assess(waveform, peaks, 0)
	if report.Summary.Status != StatusFailed {
		t.Errorf("Status = %v, want %v", report.Summary.Status, StatusFailed)
	}
}

func TestAssessExactlyOneWindow(t *testing.T) {
	e := NewEngine(fixedScorer{scores: []float64{0.9}})

	// Exactly one window's worth of samples must yield exactly one window.
	waveform, peaks := beatWaveform(5000, 500)
	report := e.Assess(waveform, peaks, 500)

	if report.Summary.TotalWindows != 1 {
		t.Fatalf("TotalWindows = %d, want 1", report.Summary.TotalWindows)
	}
	w := report.Windows[0]
	if w.Window != 1 || w.StartIdx != 0 || w.EndIdx != 5000 {
		t.Errorf("window = %d [%d, %d), want 1 [0, 5000)", w.Window, w.StartIdx, w.EndIdx)
	}
}

func TestAssessWindowPlacement(t *testing.T) {
	e := NewEngine(fixedScorer{scores: []float64{0.9}})

	// 30 s at 500 Hz: starts 0..10000 in steps of 500 gives 21 windows.
	waveform, peaks := beatWaveform(15000, 500)
	report := e.Assess(waveform, peaks, 500)

	if report.Summary.TotalWindows != 21 {
		t.Fatalf("TotalWindows = %d, want 21", report.Summary.TotalWindows)
	}
	for i, w := range report.Windows {
		if w.Window != i+1 {
			t.Errorf("window %d has ordinal %d, want %d", i, w.Window, i+1)
		}
		if w.EndIdx-w.StartIdx != 5000 {
			t.Errorf("window %d spans %d samples, want 5000", w.Window, w.EndIdx-w.StartIdx)
		}
		if i > 0 && w.StartIdx-report.Windows[i-1].StartIdx != 500 {
			t.Errorf("window %d stride = %d samples, want 500", w.Window, w.StartIdx-report.Windows[i-1].StartIdx)
		}
	}
}

func TestAssessGoodWaveform(t *testing.T) {
	e := NewEngine(fixedScorer{scores: []float64{0.9}})

	waveform, peaks := beatWaveform(15000, 500)
	report := e.Assess(waveform, peaks, 500)

	if report.Summary.Status != StatusSuccess {
		t.Errorf("Status = %v, want %v", report.Summary.Status, StatusSuccess)
	}
	if report.Summary.GoodWindows != report.Summary.TotalWindows {
		t.Errorf("GoodWindows = %d, want all %d",
			report.Summary.GoodWindows, report.Summary.TotalWindows)
	}
	if report.Summary.GoodPercentage != 100.0 {
		t.Errorf("GoodPercentage = %v, want 100", report.Summary.GoodPercentage)
	}
	if len(report.RejectedSegments) != 0 {
		t.Errorf("RejectedSegments = %d, want 0", len(report.RejectedSegments))
	}
	if !report.Windows[0].Tier.IsGood() {
		t.Errorf("first window tier = %v, want a good tier", report.Windows[0].Tier)
	}
}

func TestAssessRejectedRangesCollected(t *testing.T) {
	e := NewEngine(fixedScorer{scores: []float64{0.9}})

	// A pure sine has kurtosis 1.5, below the artifact threshold, so every
	// window is REJECTED despite the strong morphology score.
	waveform := make([]float64, 15000)
	var peaks []int
	for i := range waveform {
		waveform[i] = math.Sin(2 * math.Pi * float64(i) / 500.0)
		if i > 0 && i%500 == 0 {
			peaks = append(peaks, i)
		}
	}
	report := e.Assess(waveform, peaks, 500)

	if report.Summary.RejectedWindows != report.Summary.TotalWindows {
		t.Errorf("RejectedWindows = %d, want all %d",
			report.Summary.RejectedWindows, report.Summary.TotalWindows)
	}
	if len(report.RejectedSegments) != report.Summary.TotalWindows {
		t.Errorf("RejectedSegments = %d, want %d",
			len(report.RejectedSegments), report.Summary.TotalWindows)
	}
	if report.Summary.Status != StatusWarning {
		t.Errorf("Status = %v, want %v", report.Summary.Status, StatusWarning)
	}
	// Ranges carry time bounds derived from sample bounds
	first := report.RejectedSegments[0]
	if first.StartTime != 0 || first.EndTime != 10.0 {
		t.Errorf("first rejected range time bounds = (%v, %v), want (0, 10)",
			first.StartTime, first.EndTime)
	}
}

func TestAssessSurvivesPanickingScorer(t *testing.T) {
	e := NewEngine(panicScorer{})

	waveform, peaks := beatWaveform(15000, 500)
	report := e.Assess(waveform, peaks, 500)

	// Every window panics, so none are recorded, but each contributes a
	// rejected range and the scan runs to completion.
	if report.Summary.Status != StatusFailed {
		t.Errorf("Status = %v, want %v", report.Summary.Status, StatusFailed)
	}
	if report.Summary.TotalWindows != 0 {
		t.Errorf("TotalWindows = %d, want 0", report.Summary.TotalWindows)
	}
	if len(report.RejectedSegments) != 21 {
		t.Errorf("RejectedSegments = %d, want 21", len(report.RejectedSegments))
	}
}

func TestAssessPartitionInvariant(t *testing.T) {
	e := NewEngine(fixedScorer{scores: []float64{0.9}})

	waveforms := [][]float64{}
	peakSets := [][]int{}

	good, goodPeaks := beatWaveform(15000, 500)
	waveforms = append(waveforms, good)
	peakSets = append(peakSets, goodPeaks)

	sparse, sparsePeaks := beatWaveform(15000, 4000)
	waveforms = append(waveforms, sparse)
	peakSets = append(peakSets, sparsePeaks)

	for i := range waveforms {
		report := e.Assess(waveforms[i], peakSets[i], 500)
		s := report.Summary
		if s.GoodWindows+s.RejectedWindows+s.UnreliableWindows != s.TotalWindows {
			t.Errorf("waveform %d: %d + %d + %d != %d", i,
				s.GoodWindows, s.RejectedWindows, s.UnreliableWindows, s.TotalWindows)
		}
	}
}

func TestAssessDeterministic(t *testing.T) {
	e := NewEngine(fixedScorer{scores: []float64{0.9}})

	waveform, peaks := beatWaveform(15000, 500)
	first := e.Assess(waveform, peaks, 500)
	second := e.Assess(waveform, peaks, 500)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated assessment of identical input produced different reports")
	}
}

func TestAssessTraceEmission(t *testing.T) {
	var events []TraceEvent
	e := NewEngine(fixedScorer{scores: []float64{0.9}},
		WithTrace(func(ev TraceEvent) { events = append(events, ev) }))

	waveform, peaks := beatWaveform(15000, 500)
	report := e.Assess(waveform, peaks, 500)

	if len(events) != report.Summary.TotalWindows {
		t.Errorf("trace events = %d, want one per window (%d)",
			len(events), report.Summary.TotalWindows)
	}
}

func TestSelectRelativePeaks(t *testing.T) {
	peaks := []int{100, 600, 1100, 1600, 2100}

	relative := selectRelativePeaks(peaks, 500, 2000)
	want := []int{100, 600, 1100}
	if !reflect.DeepEqual(relative, want) {
		t.Errorf("selectRelativePeaks = %v, want %v", relative, want)
	}

	// Half-open range: a peak exactly at end is excluded, at start included
	relative = selectRelativePeaks(peaks, 600, 1600)
	want = []int{0, 500}
	if !reflect.DeepEqual(relative, want) {
		t.Errorf("selectRelativePeaks = %v, want %v", relative, want)
	}

	if got := selectRelativePeaks(peaks, 3000, 4000); got != nil {
		t.Errorf("selectRelativePeaks outside range = %v, want nil", got)
	}
}
