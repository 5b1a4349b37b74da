package morphology

import (
	"errors"
	"math"
	"testing"
)

// stubLocator returns a fixed beat list, keeping the scorer deterministic.
type stubLocator struct {
	beats []int
	err   error
}

func (s stubLocator) DetectPeaks(signal []float64, samplingRate int) ([]int, error) {
	return s.beats, s.err
}

// beatSegment builds a segment with the same gaussian bump at every beat
// position.
func beatSegment(length int, beats []int, samplingRate int) []float64 {
	segment := make([]float64, length)
	width := float64(samplingRate) / 25.0
	for _, b := range beats {
		for i := range segment {
			d := float64(i - b)
			segment[i] += math.Exp(-d * d / (2 * width * width))
		}
	}
	return segment
}

func TestScoreIdenticalBeats(t *testing.T) {
	const rate = 500
	beats := []int{1000, 1500, 2000, 2500, 3000}
	segment := beatSegment(5000, beats, rate)

	m := NewTemplateMatcher(stubLocator{beats: beats})
	scores, err := m.Score(segment, rate)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if len(scores) != len(beats) {
		t.Fatalf("got %d scores, want one per beat (%d)", len(scores), len(beats))
	}
	for i, s := range scores {
		if s < 0.99 {
			t.Errorf("score[%d] = %v, want near 1 for identical beats", i, s)
		}
	}
}

func TestScoreSkipsEdgeTruncatedBeats(t *testing.T) {
	const rate = 500
	// Beats at 50 and 4980 cannot fit a full ±250 ms frame.
	beats := []int{50, 1000, 1500, 2000, 4980}
	segment := beatSegment(5000, beats, rate)

	m := NewTemplateMatcher(stubLocator{beats: beats})
	scores, err := m.Score(segment, rate)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("got %d scores, want 3 (edge beats skipped)", len(scores))
	}
}

func TestScoreTooFewBeats(t *testing.T) {
	const rate = 500
	beats := []int{1000, 2000}
	segment := beatSegment(5000, beats, rate)

	m := NewTemplateMatcher(stubLocator{beats: beats})
	if _, err := m.Score(segment, rate); err == nil {
		t.Error("expected error with fewer than 3 complete beats")
	}
}

func TestScoreLocatorFailure(t *testing.T) {
	m := NewTemplateMatcher(stubLocator{err: errors.New("detector blew up")})
	if _, err := m.Score(make([]float64, 5000), 500); err == nil {
		t.Error("expected locator error to propagate")
	}
}

func TestScoreDissimilarBeatScoresLower(t *testing.T) {
	const rate = 500
	beats := []int{1000, 1500, 2000, 2500}
	segment := beatSegment(5000, beats, rate)

	// Corrupt the neighborhood of one beat with an inverted bump.
	for i := 1900; i < 2100; i++ {
		segment[i] = -segment[i]
	}

	m := NewTemplateMatcher(stubLocator{beats: beats})
	scores, err := m.Score(segment, rate)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	// The corrupted beat (third) should score visibly below the clean ones.
	if scores[2] >= scores[0] {
		t.Errorf("corrupted beat score %v not below clean beat score %v", scores[2], scores[0])
	}
}
