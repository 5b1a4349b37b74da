// Package morphology implements the default template-matching morphology
// scorer: beats inside a window are averaged into a representative template
// and each beat is scored by its correlation against that template.
package morphology

import (
	"errors"
	"fmt"

	"github.com/kianyew1/ecgquality/pkg/ecgquality/stats"
)

// BeatLocator finds beat positions inside a segment. The detect package's
// Detector satisfies this.
type BeatLocator interface {
	DetectPeaks(signal []float64, samplingRate int) ([]int, error)
}

// TemplateMatcher scores beat-shape consistency. It satisfies the quality
// engine's MorphologyScorer interface.
type TemplateMatcher struct {
	locator BeatLocator
	// BeatRadiusSeconds is the half-width of the frame extracted around
	// each beat.
	BeatRadiusSeconds float64
	// MinBeats below which the segment cannot be scored.
	MinBeats int
}

// NewTemplateMatcher returns a matcher using the given beat locator and a
// ±250 ms beat frame.
func NewTemplateMatcher(locator BeatLocator) *TemplateMatcher {
	return &TemplateMatcher{
		locator:           locator,
		BeatRadiusSeconds: 0.250,
		MinBeats:          3,
	}
}

// Score returns one correlation score per scorable beat, each in [-1,1] and
// near 1 for consistent beat shapes. It errors when too few complete beats
// fit inside the segment; the engine treats that as a zero score.
func (m *TemplateMatcher) Score(segment []float64, samplingRate int) ([]float64, error) {
	if samplingRate <= 0 {
		return nil, errors.New("sampling rate must be positive")
	}

	beats, err := m.locator.DetectPeaks(segment, samplingRate)
	if err != nil {
		return nil, fmt.Errorf("locating beats: %w", err)
	}

	radius := int(m.BeatRadiusSeconds * float64(samplingRate))
	frames := extractBeatFrames(segment, beats, radius)
	if len(frames) < m.MinBeats {
		return nil, fmt.Errorf("need at least %d complete beats, found %d", m.MinBeats, len(frames))
	}

	template := averageFrames(frames, 2*radius)

	scores := make([]float64, len(frames))
	for i, frame := range frames {
		scores[i] = stats.SafeFloat(stats.Correlation(frame, template))
	}
	return scores, nil
}

// extractBeatFrames returns the fixed-width frame around each beat, skipping
// beats whose frame would be truncated by a segment edge.
func extractBeatFrames(segment []float64, beats []int, radius int) [][]float64 {
	var frames [][]float64
	for _, b := range beats {
		lo := b - radius
		hi := b + radius
		if lo < 0 || hi > len(segment) {
			continue
		}
		frames = append(frames, segment[lo:hi])
	}
	return frames
}

func averageFrames(frames [][]float64, width int) []float64 {
	template := make([]float64, width)
	for _, frame := range frames {
		for i, v := range frame {
			template[i] += v
		}
	}
	for i := range template {
		template[i] /= float64(len(frames))
	}
	return template
}
