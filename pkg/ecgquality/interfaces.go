package ecgquality

import (
	"context"

	"github.com/kianyew1/ecgquality/pkg/ecgquality/quality"
)

// Service is the public surface of the ECG quality assessment library.
type Service interface {
	// AnalyzeRecording decodes the recording at path, detects beats, runs
	// the sliding-window quality assessment, and persists the result.
	AnalyzeRecording(ctx context.Context, path string, opts AnalyzeOptions) (*AnalysisResult, error)
	GetAnalysisByID(id string) (*AnalysisRecord, error)
	ListAnalyses() ([]AnalysisRecord, error)
	DeleteAnalysis(id string) error
	Close() error
}

// Storage persists analysis history.
type Storage interface {
	SaveAnalysis(rec *AnalysisRecord) error
	GetAnalysisByID(id string) (*AnalysisRecord, error)
	ListAnalyses() ([]AnalysisRecord, error)
	CountAnalyses() (int64, error)
	DeleteAnalysisByID(id string) error
	Close() error
}

// Logger is the minimal logging surface the service needs.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// PeakDetector locates beats in a cleaned waveform. The returned indices
// must be ascending sample positions.
type PeakDetector interface {
	DetectPeaks(signal []float64, samplingRate int) ([]int, error)
}

// MorphologyScorer is the beat-shape consistency scorer consumed by the
// quality engine.
type MorphologyScorer = quality.MorphologyScorer
