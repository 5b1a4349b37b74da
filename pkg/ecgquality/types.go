package ecgquality

import (
	"time"

	"github.com/kianyew1/ecgquality/pkg/ecgquality/quality"
)

// AnalyzeOptions tunes one analysis call. Zero values fall back to the
// service configuration.
type AnalyzeOptions struct {
	// SamplingRate in Hz for text recordings. WAV files carry their own
	// rate, which wins.
	SamplingRate int
	// DurationSeconds caps how much signal is analyzed; 0 means the whole
	// recording.
	DurationSeconds float64
	// Channels is the ADS1298 channel preference list; the first available
	// channel is analyzed.
	Channels []string
	// Filename is the original upload name kept on the stored record.
	Filename string
}

// RecordingMetadata describes the decoded recording.
type RecordingMetadata struct {
	RecordNumber      string   `json:"record_number,omitempty"`
	DateTime          string   `json:"datetime,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	Gain              string   `json:"gain,omitempty"`
	DurationSeconds   float64  `json:"duration_seconds"`
	SampleCount       int      `json:"sample_count"`
	SamplingRate      int      `json:"sampling_rate"`
	ChannelsAvailable []string `json:"channels_available,omitempty"`
	ProcessedChannel  string   `json:"processed_channel,omitempty"`
}

// RecordingStatistics summarizes heart rate over the whole recording,
// derived from the detected beat sequence.
type RecordingStatistics struct {
	HeartRateMean float64 `json:"heart_rate_mean"`
	HeartRateStd  float64 `json:"heart_rate_std"`
	HeartRateMin  float64 `json:"heart_rate_min"`
	HeartRateMax  float64 `json:"heart_rate_max"`
	PeakCount     int     `json:"r_peaks_count"`
}

// AnalysisResult is the complete outcome of one analysis call.
type AnalysisResult struct {
	ID         string                 `json:"id"`
	Metadata   RecordingMetadata      `json:"metadata"`
	Statistics RecordingStatistics    `json:"statistics"`
	Report     *quality.QualityReport `json:"report"`
}

// AnalysisRecord is a stored analysis. Listings omit the full report;
// GetAnalysisByID includes it.
type AnalysisRecord struct {
	ID              string                 `json:"id"`
	Filename        string                 `json:"filename"`
	SamplingRate    int                    `json:"sampling_rate"`
	SampleCount     int                    `json:"sample_count"`
	DurationSeconds float64                `json:"duration_seconds"`
	PeakCount       int                    `json:"peak_count"`
	Status          quality.Status         `json:"status"`
	TotalWindows    int                    `json:"total_windows"`
	GoodWindows     int                    `json:"good_windows"`
	GoodPercentage  float64                `json:"good_percentage"`
	BestStartTime   float64                `json:"best_start_time"`
	BestEndTime     float64                `json:"best_end_time"`
	Report          *quality.QualityReport `json:"report,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}
