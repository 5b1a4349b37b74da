package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Upload limits for POST /api/analyze
const (
	// MaxUploadBytes caps the size of one uploaded recording
	MaxUploadBytes = 50 << 20

	// MaxAnalysisDurationSeconds caps how much signal one request may analyze
	MaxAnalysisDurationSeconds = 300
)

// AnalyzeRequest carries the multipart form fields of POST /api/analyze
type AnalyzeRequest struct {
	// Filename is the original upload name; the extension selects the decoder
	Filename string

	// DurationSeconds limits the analyzed signal; 0 means the whole recording
	DurationSeconds float64

	// SamplingRate in Hz for text recordings; 0 uses the server default
	SamplingRate int

	// Channels is the ordered channel preference list, e.g. ["CH2", "CH3"]
	Channels []string
}

// Validate checks if the request is valid
func (r *AnalyzeRequest) Validate() error {
	ext := strings.ToLower(filepath.Ext(r.Filename))
	if ext != ".txt" && ext != ".wav" {
		return fmt.Errorf("unsupported file type %q: only .txt and .wav are accepted", ext)
	}
	if r.DurationSeconds < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	if r.DurationSeconds > MaxAnalysisDurationSeconds {
		return fmt.Errorf("duration too long: %.0f seconds (maximum: %d)", r.DurationSeconds, MaxAnalysisDurationSeconds)
	}
	if r.SamplingRate < 0 {
		return fmt.Errorf("sampling rate cannot be negative")
	}
	return nil
}

// AnalysisDTO summarizes one stored analysis in list responses
type AnalysisDTO struct {
	ID              string  `json:"id"`
	Filename        string  `json:"filename"`
	SamplingRate    int     `json:"sampling_rate"`
	DurationSeconds float64 `json:"duration_seconds"`
	PeakCount       int     `json:"peak_count"`
	Status          string  `json:"status"`
	TotalWindows    int     `json:"total_windows"`
	GoodWindows     int     `json:"good_windows"`
	GoodPercentage  float64 `json:"good_percentage"`
	BestStartTime   float64 `json:"best_start_time"`
	BestEndTime     float64 `json:"best_end_time"`
	CreatedAt       string  `json:"created_at"`
}

// ListAnalysesResponse is the response for GET /api/analyses
type ListAnalysesResponse struct {
	Analyses []AnalysisDTO `json:"analyses"`
	Count    int           `json:"count"`
}

// DeleteAnalysisResponse is the response for DELETE /api/analyses/{id}
type DeleteAnalysisResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// MetricsResponse provides server health and database metrics
type MetricsResponse struct {
	Status        string `json:"status"`
	DatabasePath  string `json:"database_path"`
	AnalysisCount int    `json:"analysis_count"`
	SamplingRate  int    `json:"sampling_rate"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
