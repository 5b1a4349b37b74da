// Package ecgquality assesses the usable quality of ambulatory ECG
// recordings. The facade decodes a recording, detects beats, runs the
// sliding-window quality engine, and keeps an analysis history; the
// numerical collaborators (peak detection, morphology scoring) are injected
// interfaces so the engine can be exercised with deterministic stubs.
package ecgquality

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kianyew1/ecgquality/pkg/ecgquality/detect"
	"github.com/kianyew1/ecgquality/pkg/ecgquality/morphology"
	"github.com/kianyew1/ecgquality/pkg/ecgquality/quality"
	"github.com/kianyew1/ecgquality/pkg/ecgquality/signalio"
	"github.com/kianyew1/ecgquality/pkg/ecgquality/stats"
	"github.com/kianyew1/ecgquality/pkg/logger"
)

// ecgService is the default implementation of the Service interface.
type ecgService struct {
	storage  Storage
	log      Logger
	config   *Config
	detector PeakDetector
	engine   *quality.Engine
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.Detector == nil {
		cfg.Detector = detect.NewDetector()
	}
	if cfg.Scorer == nil {
		cfg.Scorer = morphology.NewTemplateMatcher(cfg.Detector)
	}

	var stor Storage
	var err error
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		stor, err = NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	svc := &ecgService{
		storage:  stor,
		log:      cfg.Logger,
		config:   cfg,
		detector: cfg.Detector,
	}
	svc.engine = quality.NewEngine(cfg.Scorer,
		quality.WithConfig(cfg.Engine),
		quality.WithTrace(svc.traceWindow),
	)
	return svc, nil
}

// traceWindow forwards engine events to debug logging, replacing the
// diagnostic table the engine would otherwise have to print itself.
func (s *ecgService) traceWindow(ev quality.TraceEvent) {
	if ev.Note != "" {
		s.log.Debugf("window %3d | %s -> %s", ev.Window, ev.Note, ev.Tier)
		return
	}
	s.log.Debugf("window %3d | mSQI %.3f | kSQI %6.2f | HR %3.0f | SDNN %4.0f | %s",
		ev.Window, ev.MSQI, ev.KSQI, ev.HeartRate, ev.SDNN, ev.Tier)
}

// AnalyzeRecording runs the full pipeline for one uploaded recording.
func (s *ecgService) AnalyzeRecording(ctx context.Context, path string, opts AnalyzeOptions) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samplingRate := opts.SamplingRate
	if samplingRate <= 0 {
		samplingRate = s.config.SamplingRate
	}
	channels := opts.Channels
	if len(channels) == 0 {
		channels = s.config.Channels
	}

	var meta RecordingMetadata
	var samples []float64

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		rec, err := signalio.ParseADS1298(path)
		if err != nil {
			return nil, fmt.Errorf("parsing ADS1298 recording: %w", err)
		}
		channel, channelSamples, err := rec.SelectChannel(channels)
		if err != nil {
			return nil, err
		}
		samples = channelSamples
		meta = RecordingMetadata{
			RecordNumber:      rec.RecordNumber,
			DateTime:          rec.DateTime,
			Notes:             rec.Notes,
			Gain:              rec.Gain,
			ChannelsAvailable: rec.AvailableChannels(channels),
			ProcessedChannel:  channel,
		}
		s.log.Infof("Loaded ADS1298 recording: %d samples, channel %s", len(samples), channel)

	case ".wav":
		wavSamples, wavRate, err := signalio.ReadWAV(path)
		if err != nil {
			return nil, fmt.Errorf("reading WAV recording: %w", err)
		}
		samples = wavSamples
		samplingRate = wavRate
		meta = RecordingMetadata{ProcessedChannel: "WAV"}
		s.log.Infof("Loaded WAV recording: %d samples at %d Hz", len(samples), samplingRate)

	default:
		return nil, fmt.Errorf("unsupported recording format %q: only .txt and .wav are supported", ext)
	}

	duration := opts.DurationSeconds
	if max := s.config.MaxDurationSeconds; max > 0 && (duration <= 0 || duration > max) {
		duration = max
	}
	if duration > 0 {
		maxSamples := int(duration * float64(samplingRate))
		if maxSamples < len(samples) {
			samples = samples[:maxSamples]
		}
	}

	meta.SampleCount = len(samples)
	meta.SamplingRate = samplingRate
	meta.DurationSeconds = float64(len(samples)) / float64(samplingRate)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The engine assumes a pre-cleaned waveform; conditioning happens here,
	// before beat detection.
	cleaned := detect.Clean(samples, samplingRate)

	var report *quality.QualityReport
	peaks, err := s.detector.DetectPeaks(cleaned, samplingRate)
	if err != nil {
		s.log.Warnf("Peak detection failed: %v", err)
		report = quality.NewFailedReport(s.engine.Config(), len(cleaned), samplingRate,
			fmt.Sprintf("peak detection failed: %v", err))
		peaks = nil
	} else {
		s.log.Infof("Detected %d R-peaks", len(peaks))
		report = s.engine.Assess(cleaned, peaks, samplingRate)
	}

	result := &AnalysisResult{
		ID:         uuid.NewString(),
		Metadata:   meta,
		Statistics: recordingStatistics(peaks, samplingRate),
		Report:     report,
	}

	filename := opts.Filename
	if filename == "" {
		filename = filepath.Base(path)
	}
	record := &AnalysisRecord{
		ID:              result.ID,
		Filename:        filename,
		SamplingRate:    samplingRate,
		SampleCount:     meta.SampleCount,
		DurationSeconds: meta.DurationSeconds,
		PeakCount:       len(peaks),
		Status:          report.Summary.Status,
		TotalWindows:    report.Summary.TotalWindows,
		GoodWindows:     report.Summary.GoodWindows,
		GoodPercentage:  report.Summary.GoodPercentage,
		BestStartTime:   report.BestSegment.StartTime,
		BestEndTime:     report.BestSegment.EndTime,
		Report:          report,
		CreatedAt:       time.Now().UTC(),
	}
	// History persistence is secondary to returning the assessment.
	if err := s.storage.SaveAnalysis(record); err != nil {
		s.log.Warnf("Failed to persist analysis %s: %v", record.ID, err)
	}

	s.log.Infof("Analysis %s: %d windows, %d good (%.1f%%), status %s",
		result.ID, report.Summary.TotalWindows, report.Summary.GoodWindows,
		report.Summary.GoodPercentage, report.Summary.Status)
	return result, nil
}

// recordingStatistics derives whole-recording heart-rate statistics from
// the detected beat sequence.
func recordingStatistics(peaks []int, samplingRate int) RecordingStatistics {
	st := RecordingStatistics{PeakCount: len(peaks)}
	if len(peaks) < 2 || samplingRate <= 0 {
		return st
	}
	rates := make([]float64, 0, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		interval := float64(peaks[i]-peaks[i-1]) / float64(samplingRate)
		if interval > 0 {
			rates = append(rates, 60.0/interval)
		}
	}
	if len(rates) == 0 {
		return st
	}
	st.HeartRateMean = stats.SafeFloat(stats.Mean(rates))
	st.HeartRateStd = stats.SafeFloat(stats.Std(rates))
	min, max := stats.MinMax(rates)
	st.HeartRateMin = stats.SafeFloat(min)
	st.HeartRateMax = stats.SafeFloat(max)
	return st
}

func (s *ecgService) GetAnalysisByID(id string) (*AnalysisRecord, error) {
	return s.storage.GetAnalysisByID(id)
}

func (s *ecgService) ListAnalyses() ([]AnalysisRecord, error) {
	return s.storage.ListAnalyses()
}

func (s *ecgService) DeleteAnalysis(id string) error {
	return s.storage.DeleteAnalysisByID(id)
}

// Close releases all resources held by the service.
func (s *ecgService) Close() error {
	return s.storage.Close()
}
