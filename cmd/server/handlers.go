package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kianyew1/ecgquality/pkg/ecgquality"
	"github.com/kianyew1/ecgquality/pkg/logger"
	"github.com/kianyew1/ecgquality/pkg/utils"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service ecgquality.Service
	config  *ServerConfig
	log     ecgquality.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBPath         string
	TempDir        string
	SamplingRate   int
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service ecgquality.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "ECG Quality API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":         "GET /health",
			"metrics":        "GET /api/health/metrics",
			"analyze":        "POST /api/analyze",
			"listAnalyses":   "GET /api/analyses",
			"getAnalysis":    "GET /api/analyses/{id}",
			"deleteAnalysis": "DELETE /api/analyses/{id}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/health/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.service.ListAnalyses()
	if err != nil {
		s.log.Errorf("Failed to get analysis count: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}

	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:        "healthy",
		DatabasePath:  s.config.DBPath,
		AnalysisCount: len(analyses),
		SamplingRate:  s.config.SamplingRate,
	})
}

// handleAnalyze handles POST /api/analyze (multipart recording upload)
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		s.log.Errorf("Failed to parse form: %v", err)
		s.respondError(w, http.StatusBadRequest, "Failed to parse form data (is the file under 50 MB?)")
		return
	}

	req, err := parseAnalyzeForm(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.log.Errorf("Failed to get recording file: %v", err)
		s.respondError(w, http.StatusBadRequest, "recording file is required")
		return
	}
	defer file.Close()

	req.Filename = header.Filename
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Save to temporary file
	tempFile := filepath.Join(s.config.TempDir, fmt.Sprintf("ecg_%d_%s", time.Now().UnixNano(), header.Filename))
	out, err := os.Create(tempFile)
	if err != nil {
		s.log.Errorf("Failed to create temp file: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}
	defer out.Close()
	defer utils.DeleteFile(tempFile)

	if _, err := io.Copy(out, file); err != nil {
		s.log.Errorf("Failed to save file: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to save uploaded file")
		return
	}
	out.Close()

	s.log.Infof("Analyzing upload %s (%s)", header.Filename, humanize.Bytes(uint64(header.Size)))
	result, err := s.service.AnalyzeRecording(ctx, tempFile, ecgquality.AnalyzeOptions{
		SamplingRate:    req.SamplingRate,
		DurationSeconds: req.DurationSeconds,
		Channels:        req.Channels,
		Filename:        header.Filename,
	})
	if err != nil {
		s.log.Errorf("Failed to analyze recording: %v", err)
		s.respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Failed to analyze recording: %v", err))
		return
	}

	s.log.Infof("Analysis complete: %s (%s)", result.ID, result.Report.Summary.Status)
	s.respondJSON(w, http.StatusOK, result)
}

// parseAnalyzeForm reads the optional form fields of POST /api/analyze
func parseAnalyzeForm(r *http.Request) (*AnalyzeRequest, error) {
	req := &AnalyzeRequest{}

	if v := r.FormValue("duration"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", v)
		}
		req.DurationSeconds = d
	}
	if v := r.FormValue("sampling_rate"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid sampling_rate %q", v)
		}
		req.SamplingRate = rate
	}
	if v := r.FormValue("channels"); v != "" {
		for _, ch := range strings.Split(v, ",") {
			if ch = strings.TrimSpace(ch); ch != "" {
				req.Channels = append(req.Channels, strings.ToUpper(ch))
			}
		}
	}
	return req, nil
}

// handleListAnalyses handles GET /api/analyses
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.service.ListAnalyses()
	if err != nil {
		s.log.Errorf("Failed to list analyses: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve analyses")
		return
	}

	dtos := make([]AnalysisDTO, len(analyses))
	for i, a := range analyses {
		dtos[i] = AnalysisDTO{
			ID:              a.ID,
			Filename:        a.Filename,
			SamplingRate:    a.SamplingRate,
			DurationSeconds: a.DurationSeconds,
			PeakCount:       a.PeakCount,
			Status:          string(a.Status),
			TotalWindows:    a.TotalWindows,
			GoodWindows:     a.GoodWindows,
			GoodPercentage:  a.GoodPercentage,
			BestStartTime:   a.BestStartTime,
			BestEndTime:     a.BestEndTime,
			CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		}
	}

	s.respondJSON(w, http.StatusOK, ListAnalysesResponse{
		Analyses: dtos,
		Count:    len(dtos),
	})
}

// handleGetAnalysis handles GET /api/analyses/{id}
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	record, err := s.service.GetAnalysisByID(id)
	if err != nil {
		s.log.Warnf("Analysis not found: %s", id)
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Analysis %s not found", id))
		return
	}

	s.respondJSON(w, http.StatusOK, record)
}

// handleDeleteAnalysis handles DELETE /api/analyses/{id}
func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := s.service.GetAnalysisByID(id); err != nil {
		s.log.Warnf("Analysis not found for deletion: %s", id)
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Analysis %s not found", id))
		return
	}

	if err := s.service.DeleteAnalysis(id); err != nil {
		s.log.Errorf("Failed to delete analysis %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to delete analysis")
		return
	}

	s.log.Infof("Deleted analysis %s", id)
	s.respondJSON(w, http.StatusOK, DeleteAnalysisResponse{
		Message: "Analysis deleted successfully",
		ID:      id,
	})
}

// handleAnalyzeRoute routes requests to /api/analyze
func (s *Server) handleAnalyzeRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleAnalyze(w, r)
}

// handleAnalyses routes requests to /api/analyses
func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleListAnalyses(w, r)
}

// handleAnalysis routes requests to /api/analyses/{id}
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/api/analyses/"):]
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "Analysis ID required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetAnalysis(w, r, id)
	case http.MethodDelete:
		s.handleDeleteAnalysis(w, r, id)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
