package ecgquality

import (
	"encoding/json"
	"fmt"

	"github.com/kianyew1/ecgquality/pkg/ecgquality/quality"
	"github.com/kianyew1/ecgquality/pkg/ecgquality/storage"
)

// sqliteStorage adapts storage.DBClient to the Storage interface, converting
// between the domain record and the database row.
type sqliteStorage struct {
	db *storage.DBClient
}

// NewSQLiteStorage opens an analysis-history store backed by SQLite.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return &sqliteStorage{db: db}, nil
}

func (s *sqliteStorage) SaveAnalysis(rec *AnalysisRecord) error {
	row, err := toAnalysisRow(rec)
	if err != nil {
		return err
	}
	return s.db.SaveAnalysis(row)
}

func (s *sqliteStorage) GetAnalysisByID(id string) (*AnalysisRecord, error) {
	row, err := s.db.GetAnalysisByID(id)
	if err != nil {
		return nil, err
	}
	return fromAnalysisRow(row, true)
}

func (s *sqliteStorage) ListAnalyses() ([]AnalysisRecord, error) {
	rows, err := s.db.ListAnalyses()
	if err != nil {
		return nil, err
	}
	records := make([]AnalysisRecord, 0, len(rows))
	for i := range rows {
		rec, err := fromAnalysisRow(&rows[i], false)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (s *sqliteStorage) CountAnalyses() (int64, error) {
	return s.db.CountAnalyses()
}

func (s *sqliteStorage) DeleteAnalysisByID(id string) error {
	return s.db.DeleteAnalysisByID(id)
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

func toAnalysisRow(rec *AnalysisRecord) (*storage.Analysis, error) {
	row := &storage.Analysis{
		ID:              rec.ID,
		Filename:        rec.Filename,
		SamplingRate:    rec.SamplingRate,
		SampleCount:     rec.SampleCount,
		DurationSeconds: rec.DurationSeconds,
		PeakCount:       rec.PeakCount,
		Status:          string(rec.Status),
		TotalWindows:    rec.TotalWindows,
		GoodWindows:     rec.GoodWindows,
		GoodPercentage:  rec.GoodPercentage,
		BestStartTime:   rec.BestStartTime,
		BestEndTime:     rec.BestEndTime,
		CreatedAt:       rec.CreatedAt,
	}
	if rec.Report != nil {
		payload, err := json.Marshal(rec.Report)
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
		row.ReportJSON = string(payload)
	}
	return row, nil
}

func fromAnalysisRow(row *storage.Analysis, includeReport bool) (*AnalysisRecord, error) {
	rec := &AnalysisRecord{
		ID:              row.ID,
		Filename:        row.Filename,
		SamplingRate:    row.SamplingRate,
		SampleCount:     row.SampleCount,
		DurationSeconds: row.DurationSeconds,
		PeakCount:       row.PeakCount,
		Status:          quality.Status(row.Status),
		TotalWindows:    row.TotalWindows,
		GoodWindows:     row.GoodWindows,
		GoodPercentage:  row.GoodPercentage,
		BestStartTime:   row.BestStartTime,
		BestEndTime:     row.BestEndTime,
		CreatedAt:       row.CreatedAt,
	}
	if includeReport && row.ReportJSON != "" {
		var report quality.QualityReport
		if err := json.Unmarshal([]byte(row.ReportJSON), &report); err != nil {
			return nil, fmt.Errorf("decoding report for %s: %w", row.ID, err)
		}
		rec.Report = &report
	}
	return rec, nil
}
