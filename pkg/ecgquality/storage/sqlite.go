// Package storage persists analysis history in SQLite through gorm. Each
// row keeps the summary columns for listing plus the full report JSON for
// retrieval.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultDBFile = "ecgquality.sqlite3"
const errDBClientNil = "db client is nil"

// DBClient wraps the gorm handle and the underlying sql.DB pool.
type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Analysis is one stored assessment.
type Analysis struct {
	ID              string  `gorm:"primaryKey;type:varchar(36)"`
	Filename        string  `gorm:"index:idx_filename" json:"filename"`
	SamplingRate    int     `json:"sampling_rate"`
	SampleCount     int     `json:"sample_count"`
	DurationSeconds float64 `json:"duration_seconds"`
	PeakCount       int     `json:"peak_count"`
	Status          string  `gorm:"index:idx_status" json:"status"`
	TotalWindows    int     `json:"total_windows"`
	GoodWindows     int     `json:"good_windows"`
	GoodPercentage  float64 `json:"good_percentage"`
	BestStartTime   float64 `json:"best_start_time"`
	BestEndTime     float64 `json:"best_end_time"`
	ReportJSON      string  `gorm:"type:text" json:"-"`
	CreatedAt       time.Time
}

// NewDBClient opens the database at ECG_DB_PATH or the default file.
func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("ECG_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

// NewDBClientWithPath opens (creating if needed) the SQLite database at
// dbPath and migrates the schema.
func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(dbPath) != "." {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Analysis{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveAnalysis inserts one analysis row.
func (c *DBClient) SaveAnalysis(a *Analysis) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	if err := c.DB.Create(a).Error; err != nil {
		return fmt.Errorf("creating analysis: %w", err)
	}
	return nil
}

// GetAnalysisByID returns the full row including the report JSON.
func (c *DBClient) GetAnalysisByID(id string) (*Analysis, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var a Analysis
	if err := c.DB.Where("id = ?", id).First(&a).Error; err != nil {
		return nil, fmt.Errorf("querying analysis %s: %w", id, err)
	}
	return &a, nil
}

// ListAnalyses returns all rows, newest first, without the report JSON
// payload.
func (c *DBClient) ListAnalyses() ([]Analysis, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rows []Analysis
	err := c.DB.
		Omit("ReportJSON").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	return rows, nil
}

// CountAnalyses returns the number of stored analyses.
func (c *DBClient) CountAnalyses() (int64, error) {
	if c == nil || c.DB == nil {
		return 0, errors.New(errDBClientNil)
	}
	var count int64
	if err := c.DB.Model(&Analysis{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting analyses: %w", err)
	}
	return count, nil
}

// DeleteAnalysisByID removes one row; deleting a missing row is not an
// error.
func (c *DBClient) DeleteAnalysisByID(id string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	if err := c.DB.Where("id = ?", id).Delete(&Analysis{}).Error; err != nil {
		return fmt.Errorf("deleting analysis %s: %w", id, err)
	}
	return nil
}
