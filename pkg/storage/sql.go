package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/impulsehq/impulse/pkg/core"
	"github.com/impulsehq/impulse/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// chartBlob is the single-row table holding the serialized collection. The
// whole-blob model keeps Save/List semantics identical to the key-value
// backends: full-collection overwrite, read-modify-write by callers.
type chartBlob struct {
	Key     string `gorm:"primaryKey"`
	Content string
}

func (chartBlob) TableName() string { return "chart_collections" }

// SQLStorage implements the core.ChartStorage interface using a SQL database via GORM
type SQLStorage struct {
	db  *gorm.DB
	log logger.Logger
}

// FromSQLite creates a SQLite-backed storage instance at the given path
func FromSQLite(dbPath string, log logger.Logger, opts ...gorm.Option) (*SQLStorage, error) {
	return FromSQL(sqlite.Open(dbPath), log, opts...)
}

// FromSQL creates a new SQL storage instance
func FromSQL(dialect gorm.Dialector, log logger.Logger, opts ...gorm.Option) (*SQLStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pooling parameters
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&chartBlob{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{
		db:  db,
		log: log,
	}, nil
}

// List retrieves the stored chart collection. A missing row or an
// unparseable blob yields an empty collection.
func (s *SQLStorage) List() []core.Chart {
	var blob chartBlob

	result := s.db.First(&blob, "key = ?", ChartsKey)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			s.log.WithError(result.Error).Warn("failed to read chart collection")
		}
		return []core.Chart{}
	}

	return decodeCharts(blob.Content, s.log)
}

// Save overwrites the stored chart collection
func (s *SQLStorage) Save(charts []core.Chart) error {
	content, err := json.Marshal(charts)
	if err != nil {
		return fmt.Errorf("failed to marshal charts: %w", err)
	}

	result := s.db.Save(&chartBlob{Key: ChartsKey, Content: string(content)})
	if result.Error != nil {
		return fmt.Errorf("failed to store charts: %w", result.Error)
	}

	return nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
