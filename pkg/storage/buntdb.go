package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/impulsehq/impulse/pkg/core"
	"github.com/impulsehq/impulse/pkg/logger"
	"github.com/tidwall/buntdb"
)

// BuntStorage implements the core.ChartStorage interface using BuntDB
type BuntStorage struct {
	db  *buntdb.DB
	log logger.Logger
}

// FromMemory creates an in-memory storage
func FromMemory(log logger.Logger) (*BuntStorage, error) {
	return NewBuntStorage(":memory:", log)
}

// FromFile creates a file-based storage
func FromFile(file string, log logger.Logger) (*BuntStorage, error) {
	return NewBuntStorage(file, log)
}

// NewBuntStorage creates a new BuntDB storage instance
func NewBuntStorage(sourceFile string, log logger.Logger) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	return &BuntStorage{
		db:  db,
		log: log,
	}, nil
}

// List retrieves the stored chart collection. A missing key or an
// unparseable blob yields an empty collection.
func (b *BuntStorage) List() []core.Chart {
	var raw string

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(ChartsKey)
		if err != nil {
			return err
		}
		raw = value
		return nil
	})
	if err != nil {
		if !errors.Is(err, buntdb.ErrNotFound) {
			b.log.WithError(err).Warn("failed to read chart collection")
		}
		return []core.Chart{}
	}

	return decodeCharts(raw, b.log)
}

// Save overwrites the stored chart collection
func (b *BuntStorage) Save(charts []core.Chart) error {
	content, err := json.Marshal(charts)
	if err != nil {
		return fmt.Errorf("failed to marshal charts: %w", err)
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(ChartsKey, string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store charts: %w", err)
		}
		return nil
	})
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
