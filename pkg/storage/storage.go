package storage

import (
	"encoding/json"

	"github.com/impulsehq/impulse/pkg/core"
	"github.com/impulsehq/impulse/pkg/logger"
)

// ChartsKey is the fixed key the serialized chart collection lives under
const ChartsKey = "impulse_charts"

// Store is a durable chart storage backend whose lifetime is managed by the
// caller
type Store interface {
	core.ChartStorage
	Close() error
}

// decodeCharts parses a persisted chart blob. Corruption is logged and
// degrades to an empty collection, never an error.
func decodeCharts(raw string, log logger.Logger) []core.Chart {
	var charts []core.Chart
	if err := json.Unmarshal([]byte(raw), &charts); err != nil {
		log.WithError(err).Warn("stored chart collection is unreadable, starting empty")
		return []core.Chart{}
	}

	if charts == nil {
		return []core.Chart{}
	}

	return charts
}

// KV is the minimal persistence port for a key-value chart store. It mirrors
// the original browser localStorage surface so an in-memory fake can stand
// in during tests.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// KVStorage implements core.ChartStorage over an injected key-value port
type KVStorage struct {
	kv  KV
	log logger.Logger
}

// NewKVStorage creates a chart store backed by the given key-value port
func NewKVStorage(kv KV, log logger.Logger) *KVStorage {
	return &KVStorage{kv: kv, log: log}
}

// List implements core.ChartStorage
func (s *KVStorage) List() []core.Chart {
	raw, ok := s.kv.Get(ChartsKey)
	if !ok {
		return []core.Chart{}
	}
	return decodeCharts(raw, s.log)
}

// Save implements core.ChartStorage
func (s *KVStorage) Save(charts []core.Chart) error {
	content, err := json.Marshal(charts)
	if err != nil {
		return err
	}
	return s.kv.Set(ChartsKey, string(content))
}

// MemoryKV is an in-memory KV port for tests and throwaway sessions
type MemoryKV struct {
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	value, ok := m.values[key]
	return value, ok
}

func (m *MemoryKV) Set(key, value string) error {
	m.values[key] = value
	return nil
}
