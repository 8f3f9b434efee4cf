package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func sqliteStore(t *testing.T, path string) *SQLStorage {
	t.Helper()
	store, err := FromSQLite(path, testLogger())
	require.NoError(t, err)
	return store
}

func TestSQLStorage_RoundTrip(t *testing.T) {
	store := sqliteStore(t, filepath.Join(t.TempDir(), "charts.db"))
	defer store.Close()

	assert.Empty(t, store.List())

	charts := sampleCharts()
	require.NoError(t, store.Save(charts))

	// Element-wise equality, impulse order included
	assert.Equal(t, charts, store.List())
}

func TestSQLStorage_SaveOverwritesWholeCollection(t *testing.T) {
	store := sqliteStore(t, filepath.Join(t.TempDir(), "charts.db"))
	defer store.Close()

	require.NoError(t, store.Save(sampleCharts()))
	require.NoError(t, store.Save(nil))

	assert.Empty(t, store.List())
}

func TestSQLStorage_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.db")

	store := sqliteStore(t, path)
	charts := sampleCharts()
	require.NoError(t, store.Save(charts))
	require.NoError(t, store.Close())

	reopened := sqliteStore(t, path)
	defer reopened.Close()

	assert.Equal(t, charts, reopened.List())
}

func TestSQLStorage_MalformedBlobDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.db")

	store := sqliteStore(t, path)
	require.NoError(t, store.Save(sampleCharts()))
	require.NoError(t, store.Close())

	// Clobber the stored row underneath the storage layer
	db, err := gorm.Open(sqlite.Open(path))
	require.NoError(t, err)
	require.NoError(t, db.Save(&chartBlob{Key: ChartsKey, Content: "definitely not json"}).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	reopened := sqliteStore(t, path)
	defer reopened.Close()

	assert.NotNil(t, reopened.List())
	assert.Empty(t, reopened.List())
}
