package iocache

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func tempDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func resetManager() {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestCacheStoreSQLite(t *testing.T) {
	store, err := NewCacheStore(figuresTable, schema.SQLiteBackend, tempDBPath(t, "figures.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	t.Run("missing key", func(t *testing.T) {
		_, _, _, err := store.Get("absent")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set("k1", []byte(`{"name":"trends"}`), 1, 1700000000))
		value, version, ts, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"name":"trends"}`), value)
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, store.Set("k1", []byte("v2"), 2, 1700000100))
		value, version, _, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), value)
		assert.Equal(t, 2, version)
	})

	t.Run("status", func(t *testing.T) {
		require.NoError(t, store.Set("k2", []byte("v"), 1, 1600000000))
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, time.Unix(1600000000, 0), status.OldestEntryTime)
		assert.Equal(t, time.Unix(1700000100, 0), status.LastEntryTime)
		assert.Positive(t, status.TableSizeBytes)
	})
}

func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore(figuresTable, schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Set("k", []byte("v"), 1, 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("figures; DROP TABLE x", schema.SQLiteBackend, tempDBPath(t, "bad.db"))
	assert.Error(t, err)

	_, err = NewCacheStore(figuresTable, schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestViewStoreSQLite(t *testing.T) {
	path := tempDBPath(t, "views.db")
	store, err := NewViewStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	t0 := time.Date(2025, 3, 1, 10, 0, 0, 123456789, time.UTC)
	first := schema.ViewEvent{
		ViewTime:   t0,
		Output:     schema.TrendsOutput,
		Selection:  schema.Selection{Start: 2000, End: 2024, Metrics: []string{"Cargo Tons", "Passengers"}, Volume: schema.PassengerVolume},
		DatasetSHA: "abc123",
		Points:     50,
		Duration:   15 * time.Millisecond,
	}
	second := first
	second.ViewTime = t0.Add(time.Minute)
	second.Output = schema.VolumesOutput
	second.Selection.Metrics = nil
	second.CacheHit = true

	id1, err := store.RecordView(first)
	require.NoError(t, err)
	id2, err := store.RecordView(second)
	require.NoError(t, err)
	assert.Less(t, id1, id2)

	t.Run("all views oldest first", func(t *testing.T) {
		records, err := store.GetViews(time.Time{})
		require.NoError(t, err)
		require.Len(t, records, 2)

		r := records[0]
		assert.Equal(t, id1, r.ViewID)
		assert.True(t, t0.Equal(r.ViewTime))
		assert.Equal(t, "trends", r.Output)
		assert.Equal(t, int32(2000), r.YearStart)
		assert.Equal(t, int32(2024), r.YearEnd)
		assert.Equal(t, "Cargo Tons|Passengers", r.Metrics)
		assert.Equal(t, "passenger", r.Volume)
		assert.Equal(t, int32(50), r.Points)
		assert.Equal(t, int32(15), r.DurationMs)
		assert.False(t, r.CacheHit)

		assert.Equal(t, "", records[1].Metrics)
		assert.True(t, records[1].CacheHit)
	})

	t.Run("since filter", func(t *testing.T) {
		records, err := store.GetViews(t0.Add(30 * time.Second))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, id2, records[0].ViewID)
	})

	t.Run("status", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, 2, status.TotalViews)
		assert.Equal(t, id2, status.LastViewID)
		assert.Equal(t, 1, status.CacheHits)
		assert.Equal(t, uint(2), status.SchemaVersion)
		assert.True(t, t0.Equal(status.OldestViewTime))
		assert.True(t, second.ViewTime.Equal(status.LastViewTime))
		assert.Equal(t, int64(2), status.TableSizes[viewsTable])
	})
}

func TestViewStoreNoneBackend(t *testing.T) {
	store, err := NewViewStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.RecordView(schema.ViewEvent{Output: schema.TrendsOutput})
	require.NoError(t, err)
	assert.Zero(t, id)

	records, err := store.GetViews(time.Time{})
	require.NoError(t, err)
	assert.Empty(t, records)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestMigrateViews(t *testing.T) {
	path := tempDBPath(t, "migrate.db")

	require.NoError(t, MigrateViews(schema.SQLiteBackend, path, 1))
	v, err := viewsSchemaVersion(schema.SQLiteBackend, path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	require.NoError(t, MigrateViews(schema.SQLiteBackend, path, -1))
	v, err = viewsSchemaVersion(schema.SQLiteBackend, path)
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)

	// Running again is a no-op
	require.NoError(t, MigrateViews(schema.SQLiteBackend, path, -1))

	require.NoError(t, MigrateViews(schema.SQLiteBackend, path, 0))
	v, err = viewsSchemaVersion(schema.SQLiteBackend, path)
	require.NoError(t, err)
	assert.Zero(t, v)

	db, err := openDB(schema.SQLiteBackend, path, "")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", viewsTable).Scan(&count))
	assert.Zero(t, count)

	assert.Error(t, MigrateViews(schema.NoneBackend, "", -1))
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		resetManager()
		defer resetManager()

		err := InitStores(schema.SQLiteBackend, tempDBPath(t, "c.db"), schema.SQLiteBackend, tempDBPath(t, "v.db"))
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetFigureStore())
		assert.NotNil(t, Manager.GetViewStore())

		// Second init is a no-op
		assert.NoError(t, InitStores(schema.DatabaseBackend("bogus"), "", "", ""))

		CloseCaching()
		CloseCaching()
	})

	t.Run("empty backends", func(t *testing.T) {
		resetManager()
		defer resetManager()

		require.NoError(t, InitStores("", "", "", ""))
		assert.Nil(t, Manager.GetFigureStore())
		assert.Nil(t, Manager.GetViewStore())
		CloseCaching()
	})

	t.Run("bad backend", func(t *testing.T) {
		resetManager()
		defer resetManager()

		err := InitStores(schema.SQLiteBackend, tempDBPath(t, "c.db"), schema.DatabaseBackend("bogus"), "")
		assert.ErrorContains(t, err, "failed to initialize view log")
	})
}

func TestClearStores(t *testing.T) {
	path := tempDBPath(t, "clear.db")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Missing file is fine
	assert.NoError(t, ClearViews(schema.SQLiteBackend, path, ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearViews(schema.DatabaseBackend("bogus"), "", ""))
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintViewStatus(&buf, schema.ViewStatus{
		Backend:       "sqlite",
		Connected:     true,
		SchemaVersion: 2,
		TotalViews:    3,
		LastViewID:    3,
		CacheHits:     1,
		TableSizes:    map[string]int64{viewsTable: 3},
	})
	out := buf.String()
	assert.Contains(t, out, "Schema Version: 2")
	assert.Contains(t, out, "Cache Hits: 1")
	assert.Contains(t, out, "  blqdash_views: 3 rows")
}

func TestExportViews(t *testing.T) {
	t.Run("requires output file", func(t *testing.T) {
		err := ExportViews(&bytes.Buffer{}, &MockViewStore{}, "", time.Time{})
		assert.ErrorContains(t, err, "--output-file")
	})

	t.Run("disabled", func(t *testing.T) {
		err := ExportViews(&bytes.Buffer{}, nil, "out.parquet", time.Time{})
		assert.ErrorContains(t, err, "disabled")
	})

	t.Run("empty log", func(t *testing.T) {
		store := &MockViewStore{}
		store.On("GetStatus").Return(schema.ViewStatus{Backend: "sqlite", Connected: true}, nil)
		err := ExportViews(&bytes.Buffer{}, store, "out.parquet", time.Time{})
		assert.ErrorContains(t, err, "no view data")
	})

	t.Run("status error", func(t *testing.T) {
		store := &MockViewStore{}
		store.On("GetStatus").Return(schema.ViewStatus{}, errors.New("boom"))
		err := ExportViews(&bytes.Buffer{}, store, "out.parquet", time.Time{})
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("writes parquet", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "views.parquet")
		store := &MockViewStore{}
		store.On("GetStatus").Return(schema.ViewStatus{Backend: "sqlite", Connected: true, TotalViews: 1}, nil)
		store.On("GetViews", mock.Anything).Return([]schema.ViewRecord{
			{ViewID: 1, ViewTime: time.Now(), Output: "trends", YearStart: 2000, YearEnd: 2024, Volume: "passenger", Points: 10},
		}, nil)

		var buf bytes.Buffer
		require.NoError(t, ExportViews(&buf, store, out, time.Time{}))
		assert.Contains(t, buf.String(), "Exported 1 views")
		info, err := os.Stat(out)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
		store.AssertExpectations(t)
	})
}
