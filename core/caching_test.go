package core

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/blqdash/internal/iocache"
	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cargoSelection() schema.Selection {
	return schema.Selection{Start: 2000, End: 2024, Metrics: []string{schema.CargoTonsKPI}, Volume: schema.PassengerVolume}
}

func TestCachedComputeWithoutStore(t *testing.T) {
	ds := newTestDataset(t)
	res, hit, err := cachedCompute(ds, cargoSelection(), schema.TrendsOutput, nil)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 25, res.Points)
}

func TestCachedComputeMissStores(t *testing.T) {
	ds := newTestDataset(t)
	sel := cargoSelection()
	key := generateCacheKey(ds, sel, schema.TrendsOutput)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(nil, 0, int64(0), sql.ErrNoRows)
	store.On("Set", key, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

	res, hit, err := cachedCompute(ds, sel, schema.TrendsOutput, store)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 25, res.Points)
	store.AssertExpectations(t)

	// The stored bytes decode back to the same result
	stored := store.Calls[1].Arguments.Get(1).([]byte)
	var decoded schema.OutputResult
	require.NoError(t, json.Unmarshal(stored, &decoded))
	assert.Equal(t, res.Points, decoded.Points)
	assert.Equal(t, res.Name, decoded.Name)
}

func TestCachedComputeHit(t *testing.T) {
	ds := newTestDataset(t)
	sel := cargoSelection()
	key := generateCacheKey(ds, sel, schema.TrendsOutput)

	cached := schema.OutputResult{Name: schema.TrendsOutput, Points: 99, Annotations: []schema.Annotation{}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(data, currentCacheVersion, time.Now().Unix(), nil)

	res, hit, err := cachedCompute(ds, sel, schema.TrendsOutput, store)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 99, res.Points)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedComputeRecomputesStaleEntries(t *testing.T) {
	ds := newTestDataset(t)
	sel := cargoSelection()
	key := generateCacheKey(ds, sel, schema.TrendsOutput)
	data, err := json.Marshal(schema.OutputResult{Name: schema.TrendsOutput, Points: 99})
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
	}{
		{"old version", data, currentCacheVersion - 1, time.Now().Unix()},
		{"corrupt", []byte("{not json"), currentCacheVersion, time.Now().Unix()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", key).Return(tt.data, tt.version, tt.ts, nil)
			store.On("Set", key, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

			res, hit, err := cachedCompute(ds, sel, schema.TrendsOutput, store)
			require.NoError(t, err)
			assert.False(t, hit)
			assert.Equal(t, 25, res.Points)
			store.AssertExpectations(t)
		})
	}
}

func TestCachedComputeTrustsOldEntriesForSameDataset(t *testing.T) {
	ds := newTestDataset(t)
	sel := cargoSelection()
	key := generateCacheKey(ds, sel, schema.TrendsOutput)
	data, err := json.Marshal(schema.OutputResult{Name: schema.TrendsOutput, Points: 99, Annotations: []schema.Annotation{}})
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(data, currentCacheVersion, time.Now().AddDate(-2, 0, 0).Unix(), nil)

	res, hit, err := cachedCompute(ds, sel, schema.TrendsOutput, store)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 99, res.Points)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedComputeSetFailureIsNotFatal(t *testing.T) {
	ds := newTestDataset(t)
	sel := cargoSelection()
	key := generateCacheKey(ds, sel, schema.VolumesOutput)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(nil, 0, int64(0), sql.ErrNoRows)
	store.On("Set", key, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).Return(errors.New("disk full"))

	res, _, err := cachedCompute(ds, sel, schema.VolumesOutput, store)
	require.NoError(t, err)
	assert.Equal(t, 25, res.Points)
}

func TestGenerateCacheKey(t *testing.T) {
	ds := newTestDataset(t)
	sel := cargoSelection()
	base := generateCacheKey(ds, sel, schema.TrendsOutput)

	assert.Len(t, base, 64)
	assert.Equal(t, base, generateCacheKey(ds, sel, schema.TrendsOutput))
	assert.NotEqual(t, base, generateCacheKey(ds, sel, schema.VolumesOutput))

	other := sel
	other.End = 2023
	assert.NotEqual(t, base, generateCacheKey(ds, other, schema.TrendsOutput))

	changed := *ds
	changed.Hash = "ffff"
	assert.NotEqual(t, base, generateCacheKey(&changed, sel, schema.TrendsOutput))
}
