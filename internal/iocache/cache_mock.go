package iocache

import (
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetFigureStore implements the CacheManager interface.
func (m *MockCacheManager) GetFigureStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetViewStore implements the CacheManager interface.
func (m *MockCacheManager) GetViewStore() contract.ViewStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ViewStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockViewStore is a mock implementation of ViewStore for testing.
type MockViewStore struct {
	mock.Mock
}

var _ contract.ViewStore = &MockViewStore{} // Compile-time check

// RecordView implements the ViewStore interface.
func (m *MockViewStore) RecordView(event schema.ViewEvent) (int64, error) {
	args := m.Called(event)
	return args.Get(0).(int64), args.Error(1)
}

// GetViews implements the ViewStore interface.
func (m *MockViewStore) GetViews(since time.Time) ([]schema.ViewRecord, error) {
	args := m.Called(since)
	records, _ := args.Get(0).([]schema.ViewRecord)
	return records, args.Error(1)
}

// GetStatus implements the ViewStore interface.
func (m *MockViewStore) GetStatus() (schema.ViewStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ViewStatus), args.Error(1)
}

// Close implements the ViewStore interface.
func (m *MockViewStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
