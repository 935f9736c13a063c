// Package contract provides interfaces and shared utilities for the blqdash internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/blqdash/schema"
)

// CacheManager defines the interface for managing the stores behind the dashboard.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetFigureStore() CacheStore
	GetViewStore() ViewStore
}

// CacheStore defines the interface for computed output storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// ViewStore defines the interface for logging dashboard output computations.
type ViewStore interface {
	// RecordView stores one output computation and returns its unique ID
	RecordView(event schema.ViewEvent) (int64, error)

	// GetViews returns logged views recorded at or after since, oldest first
	GetViews(since time.Time) ([]schema.ViewRecord, error)

	// GetStatus returns status information about the view store
	GetStatus() (schema.ViewStatus, error)

	// Close closes the underlying connection
	Close() error
}
