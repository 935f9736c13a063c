package schema

import "time"

// CacheStatus represents the status of the figure cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// ViewStatus represents the status of the view log store.
type ViewStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalViews     int              `json:"total_views"`
	LastViewID     int64            `json:"last_view_id"`
	LastViewTime   time.Time        `json:"last_view_time"`
	OldestViewTime time.Time        `json:"oldest_view_time"`
	CacheHits      int              `json:"cache_hits"`
	SchemaVersion  uint             `json:"schema_version"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}

// ViewEvent is a single output computation about to be logged.
type ViewEvent struct {
	ViewTime   time.Time
	Output     OutputName
	Selection  Selection
	DatasetSHA string
	Points     int
	Duration   time.Duration
	CacheHit   bool
}

// ViewRecord represents a row from the blqdash_views table.
type ViewRecord struct {
	ViewID     int64
	ViewTime   time.Time
	Output     string
	YearStart  int32
	YearEnd    int32
	Metrics    string
	Volume     string
	DatasetSHA string
	Points     int32
	DurationMs int32
	CacheHit   bool
}
