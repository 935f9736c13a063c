package iocache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
)

// viewsTable holds one row per computed dashboard output.
const viewsTable = "blqdash_views"

// viewColumns is the column list shared by inserts and selects, minus view_id.
const viewColumns = "view_time, output, year_start, year_end, metrics, volume, dataset_sha, points, duration_ms, cache_hit"

// ViewStoreImpl logs dashboard output computations in a SQL database.
type ViewStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.ViewStore = &ViewStoreImpl{} // Compile-time check

// NewViewStore migrates the view log schema and opens the store.
func NewViewStore(backend schema.DatabaseBackend, connStr string) (contract.ViewStore, error) {
	if backend == schema.NoneBackend {
		return &ViewStoreImpl{backend: backend}, nil
	}

	if err := ensureViewSchema(backend, connStr); err != nil {
		return nil, err
	}
	db, err := openDB(backend, connStr, contract.GetViewsDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize view log: %w", err)
	}
	return &ViewStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// RecordView stores one output computation and returns its ID.
func (vs *ViewStoreImpl) RecordView(event schema.ViewEvent) (int64, error) {
	if vs.db == nil {
		return 0, nil
	}

	marks := make([]string, 10)
	for i := range marks {
		marks[i] = placeholder(vs.backend, i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(viewsTable, vs.backend), viewColumns, strings.Join(marks, ", "))
	args := []any{
		timeArg(vs.backend, event.ViewTime),
		string(event.Output),
		event.Selection.Start,
		event.Selection.End,
		strings.Join(event.Selection.Metrics, "|"),
		string(event.Selection.Volume),
		event.DatasetSHA,
		event.Points,
		event.Duration.Milliseconds(),
		event.CacheHit,
	}

	if vs.backend == schema.PostgreSQLBackend {
		var id int64
		if err := vs.db.QueryRow(query+" RETURNING view_id", args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to record view: %w", err)
		}
		return id, nil
	}

	res, err := vs.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to record view: %w", err)
	}
	return res.LastInsertId()
}

// GetViews returns views recorded at or after since, oldest first.
func (vs *ViewStoreImpl) GetViews(since time.Time) ([]schema.ViewRecord, error) {
	if vs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT view_id, %s FROM %s WHERE view_time >= %s ORDER BY view_time, view_id",
		viewColumns, quoteTableName(viewsTable, vs.backend), placeholder(vs.backend, 1))
	rows, err := vs.db.Query(query, timeArg(vs.backend, since))
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.ViewRecord
	for rows.Next() {
		var r schema.ViewRecord
		var viewTime any
		if err := rows.Scan(&r.ViewID, &viewTime, &r.Output, &r.YearStart, &r.YearEnd, &r.Metrics,
			&r.Volume, &r.DatasetSHA, &r.Points, &r.DurationMs, &r.CacheHit); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		if r.ViewTime, err = parseTimeValue(viewTime); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetStatus returns status information about the view log.
func (vs *ViewStoreImpl) GetStatus() (schema.ViewStatus, error) {
	status := schema.ViewStatus{
		Backend:    string(vs.backend),
		Connected:  vs.db != nil,
		TableSizes: map[string]int64{},
	}
	if vs.db == nil {
		return status, nil
	}

	query := fmt.Sprintf(`SELECT COUNT(*), COALESCE(MAX(view_id), 0),
		COALESCE(SUM(CASE WHEN cache_hit THEN 1 ELSE 0 END), 0), MIN(view_time), MAX(view_time) FROM %s`,
		quoteTableName(viewsTable, vs.backend))
	var oldest, last any
	if err := vs.db.QueryRow(query).Scan(&status.TotalViews, &status.LastViewID, &status.CacheHits, &oldest, &last); err != nil {
		return status, fmt.Errorf("failed to read views: %w", err)
	}
	status.TableSizes[viewsTable] = int64(status.TotalViews)

	var err error
	if status.OldestViewTime, err = parseTimeValue(oldest); err != nil {
		return status, err
	}
	if status.LastViewTime, err = parseTimeValue(last); err != nil {
		return status, err
	}

	if status.SchemaVersion, err = viewsSchemaVersion(vs.backend, vs.connStr); err != nil {
		return status, fmt.Errorf("failed to read schema version: %w", err)
	}
	return status, nil
}

// Close closes the underlying DB connection.
func (vs *ViewStoreImpl) Close() error {
	if vs.db != nil {
		return vs.db.Close()
	}
	return nil
}
