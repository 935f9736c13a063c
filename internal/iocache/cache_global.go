package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
)

// figuresTable is the name of the table for figure caching.
const figuresTable = "blqdash_figures"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the figure cache and the view log.
// An empty backend leaves the matching store nil.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, viewsBackend schema.DatabaseBackend, viewsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var figures contract.CacheStore
		if cacheBackend != "" {
			store, err := NewCacheStore(figuresTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize figure caching: %w", err)
				return
			}
			figures = store
		}

		var views contract.ViewStore
		if viewsBackend != "" {
			store, err := NewViewStore(viewsBackend, viewsConnStr)
			if err != nil {
				if figures != nil {
					_ = figures.Close()
				}
				initErr = fmt.Errorf("failed to initialize view log: %w", err)
				return
			}
			views = store
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.figures = figures
		Manager.views = views
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.figures != nil {
			_ = Manager.figures.Close()
		}
		if Manager.views != nil {
			_ = Manager.views.Close()
		}
	})
}

// ClearCache removes every cached figure.
// SQLite deletes the database file, MySQL and PostgreSQL drop the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, figuresTable)
}

// ClearViews removes the view log and its migration history.
func ClearViews(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, viewsTable, migrationsTable)
}

func clearStore(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr, "")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		for _, table := range tables {
			if err := dropTable(db, backend, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropTable drops the table if it exists.
func dropTable(db *sql.DB, backend schema.DatabaseBackend, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
