package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// aggregateTable is the name of the table for aggregate caching.
const aggregateTable = "aggregate_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager. An empty backend leaves the
// corresponding store unset.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, resultsBackend schema.DatabaseBackend, resultsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var (
			aggregate contract.CacheStore
			err       error
		)
		if cacheBackend != "" {
			aggregate, err = NewCacheStore(aggregateTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize aggregate caching: %w", err)
				return
			}
		}

		var results contract.ResultsStore
		if resultsBackend != "" {
			results, err = NewResultsStore(resultsBackend, resultsConnStr)
			if err != nil {
				if aggregate != nil {
					_ = aggregate.Close()
				}
				initErr = fmt.Errorf("failed to initialize results store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.aggregate = aggregate
		Manager.results = results
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.aggregate != nil {
			_ = Manager.aggregate.Close()
		}
		if Manager.results != nil {
			_ = Manager.results.Close()
		}
	})
}

// ClearCache removes the aggregate cache. SQLite deletes the database file,
// MySQL and PostgreSQL drop the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, aggregateTable)
}

// ClearResults removes the results store the same way ClearCache does.
func ClearResults(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, resultsTable, runsTable, "schema_migrations")
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
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
		for _, table := range tables {
			if err := dropSQLTable(backend, connStr, table); err != nil {
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

// dropSQLTable connects to the SQL database and drops the table if it exists.
func dropSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	db, err := openDB(backend, connStr, "")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
