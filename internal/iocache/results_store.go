package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// Table names for results tracking.
const (
	runsTable    = "rateplot_runs"
	resultsTable = "rateplot_results"
)

// ResultsStoreImpl implements the ResultsStore interface.
type ResultsStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ResultsStore = &ResultsStoreImpl{} // Compile-time check

// resultPayload is the serialized container of a stored result.
type resultPayload struct {
	H1 *schema.Hist1D `json:"h1,omitempty"`
	H2 *schema.Hist2D `json:"h2,omitempty"`
}

// NewResultsStore creates a new ResultsStore with the specified backend.
func NewResultsStore(backend schema.DatabaseBackend, connStr string) (contract.ResultsStore, error) {
	if backend == schema.NoneBackend {
		return &ResultsStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetResultsDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createResultsTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create results tables: %w", err)
	}
	return &ResultsStoreImpl{db: db, backend: backend}, nil
}

func createResultsTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{resultsTable, getCreateResultsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for rateplot_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(runsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				command VARCHAR(64) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				results_written INT,
				config_params TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				command TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				results_written INT,
				config_params TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				command TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				results_written INTEGER,
				config_params TEXT
			);
		`, quoted)
	}
}

// getCreateResultsQuery returns the CREATE TABLE query for rateplot_results.
func getCreateResultsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(resultsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				file_key VARCHAR(255) NOT NULL,
				hist_name VARCHAR(255) NOT NULL,
				run_id VARCHAR(36) NOT NULL,
				dimension INT NOT NULL,
				category VARCHAR(16) NOT NULL,
				source VARCHAR(16) NOT NULL,
				flavor VARCHAR(8) NOT NULL,
				payload LONGBLOB NOT NULL,
				written_at DATETIME(6) NOT NULL,
				PRIMARY KEY (file_key, hist_name)
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				file_key TEXT NOT NULL,
				hist_name TEXT NOT NULL,
				run_id VARCHAR(36) NOT NULL,
				dimension INT NOT NULL,
				category TEXT NOT NULL,
				source TEXT NOT NULL,
				flavor TEXT NOT NULL,
				payload BYTEA NOT NULL,
				written_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (file_key, hist_name)
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				file_key TEXT NOT NULL,
				hist_name TEXT NOT NULL,
				run_id TEXT NOT NULL,
				dimension INTEGER NOT NULL,
				category TEXT NOT NULL,
				source TEXT NOT NULL,
				flavor TEXT NOT NULL,
				payload BLOB NOT NULL,
				written_at TEXT NOT NULL,
				PRIMARY KEY (file_key, hist_name)
			);
		`, quoted)
	}
}

// getPutResultQuery returns the UPSERT query for rateplot_results.
func getPutResultQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(resultsTable, backend)
	cols := "file_key, hist_name, run_id, dimension, category, source, flavor, payload, written_at"
	values := strings.Join(placeholders(backend, 9), ", ")
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE run_id = new.run_id, dimension = new.dimension, category = new.category,
			source = new.source, flavor = new.flavor, payload = new.payload, written_at = new.written_at`, quoted, cols, values)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (file_key, hist_name) DO UPDATE SET run_id = EXCLUDED.run_id, dimension = EXCLUDED.dimension,
			category = EXCLUDED.category, source = EXCLUDED.source, flavor = EXCLUDED.flavor,
			payload = EXCLUDED.payload, written_at = EXCLUDED.written_at`, quoted, cols, values)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`, quoted, cols, values)
	}
}

func (rs *ResultsStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// BeginRun records the start of a command and returns its run id. A disabled
// store still hands out an id so results can be tagged consistently.
func (rs *ResultsStoreImpl) BeginRun(command string, startTime time.Time, configParams map[string]any) (string, error) {
	runID := uuid.NewString()
	if rs.disabled() {
		return runID, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	ph := placeholders(rs.backend, 4)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, command, start_time, config_params) VALUES (%s)`,
		quoteTableName(runsTable, rs.backend), strings.Join(ph, ", "))
	if _, err := rs.db.Exec(query, runID, command, formatTime(startTime, rs.backend), string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun stamps the run with its end time and result count.
func (rs *ResultsStoreImpl) EndRun(runID string, endTime time.Time, resultsWritten int) error {
	if rs.disabled() {
		return nil
	}

	ph := placeholders(rs.backend, 3)
	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, results_written = %s WHERE run_id = %s`,
		quoteTableName(runsTable, rs.backend), ph[0], ph[1], ph[2])
	res, err := rs.db.Exec(query, formatTime(endTime, rs.backend), resultsWritten, runID)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: run %s", schema.ErrLookupMiss, runID)
	}
	return nil
}

// PutResult inserts or replaces the result stored under (FileKey, Name).
func (rs *ResultsStoreImpl) PutResult(result schema.StoredResult) error {
	if rs.disabled() {
		return nil
	}
	if (result.H1 == nil) == (result.H2 == nil) {
		return fmt.Errorf("%w: result %s must hold exactly one container", schema.ErrConfiguration, result.Name)
	}

	payload, err := json.Marshal(resultPayload{H1: result.H1, H2: result.H2})
	if err != nil {
		return fmt.Errorf("failed to marshal result %s: %w", result.Name, err)
	}
	writtenAt := result.WrittenAt
	if writtenAt.IsZero() {
		writtenAt = time.Now()
	}

	_, err = rs.db.Exec(getPutResultQuery(rs.backend),
		result.FileKey, result.Name, result.RunID, result.Dimension, string(result.Category),
		result.Source, result.Flavor, payload, formatTime(writtenAt, rs.backend))
	if err != nil {
		return fmt.Errorf("failed to store result %s: %w", result.Name, err)
	}
	return nil
}

const resultColumns = "file_key, hist_name, run_id, dimension, category, source, flavor, payload, written_at"

// GetResult fetches one result. A miss wraps schema.ErrLookupMiss.
func (rs *ResultsStoreImpl) GetResult(fileKey, name string) (schema.StoredResult, error) {
	if rs.disabled() {
		return schema.StoredResult{}, fmt.Errorf("%w: result %s/%s", schema.ErrLookupMiss, fileKey, name)
	}

	ph := placeholders(rs.backend, 2)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE file_key = %s AND hist_name = %s`,
		resultColumns, quoteTableName(resultsTable, rs.backend), ph[0], ph[1])
	result, err := rs.scanResult(rs.db.QueryRow(query, fileKey, name))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.StoredResult{}, fmt.Errorf("%w: result %s/%s", schema.ErrLookupMiss, fileKey, name)
	}
	return result, err
}

// ListResults returns the results under fileKey sorted by name, or every
// result when fileKey is empty.
func (rs *ResultsStoreImpl) ListResults(fileKey string) ([]schema.StoredResult, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, resultColumns, quoteTableName(resultsTable, rs.backend))
	var args []any
	if fileKey != "" {
		query += " WHERE file_key = " + placeholders(rs.backend, 1)[0]
		args = append(args, fileKey)
	}
	query += " ORDER BY file_key, hist_name"

	rows, err := rs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.StoredResult
	for rows.Next() {
		result, err := rs.scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (rs *ResultsStoreImpl) scanResult(row rowScanner) (schema.StoredResult, error) {
	var (
		r        schema.StoredResult
		category string
		payload  []byte
	)
	written := timeColumn{backend: rs.backend}
	if err := row.Scan(&r.FileKey, &r.Name, &r.RunID, &r.Dimension, &category, &r.Source, &r.Flavor, &payload, written.dest()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("failed to scan result: %w", err)
	}
	r.Category = schema.RateType(category)
	if t, err := written.value(); err != nil {
		return r, err
	} else if t != nil {
		r.WrittenAt = *t
	}

	var p resultPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return r, fmt.Errorf("failed to decode result %s: %w", r.Name, err)
	}
	if p.H1 != nil {
		p.H1.Tags = schema.ParseTags(p.H1.Name)
	}
	if p.H2 != nil {
		p.H2.Tags = schema.ParseTags(p.H2.Name)
	}
	r.H1, r.H2 = p.H1, p.H2
	return r, nil
}

// GetAllRuns retrieves every run ordered by start time.
func (rs *ResultsStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, command, start_time, end_time, results_written, config_params FROM %s ORDER BY start_time, run_id",
		quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []schema.RunRecord
	for rows.Next() {
		var (
			record  schema.RunRecord
			written sql.NullInt32
		)
		start := timeColumn{backend: rs.backend}
		end := timeColumn{backend: rs.backend}
		if err := rows.Scan(&record.RunID, &record.Command, start.dest(), end.dest(), &written, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}
		record.ResultsWritten = written.Int32
		runs = append(runs, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// GetStatus returns status information about the results store.
func (rs *ResultsStoreImpl) GetStatus() (schema.ResultsStatus, error) {
	status := schema.ResultsStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	for _, table := range []string{runsTable, resultsTable} {
		var count int64
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRuns = int(status.TableSizes[runsTable])
	status.TotalResults = int(status.TableSizes[resultsTable])

	runs, err := rs.GetAllRuns()
	if err != nil {
		return status, err
	}
	if len(runs) > 0 {
		status.OldestRunTime = runs[0].StartTime
		last := runs[len(runs)-1]
		status.LastRunID = last.RunID
		status.LastRunTime = last.StartTime
	}

	rows, err := rs.db.Query(fmt.Sprintf("SELECT DISTINCT file_key FROM %s ORDER BY file_key", quoteTableName(resultsTable, rs.backend)))
	if err != nil {
		return status, fmt.Errorf("failed to list file keys: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return status, fmt.Errorf("failed to scan file key: %w", err)
		}
		status.FileKeys = append(status.FileKeys, key)
	}
	return status, rows.Err()
}

// Clear deletes every run and result but keeps the tables.
func (rs *ResultsStoreImpl) Clear() error {
	if rs.disabled() {
		return nil
	}
	for _, table := range []string{resultsTable, runsTable} {
		if _, err := rs.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(table, rs.backend))); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *ResultsStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
