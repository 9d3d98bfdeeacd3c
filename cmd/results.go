package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/iocache"
	"github.com/huangsam/rateplot/internal/outwriter"
	"github.com/huangsam/rateplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resultsBackendConfig reads and validates the results backend settings.
func resultsBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("results-backend")
	connStr := viper.GetString("results-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid results backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// resultsSetup loads minimal configuration needed for results operations.
// This is used by commands that need results access without full shared setup.
func resultsSetup(cmd *cobra.Command) error {
	if err := bindLocalFlags(cmd); err != nil {
		return err
	}
	backend, connStr, err := resultsBackendConfig()
	if err != nil {
		return err
	}

	// No cache tracking for results commands
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize results: %w", err)
	}

	output := schema.OutputMode(viper.GetString("output"))
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", output)
	}
	precision := viper.GetInt("precision")
	if precision < 1 || precision > contract.MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", contract.MaxPrecision, precision)
	}

	cfg.ResultsBackend = backend
	cfg.ResultsDBConnect = connStr
	cfg.Output = output
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Precision = precision
	cfg.Width = viper.GetInt("width")
	cfg.FileKey = viper.GetString("file-key")

	return nil
}

// resultsSetupWrapper wraps resultsSetup to provide PreRunE for results commands.
func resultsSetupWrapper(cmd *cobra.Command, _ []string) error {
	return resultsSetup(cmd)
}

// resultsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func resultsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := resultsBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetResultsDBFilePath()
	}

	cfg.ResultsBackend = backend
	cfg.ResultsDBConnect = connStr

	return nil
}

// resultsStore returns the initialized results store or exits.
func resultsStore() contract.ResultsStore {
	store := iocache.Manager.GetResultsStore()
	if store == nil {
		contract.LogFatal("Results store unavailable", fmt.Errorf("%w: results store is not initialized", schema.ErrConfiguration))
	}
	return store
}

// resultsCmd focused on stored rate results.
//
// Note: Results subcommands use minimal initialization (resultsSetup) instead of
// the full sharedSetup used by the rate commands.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage stored rate results and run history",
	Long: `Manage the rate results written by the rate commands with --write.

Every run with --write records:
- Run metadata (command, timing, configuration)
- One entry per rate histogram, keyed by file key and name

The stored rates feed the variations command and can be exported for
other tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show results store statistics
  list    - List stored results
  runs    - List recorded runs
  export  - Export data to Parquet
  clear   - Remove all stored results
  migrate - Run database schema migrations

Examples:
  # Check the store
  rateplot results status --results-backend sqlite

  # Export for pandas or DuckDB
  rateplot results export --results-backend sqlite --output-file rates`,
}

// resultsClearCmd clears the results store.
var resultsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored results and runs",
	Long: `Delete all stored runs and rate results.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  rateplot results export --results-backend sqlite --output-file backup
  rateplot results clear --results-backend sqlite`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearResults(cfg.ResultsBackend, sqliteFile(cfg.ResultsDBConnect, contract.GetResultsDBFilePath()), cfg.ResultsDBConnect); err != nil {
			contract.LogFatal("Failed to clear results", err)
		}
		fmt.Println("Results cleared successfully.")
	},
}

// resultsStatusCmd shows results store status.
var resultsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display results store statistics and connection details",
	Long: `Show the backend, connection state, run and result counts, the stored file
keys and the table sizes of the results store.

Examples:
  rateplot results status --results-backend sqlite`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := resultsStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get results status", err)
		}
		iocache.PrintResultsStatus(os.Stdout, status)
	},
}

// resultsListCmd lists stored results.
var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rate results",
	Long: `List the stored rate results, optionally restricted to one file key.

Examples:
  rateplot results list --results-backend sqlite
  rateplot results list --results-backend sqlite --file-key Rate1D_Data --output csv`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		results, err := resultsStore().ListResults(cfg.FileKey)
		if err != nil {
			contract.LogFatal("Failed to list results", err)
		}
		if err := outwriter.PrintStoredResults(results, cfg); err != nil {
			contract.LogFatal("Failed to print results", err)
		}
	},
}

// resultsRunsCmd lists recorded runs.
var resultsRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `List every recorded run, oldest first.

Examples:
  rateplot results runs --results-backend sqlite --output json`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := resultsStore().GetAllRuns()
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.PrintRuns(runs, cfg); err != nil {
			contract.LogFatal("Failed to print runs", err)
		}
	},
}

// resultsExportCmd exports the results store to Parquet files.
var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored runs and results to Parquet",
	Long: `Export all stored data to Parquet for use with analytics tools.

Exports two datasets:
- <output-file>.runs.parquet    - metadata about each run
- <output-file>.results.parquet - one row per stored bin

Requires: --output-file parameter

Examples:
  rateplot results export --results-backend sqlite --output-file rates
  duckdb -c "SELECT * FROM read_parquet('rates.results.parquet') LIMIT 10"`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportResults(os.Stdout, resultsStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export results", err)
		}
	},
}

// resultsMigrateCmd runs database migrations for the results store.
var resultsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the results store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  rateplot results migrate --results-backend sqlite

  # Rollback every migration
  rateplot results migrate --results-backend sqlite --target-version 0`,
	PreRunE: resultsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateResults(os.Stdout, cfg.ResultsBackend, cfg.ResultsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
