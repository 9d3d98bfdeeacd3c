package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/parquet"
)

// ExportResults writes the runs and the per-bin results held in store to
// <outputFile>.runs.parquet and <outputFile>.results.parquet.
func ExportResults(w io.Writer, store contract.ResultsStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("results store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get results status: %w", err)
	}
	if status.TotalRuns == 0 && status.TotalResults == 0 {
		return errors.New("no results found to export")
	}
	_, _ = fmt.Fprintf(w, "Exporting %d runs and %d results from %s backend...\n", status.TotalRuns, status.TotalResults, status.Backend)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	results, err := store.ListResults("")
	if err != nil {
		return fmt.Errorf("failed to retrieve results: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	bins := parquet.ConvertResults(results)
	binsFile := outputFile + ".results.parquet"
	if err := parquet.WriteResultBinsParquet(bins, binsFile); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d bins from %d results to: %s\n", len(bins), len(results), binsFile)
	return nil
}
