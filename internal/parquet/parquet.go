// Package parquet exports stored rate results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/rateplot/schema"
	"github.com/parquet-go/parquet-go"
)

// Run maps to the rateplot_runs table.
type Run struct {
	RunID          string     `parquet:"run_id,snappy"`
	Command        string     `parquet:"command,snappy,dict"`
	StartTime      time.Time  `parquet:"start_time,snappy"`
	EndTime        *time.Time `parquet:"end_time,optional,snappy"`
	ResultsWritten int32      `parquet:"results_written,snappy"`

	// ConfigParams is the JSON-encoded configuration of the run
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ResultBin is one regular bin of a stored result. Rows of the same result
// share FileKey and Name.
type ResultBin struct {
	RunID     string    `parquet:"run_id,snappy,dict"`
	FileKey   string    `parquet:"file_key,snappy,dict"`
	Name      string    `parquet:"name,snappy,dict"`
	Category  string    `parquet:"category,snappy,dict"`
	Source    string    `parquet:"source,snappy,dict"`
	Flavor    string    `parquet:"flavor,snappy,dict"`
	Dimension int32     `parquet:"dimension,snappy"`
	BinX      int32     `parquet:"bin_x,snappy"`
	BinY      int32     `parquet:"bin_y,snappy"`
	XLow      float64   `parquet:"x_low,snappy"`
	XHigh     float64   `parquet:"x_high,snappy"`
	YLow      float64   `parquet:"y_low,snappy"`
	YHigh     float64   `parquet:"y_high,snappy"`
	Content   float64   `parquet:"content,snappy"`
	Error     float64   `parquet:"error,snappy"`
	WrittenAt time.Time `parquet:"written_at,snappy"`
}

// writeParquet writes rows to outputPath with a schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteResultBinsParquet writes result bins to a Parquet file.
func WriteResultBinsParquet(data []ResultBin, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:          record.RunID,
			Command:        record.Command,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			ResultsWritten: record.ResultsWritten,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertResults flattens stored results into one row per regular bin.
func ConvertResults(results []schema.StoredResult) []ResultBin {
	var out []ResultBin
	for _, r := range results {
		for _, b := range r.Bins() {
			out = append(out, ResultBin(b))
		}
	}
	return out
}
