package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// writeWithFile opens the configured output, runs writer against it and closes it again.
// Stdout is used when outputFile is empty.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return fmt.Errorf("%w: %w", schema.ErrFatalIO, err)
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// dispatch routes a result to the JSON, CSV or table writer for cfg.Output.
// Parquet is handled by the callers that support it.
func dispatch(cfg *contract.Config, data any, header []string, rows func(*csv.Writer) error, table func(io.Writer) error) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error { return writeJSON(w, data) }, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error { return writeCSVWithHeader(w, header, rows) }, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("%w: parquet output is only available for rate reports and stored results", schema.ErrConfiguration)
	default:
		return writeWithFile(cfg.OutputFile, table, "Wrote table")
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header row followed by whatever writeRows emits.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the float and bin-edge formatters shared by all output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtRange func(lo, hi float64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtRange = func(lo, hi float64) string {
		return fmt.Sprintf("[%g, %g)", lo, hi)
	}
	return fmtFloat, fmtRange
}

// relativeUncertainty returns 100*err/value, or 0 when the value is not positive.
func relativeUncertainty(value, err float64) float64 {
	if value <= 0 || math.IsNaN(value) {
		return 0
	}
	return 100 * err / value
}

// uncertaintyLabel returns the colored or plain label for a relative uncertainty.
func uncertaintyLabel(percent float64, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(percent)
	}
	return schema.GetPlainLabel(percent)
}
