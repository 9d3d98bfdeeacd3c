package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// PrintClassReport outputs truth-class fractions, side by side with the
// second file when one was given.
func PrintClassReport(report *schema.ClassReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	header := []string{"flavor", "class", "histogram", "fraction"}
	if report.Against != "" {
		header = append(header, "against")
	}
	return dispatch(cfg, report, header, func(w *csv.Writer) error {
		for _, fr := range report.Fractions {
			rec := []string{fr.Flavor, fr.Class, fr.Histogram, fmtFloat(fr.Fraction)}
			if report.Against != "" {
				rec = append(rec, fmtFloat(fr.Against))
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}, func(w io.Writer) error {
		return writeClassTable(w, report, cfg, fmtFloat, duration)
	})
}

func writeClassTable(w io.Writer, report *schema.ClassReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "File: %s\n", filepath.Base(report.File)); err != nil {
		return err
	}
	headers := []string{"Flavor", "Class", "Histogram", "Fraction"}
	if report.Against != "" {
		if _, err := fmt.Fprintf(w, "Against: %s\n", filepath.Base(report.Against)); err != nil {
			return err
		}
		headers = append(headers, "Against")
	}
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 60)
	var data [][]string
	for _, fr := range report.Fractions {
		row := []string{
			contract.FlavorLabel(schema.ParseFlavor(fr.Flavor), cfg.UseColors),
			fr.Class,
			contract.TruncatePath(fr.Histogram, nameWidth),
			fmtFloat(fr.Fraction),
		}
		if report.Against != "" {
			row = append(row, fmtFloat(fr.Against))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Computed %d class fractions in %v\n", len(report.Fractions), duration)
	return err
}
