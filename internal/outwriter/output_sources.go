package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// PrintSourceYields outputs the per-origin yields of the source breakdown.
func PrintSourceYields(yields []schema.SourceYield, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	header := []string{"flavor", "quality", "leg", "source", "origin", "histogram", "yield"}
	return dispatch(cfg, yields, header, func(w *csv.Writer) error {
		for _, y := range yields {
			if err := w.Write([]string{y.Flavor, y.Quality, y.Leg, y.Source, y.Origin, y.Histogram, fmtFloat(y.Yield)}); err != nil {
				return err
			}
		}
		return nil
	}, func(w io.Writer) error {
		return writeSourceTable(w, yields, cfg, fmtFloat, duration)
	})
}

func writeSourceTable(w io.Writer, yields []schema.SourceYield, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Flavor", "Quality", "Leg", "Origin", "Histogram", "Yield"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 50)
	var data [][]string
	for _, y := range yields {
		data = append(data, []string{
			contract.FlavorLabel(schema.ParseFlavor(y.Flavor), cfg.UseColors),
			y.Quality,
			y.Leg,
			y.Origin,
			contract.TruncatePath(y.Histogram, nameWidth),
			fmtFloat(y.Yield),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Listed %d origin yields in %v\n", len(yields), duration)
	return err
}
