package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// ratioAt returns the ratio point of graph idx against the first graph.
func ratioAt(c schema.RateComparison, idx, point int) (float64, bool) {
	if idx == 0 || idx-1 >= len(c.Ratios) {
		return 0, false
	}
	r := c.Ratios[idx-1]
	if point >= r.N() {
		return 0, false
	}
	return r.Points[point].Y, true
}

// PrintComparisons outputs rate comparisons. Every graph after the first is
// shown with its ratio to the first.
func PrintComparisons(comparisons []schema.RateComparison, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtRange := createFormatters(cfg.Precision)
	header := []string{"comparison", "label", "palette", "point", "x_low", "x_high", "rate", "error", "ratio"}
	return dispatch(cfg, comparisons, header, func(w *csv.Writer) error {
		return writeComparisonCSV(w, comparisons, fmtFloat)
	}, func(w io.Writer) error {
		return writeComparisonTable(w, comparisons, cfg, fmtFloat, fmtRange, duration)
	})
}

func writeComparisonCSV(w *csv.Writer, comparisons []schema.RateComparison, fmtFloat func(float64) string) error {
	for _, c := range comparisons {
		for gi, g := range c.Graphs {
			for pi, p := range g.Points {
				ratio := ""
				if r, ok := ratioAt(c, gi, pi); ok {
					ratio = fmtFloat(r)
				}
				if err := w.Write([]string{
					c.Name,
					g.Label,
					string(g.Palette),
					strconv.Itoa(pi + 1),
					strconv.FormatFloat(p.X-p.EXL, 'g', -1, 64),
					strconv.FormatFloat(p.X+p.EXH, 'g', -1, 64),
					fmtFloat(p.Y),
					fmtFloat(p.EYH),
					ratio,
				}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeComparisonTable(w io.Writer, comparisons []schema.RateComparison, cfg *contract.Config, fmtFloat func(float64) string, fmtRange func(lo, hi float64) string, duration time.Duration) error {
	labelWidth := getMaxNameWidth(cfg, 55)
	for _, c := range comparisons {
		if _, err := fmt.Fprintf(w, "%s\n", c.Name); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Label", "Range", "Rate", "Error", "Ratio"})
		table.Configure(func(c *tablewriter.Config) {
			c.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for gi, g := range c.Graphs {
			for pi, p := range g.Points {
				ratio := "-"
				if r, ok := ratioAt(c, gi, pi); ok {
					ratio = fmtFloat(r)
				}
				data = append(data, []string{
					contract.TruncatePath(g.Label, labelWidth),
					fmtRange(p.X-p.EXL, p.X+p.EXH),
					fmtFloat(p.Y),
					fmtFloat(p.EYH),
					ratio,
				})
			}
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Compared %d rate sets in %v\n", len(comparisons), duration)
	return err
}
