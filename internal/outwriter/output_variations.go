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

// variationRow is one bin of a differencer output. 1D rows leave the y fields empty.
type variationRow struct {
	kind, variation string
	binX, binY      int
	xLow, xHigh     float64
	yLow, yHigh     float64
	diff            float64
}

func variationRows(report *schema.VariationReport) []variationRow {
	var rows []variationRow
	for _, res := range report.Results {
		switch {
		case res.Diff1D != nil:
			h := res.Diff1D
			for i := 1; i <= h.NBins(); i++ {
				rows = append(rows, variationRow{
					kind: res.Kind, variation: res.Variation, binX: i,
					xLow: h.Edges[i-1], xHigh: h.Edges[i], diff: h.BinContent(i),
				})
			}
		case res.Diff2D != nil:
			h := res.Diff2D
			for y := 1; y <= h.NBinsY(); y++ {
				for x := 1; x <= h.NBinsX(); x++ {
					rows = append(rows, variationRow{
						kind: res.Kind, variation: res.Variation, binX: x, binY: y,
						xLow: h.XEdges[x-1], xHigh: h.XEdges[x],
						yLow: h.YEdges[y-1], yHigh: h.YEdges[y],
						diff: h.BinContent(x, y),
					})
				}
			}
		}
	}
	return rows
}

// PrintVariationReport outputs relative systematic deviations in percent.
// Projections of 2D inputs are only part of the JSON form.
func PrintVariationReport(report *schema.VariationReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtRange := createFormatters(cfg.Precision)
	rows := variationRows(report)
	header := []string{"kind", "variation", "bin_x", "bin_y", "x_low", "x_high", "y_low", "y_high", "diff_pct", "label"}
	return dispatch(cfg, report, header, func(w *csv.Writer) error {
		for _, r := range rows {
			binY, yLow, yHigh := "", "", ""
			if r.binY > 0 {
				binY = strconv.Itoa(r.binY)
				yLow = strconv.FormatFloat(r.yLow, 'g', -1, 64)
				yHigh = strconv.FormatFloat(r.yHigh, 'g', -1, 64)
			}
			if err := w.Write([]string{
				r.kind, r.variation,
				strconv.Itoa(r.binX), binY,
				strconv.FormatFloat(r.xLow, 'g', -1, 64),
				strconv.FormatFloat(r.xHigh, 'g', -1, 64),
				yLow, yHigh,
				fmtFloat(r.diff),
				schema.GetPlainLabel(r.diff),
			}); err != nil {
				return err
			}
		}
		return nil
	}, func(w io.Writer) error {
		return writeVariationTable(w, report, rows, cfg, fmtFloat, fmtRange, duration)
	})
}

func writeVariationTable(w io.Writer, report *schema.VariationReport, rows []variationRow, cfg *contract.Config, fmtFloat func(float64) string, fmtRange func(lo, hi float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Kind", "Variation", "X Range", "Y Range", "Diff %", "Label"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 70)
	var data [][]string
	for _, r := range rows {
		yRange := "-"
		if r.binY > 0 {
			yRange = fmtRange(r.yLow, r.yHigh)
		}
		data = append(data, []string{
			r.kind,
			contract.TruncatePath(r.variation, nameWidth),
			fmtRange(r.xLow, r.xHigh),
			yRange,
			fmtFloat(r.diff),
			uncertaintyLabel(r.diff, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Compared %d variations of %s against nominal (%s) in %v\n",
		len(report.Results), report.Variation, report.FileKey, duration)
	return err
}
