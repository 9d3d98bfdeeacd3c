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

// PrintRate2DReport outputs a 2D rate report with one row per regular cell.
func PrintRate2DReport(report *schema.Rate2DReport, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeResultsParquet(storedFromRate2DReport(report, cfg), cfg.OutputFile)
	}
	fmtFloat, fmtRange := createFormatters(cfg.Precision)
	header := []string{"pair", "source", "bin_x", "bin_y", "x_low", "x_high", "y_low", "y_high", "rate", "error", "rel_unc_pct"}
	return dispatch(cfg, report, header, func(w *csv.Writer) error {
		return writeRate2DCSV(w, report, fmtFloat)
	}, func(w io.Writer) error {
		return writeRate2DTable(w, report, cfg, fmtFloat, fmtRange, duration)
	})
}

// eachCell calls fn for every regular cell of every result.
func eachCell(report *schema.Rate2DReport, fn func(res schema.RateResult2D, x, y int) error) error {
	for _, res := range report.Results {
		if res.Hist == nil {
			continue
		}
		for y := 1; y <= res.Hist.NBinsY(); y++ {
			for x := 1; x <= res.Hist.NBinsX(); x++ {
				if err := fn(res, x, y); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeRate2DCSV(w *csv.Writer, report *schema.Rate2DReport, fmtFloat func(float64) string) error {
	return eachCell(report, func(res schema.RateResult2D, x, y int) error {
		h := res.Hist
		rate, e := h.BinContent(x, y), h.BinError(x, y)
		return w.Write([]string{
			schema.RatioName2D(res.Pass, res.Total),
			string(res.Source),
			strconv.Itoa(x),
			strconv.Itoa(y),
			strconv.FormatFloat(h.XEdges[x-1], 'g', -1, 64),
			strconv.FormatFloat(h.XEdges[x], 'g', -1, 64),
			strconv.FormatFloat(h.YEdges[y-1], 'g', -1, 64),
			strconv.FormatFloat(h.YEdges[y], 'g', -1, 64),
			fmtFloat(rate),
			fmtFloat(e),
			fmtFloat(relativeUncertainty(rate, e)),
		})
	})
}

func writeRate2DTable(w io.Writer, report *schema.Rate2DReport, cfg *contract.Config, fmtFloat func(float64) string, fmtRange func(lo, hi float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Pair", "Source", "X Range", "Y Range", "Rate", "Error", "Rel.Unc"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 75)
	var data [][]string
	_ = eachCell(report, func(res schema.RateResult2D, x, y int) error {
		h := res.Hist
		rate, e := h.BinContent(x, y), h.BinError(x, y)
		data = append(data, []string{
			contract.TruncatePath(schema.RatioName2D(res.Pass, res.Total), nameWidth),
			string(res.Source),
			fmtRange(h.XEdges[x-1], h.XEdges[x]),
			fmtRange(h.YEdges[y-1], h.YEdges[y]),
			fmtFloat(rate),
			fmtFloat(e),
			uncertaintyLabel(relativeUncertainty(rate, e), cfg.UseColors),
		})
		return nil
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Computed %d 2D rates (lumi: %g)\n", len(report.Results), cfg.Lumi); err != nil {
		return err
	}
	if report.RunID != "" {
		if _, err := fmt.Fprintf(w, "Stored %d results under run %s\n", report.Written, report.RunID); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Run completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

func storedFromRate2DReport(report *schema.Rate2DReport, cfg *contract.Config) []schema.StoredResult {
	now := time.Now()
	var out []schema.StoredResult
	for _, res := range report.Results {
		if res.Hist == nil {
			continue
		}
		name := res.Stored
		if name == "" {
			name = res.Hist.Name
		}
		out = append(out, schema.StoredResult{
			FileKey:   schema.ResultFileKey(cfg.OutName, 2, res.Source),
			Name:      name,
			RunID:     report.RunID,
			Dimension: 2,
			Category:  report.RateType,
			Source:    string(res.Source),
			Flavor:    res.Hist.Tags.Flavor.Short(),
			WrittenAt: now,
			H2:        res.Hist,
		})
	}
	return out
}
