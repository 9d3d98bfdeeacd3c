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
	"github.com/huangsam/rateplot/internal/parquet"
	"github.com/huangsam/rateplot/schema"
)

// rateRow is one bin of one rate result, flattened for tables and CSV.
type rateRow struct {
	pair     string
	source   schema.SourceLabel
	label    string
	bin      int
	xLow     float64
	xHigh    float64
	rate     float64
	err      float64
	ratio    float64
	hasRatio bool
}

// rateRows flattens a report. Ratios line up with every result after the first.
func rateRows(report *schema.RateReport) []rateRow {
	var rows []rateRow
	for _, pair := range report.Pairs {
		name := schema.RatioName1D(pair.Pass, pair.Total)
		for idx, res := range pair.Results {
			if res.Hist == nil {
				continue
			}
			var ratio *schema.RateGraph
			if idx > 0 && idx-1 < len(pair.Ratios) {
				ratio = pair.Ratios[idx-1]
			}
			label := ""
			if res.Graph != nil {
				label = res.Graph.Label
			}
			for i := 1; i <= res.Hist.NBins(); i++ {
				row := rateRow{
					pair: name, source: res.Source, label: label, bin: i,
					xLow: res.Hist.Edges[i-1], xHigh: res.Hist.Edges[i],
					rate: res.Hist.BinContent(i), err: res.Hist.BinError(i),
				}
				if ratio != nil && i-1 < ratio.N() {
					row.ratio, row.hasRatio = ratio.Points[i-1].Y, true
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// PrintRateReport outputs a 1D rate report, dispatching on the configured output format.
func PrintRateReport(report *schema.RateReport, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeResultsParquet(storedFromRateReport(report, cfg), cfg.OutputFile)
	}
	fmtFloat, fmtRange := createFormatters(cfg.Precision)
	rows := rateRows(report)
	header := []string{"pair", "source", "label", "bin", "x_low", "x_high", "rate", "error", "rel_unc_pct", "ratio"}
	return dispatch(cfg, report, header, func(w *csv.Writer) error {
		return writeRateCSV(w, rows, fmtFloat)
	}, func(w io.Writer) error {
		return writeRateTable(w, report, rows, cfg, fmtFloat, fmtRange, duration)
	})
}

func writeRateCSV(w *csv.Writer, rows []rateRow, fmtFloat func(float64) string) error {
	for _, r := range rows {
		ratio := ""
		if r.hasRatio {
			ratio = fmtFloat(r.ratio)
		}
		rec := []string{
			r.pair,
			string(r.source),
			r.label,
			strconv.Itoa(r.bin),
			strconv.FormatFloat(r.xLow, 'g', -1, 64),
			strconv.FormatFloat(r.xHigh, 'g', -1, 64),
			fmtFloat(r.rate),
			fmtFloat(r.err),
			fmtFloat(relativeUncertainty(r.rate, r.err)),
			ratio,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeRateTable(w io.Writer, report *schema.RateReport, rows []rateRow, cfg *contract.Config, fmtFloat func(float64) string, fmtRange func(lo, hi float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Pair", "Source", "Bin", "Range", "Rate", "Error", "Rel.Unc", "Ratio"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 70)
	var data [][]string
	for _, r := range rows {
		ratio := "-"
		if r.hasRatio {
			ratio = fmtFloat(r.ratio)
		}
		data = append(data, []string{
			contract.TruncatePath(r.pair, nameWidth),
			string(r.source),
			strconv.Itoa(r.bin),
			fmtRange(r.xLow, r.xHigh),
			fmtFloat(r.rate),
			fmtFloat(r.err),
			uncertaintyLabel(relativeUncertainty(r.rate, r.err), cfg.UseColors),
			ratio,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	results := 0
	for _, pair := range report.Pairs {
		results += len(pair.Results)
	}
	if _, err := fmt.Fprintf(w, "Computed %d rates over %d pairs (lumi: %g)\n", results, len(report.Pairs), cfg.Lumi); err != nil {
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

// storedFromRateReport converts report results into the results-store model
// so they share the Parquet export layout.
func storedFromRateReport(report *schema.RateReport, cfg *contract.Config) []schema.StoredResult {
	now := time.Now()
	var out []schema.StoredResult
	for _, pair := range report.Pairs {
		for _, res := range pair.Results {
			if res.Hist == nil {
				continue
			}
			name := res.Stored
			if name == "" {
				name = res.Hist.Name
			}
			out = append(out, schema.StoredResult{
				FileKey:   schema.ResultFileKey(cfg.OutName, 1, res.Source),
				Name:      name,
				RunID:     report.RunID,
				Dimension: 1,
				Category:  report.RateType,
				Source:    string(res.Source),
				Flavor:    res.Hist.Tags.Flavor.Short(),
				WrittenAt: now,
				H1:        res.Hist,
			})
		}
	}
	return out
}

// writeResultsParquet writes every regular bin of results to outputFile.
func writeResultsParquet(results []schema.StoredResult, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("%w: parquet output needs --output-file", schema.ErrConfiguration)
	}
	if err := parquet.WriteResultBinsParquet(parquet.ConvertResults(results), outputFile); err != nil {
		return fmt.Errorf("error writing parquet output: %w", err)
	}
	return nil
}
