package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/parquet"
	"github.com/huangsam/rateplot/schema"
)

const listTimeFormat = "2006-01-02 15:04:05"

// PrintStoredResults lists stored results without their bin contents,
// except for JSON and Parquet, which carry the full containers.
func PrintStoredResults(results []schema.StoredResult, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return writeResultsParquet(results, cfg.OutputFile)
	}
	header := []string{"file_key", "name", "dimension", "category", "source", "flavor", "bins", "run_id", "written_at"}
	return dispatch(cfg, results, header, func(w *csv.Writer) error {
		for _, r := range results {
			if err := w.Write([]string{
				r.FileKey, r.Name,
				strconv.Itoa(r.Dimension),
				string(r.Category), r.Source, r.Flavor,
				strconv.Itoa(len(r.Bins())),
				r.RunID,
				r.WrittenAt.Format(listTimeFormat),
			}); err != nil {
				return err
			}
		}
		return nil
	}, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"File Key", "Name", "Dim", "Source", "Flavor", "Bins", "Written"})
		table.Configure(func(c *tablewriter.Config) {
			c.Row.Alignment.Global = tw.AlignRight
		})
		nameWidth := getMaxNameWidth(cfg, 70)
		var data [][]string
		for _, r := range results {
			data = append(data, []string{
				r.FileKey,
				contract.TruncatePath(r.Name, nameWidth),
				strconv.Itoa(r.Dimension),
				r.Source,
				r.Flavor,
				strconv.Itoa(len(r.Bins())),
				r.WrittenAt.Format(listTimeFormat),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Listed %d stored results\n", len(results))
		return err
	})
}

// PrintRuns lists the recorded runs, oldest first.
func PrintRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		if cfg.OutputFile == "" {
			return fmt.Errorf("%w: parquet output needs --output-file", schema.ErrConfiguration)
		}
		return parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), cfg.OutputFile)
	}

	endOf := func(r schema.RunRecord) string {
		if r.EndTime == nil {
			return ""
		}
		return r.EndTime.Format(listTimeFormat)
	}
	header := []string{"run_id", "command", "start_time", "end_time", "results_written", "config_params"}
	return dispatch(cfg, runs, header, func(w *csv.Writer) error {
		for _, r := range runs {
			params := ""
			if r.ConfigParams != nil {
				params = *r.ConfigParams
			}
			if err := w.Write([]string{
				r.RunID, r.Command,
				r.StartTime.Format(listTimeFormat), endOf(r),
				strconv.Itoa(int(r.ResultsWritten)),
				params,
			}); err != nil {
				return err
			}
		}
		return nil
	}, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Run ID", "Command", "Started", "Ended", "Written"})
		table.Configure(func(c *tablewriter.Config) {
			c.Row.Alignment.Global = tw.AlignRight
		})
		var data [][]string
		for _, r := range runs {
			end := endOf(r)
			if end == "" {
				end = "running"
			}
			data = append(data, []string{
				r.RunID, r.Command,
				r.StartTime.Format(listTimeFormat), end,
				strconv.Itoa(int(r.ResultsWritten)),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Listed %d runs\n", len(runs))
		return err
	})
}
