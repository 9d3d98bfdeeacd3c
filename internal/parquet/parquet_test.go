package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/rateplot/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestSchemaColumns(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{"runs", parquet.SchemaOf(new(Run)), []string{"run_id", "command", "start_time", "end_time", "results_written", "config_params"}},
		{"bins", parquet.SchemaOf(new(ResultBin)), []string{"run_id", "file_key", "name", "category", "source", "flavor", "dimension", "bin_x", "bin_y", "x_low", "x_high", "y_low", "y_high", "content", "error", "written_at"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, col := range tt.columns {
				_, ok := tt.schema.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteRunsParquet(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Second)
	params := `{"lumi":1}`
	records := []schema.RunRecord{
		{RunID: "a", Command: "rate", StartTime: start, EndTime: &end, ResultsWritten: 4, ConfigParams: &params},
		{RunID: "b", Command: "rate2d", StartTime: end},
	}

	path := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteRunsParquet(ConvertRunRecords(records), path))

	rows := readAll[Run](t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].RunID)
	assert.Equal(t, int32(4), rows[0].ResultsWritten)
	require.NotNil(t, rows[0].EndTime)
	assert.WithinDuration(t, end, *rows[0].EndTime, time.Microsecond)
	require.NotNil(t, rows[0].ConfigParams)
	assert.Equal(t, params, *rows[0].ConfigParams)
	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].ConfigParams)
}

func TestWriteResultBinsParquet(t *testing.T) {
	h, err := schema.Hist1DFromArrays("FakeRate1D_el_pt", []float64{10, 20, 40}, []float64{0, 0.5, 0.25, 0}, nil)
	require.NoError(t, err)
	h2 := schema.NewHist2D("FakeRate2D_el_pt_eta", "", []float64{0, 1}, []float64{0, 1, 2})
	h2.SetBinContent(1, 2, 0.75)

	results := []schema.StoredResult{
		{FileKey: "Rate1D_MC", Name: h.Name, RunID: "r1", Dimension: 1, Category: schema.FakeRate, Source: "MC", Flavor: "el", H1: h},
		{FileKey: "Rate2D_MC", Name: h2.Name, RunID: "r1", Dimension: 2, Category: schema.FakeRate, Source: "MC", Flavor: "el", H2: h2},
	}
	bins := ConvertResults(results)
	require.Len(t, bins, 4)

	path := filepath.Join(t.TempDir(), "bins.parquet")
	require.NoError(t, WriteResultBinsParquet(bins, path))

	rows := readAll[ResultBin](t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, "Rate1D_MC", rows[0].FileKey)
	assert.Equal(t, 0.5, rows[0].Content)
	assert.Equal(t, 40.0, rows[1].XHigh)
	assert.Equal(t, int32(2), rows[3].BinY)
	assert.Equal(t, 0.75, rows[3].Content)
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.Error(t, err)
}
