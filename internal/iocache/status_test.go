package iocache

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/rateplot/schema"
)

func TestPrintCacheStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   schema.CacheStatus
		contains []string
		excludes []string
	}{
		{
			name:     "disconnected",
			status:   schema.CacheStatus{Backend: "none"},
			contains: []string{"Cache Backend: none", "Connected: false"},
			excludes: []string{"Total Entries"},
		},
		{
			name: "with entries",
			status: schema.CacheStatus{
				Backend: "sqlite", Connected: true, TotalEntries: 3,
				LastEntryTime:   time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
				OldestEntryTime: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
				TableSizeBytes:  2048,
			},
			contains: []string{"Total Entries: 3", "Last Entry: 2026-03-04 05:06:07", "Oldest Entry: 2026-01-02 03:04:05", "Table Size: 2048 bytes"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintCacheStatus(&buf, tt.status)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestPrintResultsStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintResultsStatus(&buf, schema.ResultsStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 2, LastRunID: "abc",
		TotalResults: 4,
		FileKeys:     []string{"Rate1D_MC", "Rate2D_Data"},
		TableSizes:   map[string]int64{"rateplot_runs": 2, "rateplot_results": 4},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run ID: abc")
	assert.Contains(t, out, "Total Results: 4")
	assert.Contains(t, out, "  Rate1D_MC\n")

	// Table sizes are listed in name order
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("rateplot_results")), bytes.Index(buf.Bytes(), []byte("rateplot_runs")))
}
