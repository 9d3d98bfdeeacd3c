//go:build integration

// Package integration contains integration tests for rateplot.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/rateplot/schema"
)

var electronPair = []string{"--pass", "histoTight_el0", "--total", "histoLoose_el0"}

// TestRateVerification runs rate --output csv and checks every bin against
// tight over loose computed by hand.
func TestRateVerification(t *testing.T) {
	dir := writeSamples(t)

	out, err := runRateplot(t, dir, nil, append([]string{"rate", ".", "--output", "csv", "--precision", "6"}, electronPair...)...)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(records), 1)

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}

	// MC is scaled by lumi/virtual lumi, which cancels in the ratio.
	expected := map[string][]float64{
		"MC":   {4.0 / 8, 2.0 / 4},
		"Data": {6.0 / 10, 3.0 / 6},
	}
	seen := map[string]int{}
	for _, rec := range records[1:] {
		src := rec[col["source"]]
		bin, err := strconv.Atoi(rec[col["bin"]])
		require.NoError(t, err)
		rate, err := strconv.ParseFloat(rec[col["rate"]], 64)
		require.NoError(t, err)

		want, ok := expected[src]
		require.True(t, ok, "unexpected source %q", src)
		require.True(t, bin >= 1 && bin <= len(want), "unexpected bin %d", bin)
		assert.InDelta(t, want[bin-1], rate, 1e-6, "%s bin %d", src, bin)
		seen[src]++
	}
	assert.Equal(t, map[string]int{"MC": 2, "Data": 2}, seen)
}

// TestRateJSONVerification checks the JSON report carries the same rates.
func TestRateJSONVerification(t *testing.T) {
	dir := writeSamples(t)

	out, err := runRateplot(t, dir, nil, append([]string{"rate", ".", "--output", "json", "--source", "Data"}, electronPair...)...)
	require.NoError(t, err)

	var report schema.RateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Pairs, 1)
	require.Len(t, report.Pairs[0].Results, 1)
	assert.InDeltaSlice(t, []float64{0.6, 0.5}, report.Pairs[0].Results[0].Hist.Content[1:3], 1e-9)
}

// TestInvalidFlagsFail checks configuration errors exit non-zero.
func TestInvalidFlagsFail(t *testing.T) {
	dir := writeSamples(t)
	tests := [][]string{
		{"rate", ".", "--type", "Bogus"},
		{"rate", ".", "--pass", "a,b", "--total", "c"},
		{"rate", ".", "--lumi", "-1"},
		{"rate", ".", "--write"},
		{"sources", ".", "--flavor", "tau"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := runRateplot(t, dir, nil, args...)
			assert.Error(t, err)
		})
	}
}
