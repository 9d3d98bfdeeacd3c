package mcp_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/iocache"
	mcp_internal "github.com/huangsam/rateplot/internal/mcp"
	"github.com/huangsam/rateplot/internal/source"
	"github.com/huangsam/rateplot/schema"
)

func TestMain(m *testing.M) {
	contract.SetDiagnosticOutput(io.Discard)
	os.Exit(m.Run())
}

func doc(t *testing.T, root, file string, lumi float64, hists ...source.HistogramDoc) {
	t.Helper()
	d := &source.Document{
		Name:        file,
		VirtualLumi: lumi,
		Directories: map[string]source.Directory{schema.DefaultEffDir: {Histograms: hists}},
	}
	require.NoError(t, source.WriteSource(filepath.Join(root, file), d))
}

func hist(name string, b1, b2 float64) source.HistogramDoc {
	return source.HistogramDoc{Name: name, XEdges: []float64{10, 20, 40}, Content: []float64{0, b1, b2, 0}}
}

func baseConfig(inputDir string) *contract.Config {
	return &contract.Config{
		InputDir:  inputDir,
		Include:   []string{schema.DefaultIncludeGlob},
		Dirs:      []string{schema.DefaultEffDir},
		Lumi:      1,
		RateType:  schema.FakeRate,
		OutName:   contract.DefaultOutName,
		Precision: contract.DefaultPrecision,
		Output:    schema.JSONOut,
	}
}

func call(t *testing.T, inputDir string, mgr contract.CacheManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(inputDir), mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "tool failures are reported in the result, not as raw errors")
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerTools(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(""), nil)
	for _, name := range []string{"compute_rate", "compute_rate_2d", "compare_selections", "compare_mc_rates", "list_sources", "class_fractions", "compute_variations"} {
		assert.NotNil(t, s.GetTool(name), name)
	}
}

func TestComputeRateTool(t *testing.T) {
	root := t.TempDir()
	doc(t, root, "mc_ttbar.yaml", 2, hist("histoTight_el0", 4, 2), hist("histoLoose_el0", 8, 4))
	doc(t, root, "data_AllYear.yaml", 0, hist("histoTight_el0", 6, 3), hist("histoLoose_el0", 10, 6))

	res := call(t, "", nil, "compute_rate", map[string]any{
		"input_dir": root,
		"pass":      "histoTight_el0",
		"total":     "histoLoose_el0",
	})
	require.False(t, res.IsError, text(res))

	var report schema.RateReport
	require.NoError(t, json.Unmarshal([]byte(text(res)), &report))
	require.Len(t, report.Pairs, 1)
	require.Len(t, report.Pairs[0].Results, 2)
	for _, r := range report.Pairs[0].Results {
		if r.Source == schema.SourceData {
			assert.InDeltaSlice(t, []float64{0.6, 0.5}, r.Hist.Content[1:3], 1e-9)
		}
	}
}

func TestToolValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"missing input dir", "compute_rate", map[string]any{}, "input_dir is required"},
		{"invalid rate type", "compute_rate", map[string]any{"input_dir": ".", "type": "Bogus"}, "invalid rate type"},
		{"invalid source", "compute_rate_2d", map[string]any{"input_dir": ".", "source": "Sim"}, "invalid source"},
		{"unbalanced pairs", "compare_selections", map[string]any{"input_dir": ".", "pass": "a,b", "total": "c"}, "2 pass histograms given for 1 total"},
		{"bad subtraction", "compare_mc_rates", map[string]any{"input_dir": ".", "subtract": "HF:x"}, "invalid scale factor"},
		{"invalid flavor", "list_sources", map[string]any{"input_dir": ".", "flavor": "tau"}, "invalid flavor"},
		{"invalid quality", "class_fractions", map[string]any{"file": "mc.yaml", "quality": "Medium"}, "invalid quality"},
		{"variations without key", "compute_variations", map[string]any{"variation": "JES"}, "file_key and variation are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, "", nil, tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text(res), tt.contains)
		})
	}
}

func TestComputeVariationsTool(t *testing.T) {
	nominal, err := schema.Hist1DFromArrays("FakeRate1D_mu_pt", []float64{10, 20, 40}, []float64{0, 0.5, 0.4, 0}, nil)
	require.NoError(t, err)
	variation, err := schema.Hist1DFromArrays("FakeRate1D_mu_pt__JES", []float64{10, 20, 40}, []float64{0, 0.1, 2, 0}, nil)
	require.NoError(t, err)

	store := &iocache.MockResultsStore{}
	store.On("ListResults", "Rate1D_MC").Return([]schema.StoredResult{
		{Name: nominal.Name, Flavor: "mu", Dimension: 1, H1: nominal},
		{Name: variation.Name, Flavor: "mu", Dimension: 1, H1: variation},
	}, nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultsStore").Return(store)

	res := call(t, "", mgr, "compute_variations", map[string]any{"file_key": "Rate1D_MC", "variation": "JES"})
	require.False(t, res.IsError, text(res))

	var report schema.VariationReport
	require.NoError(t, json.Unmarshal([]byte(text(res)), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, "Fake mu", report.Results[0].Kind)
	store.AssertExpectations(t)
}

func TestComputeRateToolPipelineError(t *testing.T) {
	res := call(t, t.TempDir(), nil, "compute_rate", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "rate computation failed")
}
