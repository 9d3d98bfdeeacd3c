package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/iocache"
	"github.com/huangsam/rateplot/schema"
)

// variationManager serves a nominal and a JES-varied muon rate under Rate1D_MC.
func variationManager(t *testing.T) *iocache.MockCacheManager {
	t.Helper()
	nominal, err := schema.Hist1DFromArrays("FakeRate1D_mu_pt", testEdges, []float64{0, 0.5, 0.4, 0}, nil)
	require.NoError(t, err)
	varied, err := schema.Hist1DFromArrays("FakeRate1D_mu_pt__JES", testEdges, []float64{0, 0.55, 0.3, 0}, nil)
	require.NoError(t, err)

	store := &iocache.MockResultsStore{}
	store.On("ListResults", "Rate1D_MC").Return([]schema.StoredResult{
		{Name: nominal.Name, Flavor: "mu", Dimension: 1, H1: nominal},
		{Name: varied.Name, Flavor: "mu", Dimension: 1, H1: varied},
	}, nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(nil)
	mgr.On("GetResultsStore").Return(store)
	return mgr
}

// TestExecutors runs every command entry point end to end and checks the CSV it writes.
func TestExecutors(t *testing.T) {
	root := standardSamples(t)
	noCache := &iocache.MockCacheManager{}
	noCache.On("GetAggregateStore").Return(nil)
	noCache.On("GetResultsStore").Return(nil)

	tests := []struct {
		name   string
		exec   ExecutorFunc
		mgr    contract.CacheManager
		adjust func(cfg *contract.Config)
		header string
	}{
		{
			name:   "rate",
			exec:   ExecuteRate,
			mgr:    noCache,
			adjust: func(cfg *contract.Config) { cfg.Pairs = []schema.RateInput{{Pass: "histoTight_el0", Total: "histoLoose_el0"}} },
			header: "pair,source,label,bin,",
		},
		{
			name: "compare selections",
			exec: ExecuteCompareSelections,
			mgr:  noCache,
			adjust: func(cfg *contract.Config) {
				cfg.Source = schema.SourceData
				cfg.Pairs = []schema.RateInput{{Pass: "histoTight_el0", Total: "histoLoose_el0"}}
			},
			header: "comparison,label,palette,point,",
		},
		{
			name: "compare mc",
			exec: ExecuteCompareMC,
			mgr:  noCache,
			adjust: func(cfg *contract.Config) {
				cfg.Pairs = []schema.RateInput{
					{Pass: "histoTight_el0", Total: "histoLoose_el0"},
					{Pass: "histoTight_HF_electron0", Total: "histoLoose_HF_electron0"},
				}
			},
			header: "comparison,label,palette,point,",
		},
		{
			name:   "sources",
			exec:   ExecuteSources,
			mgr:    noCache,
			adjust: func(cfg *contract.Config) { cfg.FakeSourcesEl = []string{"HF"} },
			header: "flavor,quality,leg,source,origin,histogram,yield",
		},
		{
			name:   "classes",
			exec:   ExecuteClasses,
			mgr:    noCache,
			adjust: func(cfg *contract.Config) { cfg.Flavor = schema.Electron },
			header: "flavor,class,histogram,fraction",
		},
		{
			name: "variations",
			exec: ExecuteVariations,
			mgr:  variationManager(t),
			adjust: func(cfg *contract.Config) {
				cfg.FileKey = "Rate1D_MC"
				cfg.Variation = "JES"
			},
			header: "kind,variation,",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(root)
			cfg.Output = schema.CSVOut
			cfg.OutputFile = filepath.Join(t.TempDir(), "out.csv")
			tt.adjust(cfg)

			require.NoError(t, tt.exec(quietCtx(), cfg, tt.mgr))

			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			require.Greater(t, len(lines), 1, "expected a header and at least one row")
			assert.True(t, strings.HasPrefix(lines[0], tt.header), lines[0])
		})
	}
}

// TestExecutorErrors checks pipeline errors surface from the entry points.
func TestExecutorErrors(t *testing.T) {
	empty := t.TempDir()
	tests := []struct {
		name string
		exec ExecutorFunc
		cfg  func() *contract.Config
	}{
		{"rate on empty dir", ExecuteRate, func() *contract.Config { return testConfig(empty) }},
		{"rate on missing dir", ExecuteRate, func() *contract.Config { return testConfig(filepath.Join(empty, "missing")) }},
		{"compare mc needs two pairs", ExecuteCompareMC, func() *contract.Config { return testConfig(empty) }},
		{"variations without store", ExecuteVariations, func() *contract.Config {
			cfg := testConfig(empty)
			cfg.FileKey, cfg.Variation = "Rate1D_MC", "JES"
			return cfg
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.exec(quietCtx(), tt.cfg(), nil))
		})
	}
}

// TestExecutorsWithContextCanceled makes sure a canceled context stops the rate pipeline.
func TestExecutorsWithContextCanceled(t *testing.T) {
	root := standardSamples(t)
	ctx, cancel := context.WithCancel(quietCtx())
	cancel()

	cfg := testConfig(root)
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")
	assert.Error(t, ExecuteRate(ctx, cfg, nil))
}
