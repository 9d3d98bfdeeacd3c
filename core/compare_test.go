package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/rateplot/internal/source"
	"github.com/huangsam/rateplot/schema"
)

func TestCompareSelections(t *testing.T) {
	root := t.TempDir()
	writeSample(t, root, "mc_ttbar.yaml", 1, map[string][]source.HistogramDoc{
		"Sel_A": {h1("histoTight_el0", 4, 2), h1("histoLoose_el0", 8, 4)},
		"Sel_B": {h1("histoTight_el0", 6, 3), h1("histoLoose_el0", 8, 4)},
	})

	cfg := testConfig(root)
	cfg.Source = schema.SourceMC
	cfg.Dirs = []string{"Sel_A", "Sel_B"}
	cfg.Pairs = []schema.RateInput{{Pass: "histoTight_el0", Total: "histoLoose_el0"}}

	out, err := CompareSelections(quietCtx(), cfg, source.NewFileReader(), nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	cmp := out[0]
	assert.Equal(t, "histoTight_el0_over_histoLoose_el0_Selections_MC", cmp.Name)
	require.Len(t, cmp.Graphs, 2)
	assert.Equal(t, "Sel_A", cmp.Graphs[0].Label)
	assert.Equal(t, schema.PaletteMCBlue, cmp.Graphs[0].Palette)
	assert.Equal(t, schema.PaletteMCCyan, cmp.Graphs[1].Palette)
	require.Len(t, cmp.Ratios, 1)
	assert.InDelta(t, 1.5, cmp.Ratios[0].Points[0].Y, 1e-9)

	t.Run("labels and suffix", func(t *testing.T) {
		cfg := cfg.Clone()
		cfg.Labels = []string{"nominal", "tighter"}
		cfg.Suffix = "v2"
		out, err := CompareSelections(quietCtx(), cfg, source.NewFileReader(), nil)
		require.NoError(t, err)
		assert.Equal(t, "histoTight_el0_over_histoLoose_el0_Selections_MC__v2", out[0].Name)
		assert.Equal(t, "tighter", out[0].Graphs[1].Label)
	})

	t.Run("source is required", func(t *testing.T) {
		cfg := cfg.Clone()
		cfg.Source = schema.SourceAll
		_, err := CompareSelections(quietCtx(), cfg, source.NewFileReader(), nil)
		assert.ErrorIs(t, err, schema.ErrConfiguration)
	})
}

func TestCompareMCRates(t *testing.T) {
	root := t.TempDir()
	writeSample(t, root, "mc_ttbar.yaml", 1, map[string][]source.HistogramDoc{
		schema.DefaultEffDir: {
			h1("histoTight_HF_electron0", 2, 2),
			h1("histoLoose_HF_electron0", 8, 8),
			h1("histoTight_LF_electron0", 4, 4),
			h1("histoLoose_LF_electron0", 8, 8),
		},
	})
	cfg := testConfig(root)
	cfg.Pairs = []schema.RateInput{
		{Pass: "histoTight_HF_electron0", Total: "histoLoose_HF_electron0"},
		{Pass: "histoTight_LF_electron0", Total: "histoLoose_LF_electron0"},
	}

	cmp, err := CompareMCRates(quietCtx(), cfg, source.NewFileReader(), nil)
	require.NoError(t, err)
	assert.Equal(t, "histoTight_HF_electron0_over_histoLoose_HF_electron0_AND_histoTight_LF_electron0_over_histoLoose_LF_electron0", cmp.Name)
	require.Len(t, cmp.Graphs, 2)
	assert.Equal(t, "Heavy flavor", cmp.Graphs[0].Label)
	assert.Equal(t, "Light flavor", cmp.Graphs[1].Label)
	assert.Equal(t, schema.PaletteMCRed, cmp.Graphs[1].Palette)
	require.Len(t, cmp.Ratios, 1)
	assert.InDelta(t, 2.0, cmp.Ratios[0].Points[0].Y, 1e-9)

	t.Run("two pairs required", func(t *testing.T) {
		cfg := cfg.Clone()
		cfg.Pairs = cfg.Pairs[:1]
		_, err := CompareMCRates(quietCtx(), cfg, source.NewFileReader(), nil)
		assert.ErrorIs(t, err, schema.ErrConfiguration)
	})

	t.Run("missing histogram", func(t *testing.T) {
		cfg := cfg.Clone()
		cfg.Pairs[1].Pass = "histoTight_conversion0"
		_, err := CompareMCRates(quietCtx(), cfg, source.NewFileReader(), nil)
		assert.ErrorIs(t, err, schema.ErrLookupMiss)
	})
}
