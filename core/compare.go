package core

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/huangsam/rateplot/core/algo"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/outwriter"
	"github.com/huangsam/rateplot/schema"
)

// selectionPalettes style the directories of a selection comparison in order.
var selectionPalettes = []schema.PaletteKey{
	schema.PaletteMCBlue,
	schema.PaletteMCCyan,
	schema.PaletteMCViolet,
	schema.PaletteMCRed,
	schema.PaletteMCGreen,
	schema.PaletteMCOrange,
}

// paletteAt returns the configured palette for position i, else fallback[i].
func paletteAt(cfg *contract.Config, i int, fallback []schema.PaletteKey) schema.PaletteKey {
	if i < len(cfg.Palettes) {
		return cfg.Palettes[i]
	}
	return fallback[i%len(fallback)]
}

// CompareSelections computes the rate of every pair in each configured
// directory of one sample and the ratios against the first directory.
func CompareSelections(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, mgr contract.CacheManager) ([]schema.RateComparison, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "compare selections")
	}
	files, err := discoverSamples(cfg)
	if err != nil {
		return nil, err
	}
	src, err := singleSource(cfg.Source, files)
	if err != nil {
		return nil, err
	}
	if len(cfg.Dirs) == 0 {
		return nil, fmt.Errorf("%w: no selection directories given", schema.ErrConfiguration)
	}

	perDir := make([]*sampleSets, 0, len(cfg.Dirs))
	for _, dir := range cfg.Dirs {
		sets, err := loadSampleSets(ctx, cfg, reader, mgr, files, []schema.SourceLabel{src}, dir)
		if err != nil {
			return nil, fmt.Errorf("selection %s: %w", dir, err)
		}
		perDir = append(perDir, sets)
	}

	var out []schema.RateComparison
	for _, pair := range ratePairs(cfg, schema.DefaultPairs1D) {
		cmp := schema.RateComparison{
			Name: schema.AddSuffix(fmt.Sprintf("%s_over_%s_Selections_%s", pair.Pass, pair.Total, src), cfg.Suffix),
		}
		for i, dir := range cfg.Dirs {
			sets := perDir[i]
			h, err := computeRate(cfg, sets.set(src), sets.mcCandidates(), pair)
			if err != nil {
				contract.LogInfo("compareSelections", "%s: %v", dir, err)
				continue
			}
			g := algo.GraphFromRate(h, paletteAt(cfg, i, selectionPalettes))
			g.Label = filepath.Base(dir)
			if i < len(cfg.Labels) {
				g.Label = cfg.Labels[i]
			}
			cmp.Graphs = append(cmp.Graphs, g)
		}
		if len(cmp.Graphs) == 0 {
			continue
		}
		ratios, err := algo.RatioGraphs(cmp.Graphs)
		if err != nil {
			contract.LogWarn("compareSelections "+cmp.Name, err)
		}
		cmp.Ratios = ratios
		out = append(out, cmp)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no selection could be compared", schema.ErrLookupMiss)
	}
	return out, nil
}

// mcPalettes are the default styles of the two MC rates.
var mcPalettes = []schema.PaletteKey{schema.PaletteMCBlue, schema.PaletteMCRed}

// CompareMCRates compares exactly two pass/total pairs read from the
// lumi-scaled MC sample.
func CompareMCRates(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, mgr contract.CacheManager) (*schema.RateComparison, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "compare mc")
	}
	if len(cfg.Pairs) != 2 {
		return nil, fmt.Errorf("%w: exactly two pass/total pairs are required, got %d", schema.ErrConfiguration, len(cfg.Pairs))
	}
	files, err := discoverSamples(cfg)
	if err != nil {
		return nil, err
	}
	if len(files.MC) == 0 {
		return nil, fmt.Errorf("%w: no MC files found", schema.ErrConfiguration)
	}
	mc, err := cachedAggregate(ctx, cfg, reader, mgr, files.MC, cfg.EffDir(), schema.MCSample)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate MC: %w", err)
	}
	mc.Scale(cfg.Lumi)

	p1, p2 := cfg.Pairs[0], cfg.Pairs[1]
	cmp := &schema.RateComparison{
		Name: schema.AddSuffix(fmt.Sprintf("%s_over_%s_AND_%s_over_%s", p1.Pass, p1.Total, p2.Pass, p2.Total), cfg.Suffix),
	}
	for i, pair := range cfg.Pairs {
		pass, total := mc.H1[pair.Pass], mc.H1[pair.Total]
		if pass == nil || total == nil {
			return nil, fmt.Errorf("%w: no histograms [%s|%s] found", schema.ErrLookupMiss, pair.Pass, pair.Total)
		}
		g, err := algo.RateGraph(pass.Clone(pair.Pass), total.Clone(pair.Total), paletteAt(cfg, i, mcPalettes))
		if err != nil {
			return nil, err
		}
		g.Label = schema.ParseTags(pair.Pass).Process.Label()
		if i < len(cfg.Labels) {
			g.Label = cfg.Labels[i]
		}
		cmp.Graphs = append(cmp.Graphs, g)
	}
	cmp.Ratios, err = algo.RatioGraphs(cmp.Graphs)
	if err != nil {
		return nil, err
	}
	return cmp, nil
}
