package core

import (
	"context"
	"fmt"

	"github.com/huangsam/rateplot/core/agg"
	"github.com/huangsam/rateplot/core/algo"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/outwriter"
	"github.com/huangsam/rateplot/schema"
)

// Rate2D computes the pt/eta rate grids for the selected samples. Process
// templates are summed over the MC sources with weight lumi*norm; prompt MC
// is removed from Data file by file.
func Rate2D(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, mgr contract.CacheManager) (*schema.Rate2DReport, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "rate2d")
	}
	files, err := discoverSamples(cfg)
	if err != nil {
		return nil, err
	}
	sources, err := selectedSources(cfg.Source, files)
	if err != nil {
		return nil, err
	}

	ctx, writer, err := beginRun(ctx, cfg, mgr, "rate2d")
	if err != nil {
		return nil, err
	}
	defer writer.end()

	dir := cfg.EffDir()
	opts := aggregateOptions(cfg)

	var templates []algo.WeightedSet
	if len(cfg.SubtractProcesses) > 0 && len(files.MC) > 0 {
		templates, err = agg.Sources(ctx, reader, files.MC, dir, schema.MCSample, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to read MC templates: %w", err)
		}
		for i := range templates {
			templates[i].Weight *= cfg.Lumi
		}
	}

	report := &schema.Rate2DReport{RateType: cfg.RateType}
	for _, src := range sources {
		set, err := cachedAggregate(ctx, cfg, reader, mgr, files.paths(src), dir, kindOf(src))
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate %s: %w", src, err)
		}
		if src == schema.SourceMC {
			set.Scale(cfg.Lumi)
		}
		if src == schema.SourceData && cfg.Prompt {
			subtractPromptFiles(ctx, cfg, reader, files.Prompt, dir, set)
		}

		for _, pair := range ratePairs(cfg, schema.DefaultPairs2D) {
			pass, total := set.H2[pair.Pass], set.H2[pair.Total]
			if pass == nil || total == nil {
				contract.LogInfo("calcRate2D", "%v: no histograms [%s|%s] in %s", schema.ErrLookupMiss, pair.Pass, pair.Total, src)
				continue
			}
			pass, total = pass.Clone(pair.Pass), total.Clone(pair.Total)
			algo.SubtractNamedProcess2D(total, pass, templates, cfg.SubtractProcesses)
			h, err := algo.Divide2D(pass, total)
			if err != nil {
				contract.LogWarn("calcRate2D "+pair.Pass, err)
				continue
			}
			report.Results = append(report.Results, schema.RateResult2D{
				Source: src,
				Pass:   pair.Pass,
				Total:  pair.Total,
				Hist:   h,
				Stored: writer.write2D(h, src),
			})
		}
	}

	if len(report.Results) == 0 {
		return nil, fmt.Errorf("%w: no 2D rate could be computed for the selected pairs", schema.ErrLookupMiss)
	}
	if writer != nil {
		report.RunID, report.Written = writer.runID, writer.written
	}
	return report, nil
}

// subtractPromptFiles subtracts each prompt source from data separately,
// scaled by lumi and its own weight.
func subtractPromptFiles(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, paths []string, dir string, data *schema.HistogramSet) {
	if len(paths) == 0 {
		contract.LogInfo("subtractPrompt", "%v: --prompt given without prompt files", schema.ErrLookupMiss)
		return
	}
	prompts, err := agg.Sources(ctx, reader, paths, dir, schema.PromptSample, aggregateOptions(cfg))
	if err != nil {
		contract.LogWarn("subtractPrompt", err)
		return
	}
	for _, p := range prompts {
		scaled := p.Set.Clone()
		scaled.Scale(cfg.Lumi * p.Weight)
		if err := algo.SubtractPromptSets(data, scaled); err != nil {
			contract.LogWarn("subtractPrompt "+p.Name, err)
		}
	}
}
