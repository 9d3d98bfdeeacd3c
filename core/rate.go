package core

import (
	"context"
	"fmt"

	"github.com/huangsam/rateplot/core/algo"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/outwriter"
	"github.com/huangsam/rateplot/schema"
)

// sampleSets holds the aggregated histograms of one directory.
type sampleSets struct {
	mc   *schema.HistogramSet // scaled by lumi, nil when no MC was read
	data *schema.HistogramSet // prompt-subtracted when requested
}

// loadSampleSets aggregates the selected samples of dir. The MC set is also
// read when processes are to be subtracted from Data.
func loadSampleSets(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, mgr contract.CacheManager, files *sampleFiles, sources []schema.SourceLabel, dir string) (*sampleSets, error) {
	out := &sampleSets{}
	needMC := len(cfg.SubtractProcesses) > 0 && len(files.MC) > 0
	for _, src := range sources {
		if src == schema.SourceMC {
			needMC = true
		}
	}

	if needMC {
		mc, err := cachedAggregate(ctx, cfg, reader, mgr, files.MC, dir, schema.MCSample)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate MC: %w", err)
		}
		mc.Scale(cfg.Lumi)
		out.mc = mc
	}

	for _, src := range sources {
		if src != schema.SourceData {
			continue
		}
		data, err := cachedAggregate(ctx, cfg, reader, mgr, files.Data, dir, schema.DataSample)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate Data: %w", err)
		}
		if cfg.Prompt {
			subtractPromptSample(ctx, cfg, reader, mgr, files, dir, data)
		}
		out.data = data
	}
	return out, nil
}

// subtractPromptSample removes the lumi-scaled prompt MC from data in place.
func subtractPromptSample(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, mgr contract.CacheManager, files *sampleFiles, dir string, data *schema.HistogramSet) {
	if len(files.Prompt) == 0 {
		contract.LogInfo("subtractPrompt", "%v: --prompt given without prompt files", schema.ErrLookupMiss)
		return
	}
	prompt, err := cachedAggregate(ctx, cfg, reader, mgr, files.Prompt, dir, schema.PromptSample)
	if err != nil {
		contract.LogWarn("subtractPrompt", err)
		return
	}
	prompt.Scale(cfg.Lumi)
	if err := algo.SubtractPromptSets(data, prompt); err != nil {
		contract.LogWarn("subtractPrompt", err)
		return
	}
	contract.LogInfo("subtractPrompt", "Subtracted %d prompt files from Data", len(files.Prompt))
}

// set returns the aggregated set of a sample.
func (s *sampleSets) set(src schema.SourceLabel) *schema.HistogramSet {
	if src == schema.SourceData {
		return s.data
	}
	return s.mc
}

// mcCandidates returns the MC histograms used as subtraction companions.
func (s *sampleSets) mcCandidates() map[string]*schema.Hist1D {
	if s.mc == nil {
		return nil
	}
	return s.mc.H1
}

// computeRate divides one pass/total pair of set after subtracting the
// configured processes. Missing histograms are a lookup miss.
func computeRate(cfg *contract.Config, set *schema.HistogramSet, candidates map[string]*schema.Hist1D, pair schema.RateInput) (*schema.Hist1D, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: sample was not read", schema.ErrLookupMiss)
	}
	pass, total := set.H1[pair.Pass], set.H1[pair.Total]
	if pass == nil || total == nil {
		return nil, fmt.Errorf("%w: no histograms [%s|%s] found", schema.ErrLookupMiss, pair.Pass, pair.Total)
	}
	pass, total = pass.Clone(pair.Pass), total.Clone(pair.Total)
	algo.SubtractNamedProcess(total, pass, candidates, cfg.SubtractProcesses)
	return algo.Divide(pass, total)
}

// sourceLabel is the legend label of a sample.
func sourceLabel(cfg *contract.Config, idx int, src schema.SourceLabel) string {
	if idx < len(cfg.Labels) {
		return cfg.Labels[idx]
	}
	return string(src)
}

// ratePairs returns the configured pairs, or the standard legs.
func ratePairs(cfg *contract.Config, defaults func() []schema.RateInput) []schema.RateInput {
	if len(cfg.Pairs) > 0 {
		return cfg.Pairs
	}
	return defaults()
}

// Rate1D computes the 1D rate of every pass/total pair for the selected
// samples, builds the rate graphs and their ratios against the first sample,
// and optionally writes the results.
func Rate1D(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, mgr contract.CacheManager) (*schema.RateReport, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "rate")
	}
	files, err := discoverSamples(cfg)
	if err != nil {
		return nil, err
	}
	sources, err := selectedSources(cfg.Source, files)
	if err != nil {
		return nil, err
	}

	ctx, writer, err := beginRun(ctx, cfg, mgr, "rate")
	if err != nil {
		return nil, err
	}
	defer writer.end()

	sets, err := loadSampleSets(ctx, cfg, reader, mgr, files, sources, cfg.EffDir())
	if err != nil {
		return nil, err
	}

	report := &schema.RateReport{RateType: cfg.RateType}
	for _, pair := range ratePairs(cfg, schema.DefaultPairs1D) {
		entry := schema.RatePair{Pass: pair.Pass, Total: pair.Total}
		var graphs []*schema.RateGraph
		for i, src := range sources {
			h, err := computeRate(cfg, sets.set(src), sets.mcCandidates(), pair)
			if err != nil {
				contract.LogInfo("calcRate", "%s: %v", src, err)
				continue
			}
			g := algo.GraphFromRate(h, paletteOf(src))
			g.Label = sourceLabel(cfg, i, src)
			entry.Results = append(entry.Results, schema.RateResult{
				Source: src,
				Pass:   pair.Pass,
				Total:  pair.Total,
				Hist:   h,
				Graph:  g,
				Stored: writer.write1D(h, src),
			})
			graphs = append(graphs, g)
		}
		if len(entry.Results) == 0 {
			continue
		}
		if len(graphs) > 1 {
			ratios, err := algo.RatioGraphs(graphs)
			if err != nil {
				contract.LogWarn("ratio "+pair.Pass, err)
			}
			entry.Ratios = ratios
		}
		report.Pairs = append(report.Pairs, entry)
	}

	if len(report.Pairs) == 0 {
		return nil, fmt.Errorf("%w: no rate could be computed for the selected pairs", schema.ErrLookupMiss)
	}
	if writer != nil {
		report.RunID, report.Written = writer.runID, writer.written
	}
	return report, nil
}
