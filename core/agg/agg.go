// Package agg has aggregation logic for histogram sources.
package agg

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/rateplot/core/algo"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// Options tune how each source is prepared before summation.
type Options struct {
	// Composites maps a flavor onto the fake source tags merged into
	// composite histograms for every source.
	Composites map[schema.Flavor][]string
}

// Normalization returns 1/lumi for a source declaring a positive virtual
// luminosity and 1 otherwise.
func Normalization(reader contract.SourceReader, handle *schema.SourceHandle) float64 {
	lumi := reader.ReadNormalizationValue(handle)
	if lumi > 0 {
		contract.LogDebug("getMCNorm", "File %s : MC virtual lumi %.1f", handle.Name, lumi)
		return 1 / lumi
	}
	return 1
}

// Weight is the per-source weight for a sample kind. Only MC sources are
// normalized by their virtual luminosity.
func Weight(kind schema.SampleKind, norm float64) float64 {
	if kind == schema.MCSample {
		return norm
	}
	return 1
}

// Sources opens every path and reads dir, returning one unscaled set per
// source together with its weight. Sources lacking dir are skipped with a
// diagnostic; a source that cannot be opened aborts the read.
func Sources(ctx context.Context, reader contract.SourceReader, paths []string, dir string, kind schema.SampleKind, opts Options) ([]algo.WeightedSet, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no %s files selected", schema.ErrConfiguration, kind)
	}
	contract.LogInfo("getHistos", "Retrieving histograms from %d files", len(paths))

	out := make([]algo.WeightedSet, 0, len(paths))
	for _, path := range paths {
		handle, err := reader.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		set, err := reader.ReadHistogramSet(handle, dir)
		if err != nil {
			if errors.Is(err, schema.ErrLookupMiss) {
				contract.LogInfo("getHistos", "%v", err)
				continue
			}
			return nil, err
		}
		for _, f := range []schema.Flavor{schema.Electron, schema.Muon} {
			tags := opts.Composites[f]
			if len(tags) == 0 {
				continue
			}
			if err := algo.MergeComposites(set, f, tags); err != nil {
				contract.LogInfo("addFakeHist", "%s: %v", handle.Name, err)
			}
		}
		out = append(out, algo.WeightedSet{
			Name:   handle.Name,
			Set:    set,
			Weight: Weight(kind, Normalization(reader, handle)),
		})
		contract.LogDebug("getHistos", "Retrieved %d histograms from %s", set.Len(), handle.Name)
	}
	return out, nil
}

// Sum adds the weighted sets by histogram name. A name first seen in a later
// source starts a new entry; a histogram whose shape differs from the
// accumulated one is skipped with a warning. The inputs are not modified.
func Sum(sources []algo.WeightedSet) *schema.HistogramSet {
	acc := schema.NewHistogramSet()
	for _, src := range sources {
		for _, name := range src.Set.Names1D() {
			h := src.Set.H1[name].Clone(name)
			h.Scale(src.Weight)
			if cur, ok := acc.H1[name]; ok {
				if err := cur.Add(h); err != nil {
					contract.LogWarn("sum "+src.Name, err)
				}
				continue
			}
			acc.H1[name] = h
		}
		for _, name := range src.Set.Names2D() {
			h := src.Set.H2[name].Clone(name)
			h.Scale(src.Weight)
			if cur, ok := acc.H2[name]; ok {
				if err := cur.Add(h); err != nil {
					contract.LogWarn("sum "+src.Name, err)
				}
				continue
			}
			acc.H2[name] = h
		}
	}
	return acc
}

// Aggregate reads paths and returns their weighted, name-keyed sum.
func Aggregate(ctx context.Context, reader contract.SourceReader, paths []string, dir string, kind schema.SampleKind, opts Options) (*schema.HistogramSet, error) {
	sources, err := Sources(ctx, reader, paths, dir, kind, opts)
	if err != nil {
		return nil, err
	}
	return Sum(sources), nil
}
