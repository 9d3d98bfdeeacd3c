package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/rateplot/core/agg"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/outwriter"
	"github.com/huangsam/rateplot/schema"
)

// classLabels maps a name marker onto a class label. The first match wins.
var classLabels = []struct {
	marker string
	label  string
}{
	{"_HF", "heavy flavor"},
	{"_LF", "light flavor"},
	{"Muon_electron", "muon-electron"},
	{"Tau", "tau decays"},
	{"not_classified", "unclassified"},
	{"prompt", "prompt lepton"},
	{"conversion", "conversion"},
	{"charge_flip", "charge-flip"},
}

// classLabel returns the human label of a class histogram.
func classLabel(name string) string {
	for _, c := range classLabels {
		if strings.Contains(name, c.marker) {
			return c.label
		}
	}
	return name
}

// isClassHistogram reports whether name is a loose leg-0 class histogram of
// flavor f other than the inclusive base.
func isClassHistogram(name string, f schema.Flavor) bool {
	if !strings.Contains(name, "histoLoose_") || strings.Contains(name, "all_") || !strings.Contains(name, "0") {
		return false
	}
	if name == "histoLoose_el0" || name == "histoLoose_mu0" {
		return false
	}
	switch f {
	case schema.Muon:
		return strings.Contains(name, "mu")
	case schema.Electron:
		return strings.Contains(name, "el") || strings.Contains(name, "conversion") || strings.Contains(name, "charge_flip")
	default:
		return false
	}
}

// classFractions computes the share of every class histogram in set.
func classFractions(set *schema.HistogramSet, flavors []schema.Flavor) []schema.ClassFraction {
	var out []schema.ClassFraction
	for _, f := range flavors {
		base := set.H1["histoLoose_"+f.Short()+"0"]
		if base == nil {
			contract.LogInfo("compClasses", "%v: no base histogram histoLoose_%s0", schema.ErrLookupMiss, f.Short())
			continue
		}
		den := base.Integral(1, base.NBins())
		for _, name := range set.Names1D() {
			if !isClassHistogram(name, f) {
				continue
			}
			h := set.H1[name]
			frac := 0.0
			if den != 0 {
				frac = h.Integral(1, h.NBins()) / den
			}
			out = append(out, schema.ClassFraction{
				Flavor:    f.Short(),
				Histogram: name,
				Class:     classLabel(name),
				Fraction:  frac,
			})
		}
	}
	return out
}

// ClassFractions reports the fraction of the loose leg-0 selection each truth
// class makes up. With cfg.Against set, the same fractions are computed for
// a second source and reported side by side.
func ClassFractions(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, mgr contract.CacheManager) (*schema.ClassReport, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "classes")
	}
	flavors := []schema.Flavor{schema.Electron, schema.Muon}
	if cfg.Flavor != schema.FlavorUnknown {
		flavors = []schema.Flavor{cfg.Flavor}
	}
	opts := aggregateOptions(cfg)

	report := &schema.ClassReport{File: cfg.File, Against: cfg.Against}
	var primary *schema.HistogramSet
	if cfg.File != "" {
		set, err := agg.Aggregate(ctx, reader, []string{cfg.File}, cfg.EffDir(), schema.MCSample, opts)
		if err != nil {
			return nil, err
		}
		primary = set
	} else {
		files, err := discoverSamples(cfg)
		if err != nil {
			return nil, err
		}
		if len(files.MC) == 0 {
			return nil, fmt.Errorf("%w: no MC files found and no --file given", schema.ErrConfiguration)
		}
		set, err := cachedAggregate(ctx, cfg, reader, mgr, files.MC, cfg.EffDir(), schema.MCSample)
		if err != nil {
			return nil, err
		}
		report.File = cfg.InputDir
		primary = set
	}

	report.Fractions = classFractions(primary, flavors)
	if len(report.Fractions) == 0 {
		return nil, fmt.Errorf("%w: no class histograms found", schema.ErrLookupMiss)
	}

	if cfg.Against != "" {
		other, err := agg.Aggregate(ctx, reader, []string{cfg.Against}, cfg.EffDir(), schema.MCSample, opts)
		if err != nil {
			return nil, err
		}
		byName := map[string]float64{}
		for _, fr := range classFractions(other, flavors) {
			byName[fr.Flavor+"/"+fr.Histogram] = fr.Fraction
		}
		for i := range report.Fractions {
			fr := &report.Fractions[i]
			fr.Against = byName[fr.Flavor+"/"+fr.Histogram]
		}
	}
	return report, nil
}
