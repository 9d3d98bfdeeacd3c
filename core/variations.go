package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/rateplot/core/algo"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/outwriter"
	"github.com/huangsam/rateplot/schema"
)

// variationKind is one rate type and flavor combination.
type variationKind struct {
	rate   schema.RateType
	flavor schema.Flavor
}

func (k variationKind) String() string {
	return fmt.Sprintf("%s %s", k.rate, k.flavor.Short())
}

var variationKinds = []variationKind{
	{schema.FakeRate, schema.Muon},
	{schema.FakeRate, schema.Electron},
	{schema.RealRate, schema.Muon},
	{schema.RealRate, schema.Electron},
}

// matchesKind reports whether a stored result belongs to the kind.
func matchesKind(r schema.StoredResult, k variationKind) bool {
	return strings.HasPrefix(r.Name, string(k.rate)) && r.Flavor == k.flavor.Short()
}

// pickPair returns the first nominal entry (no variation tag) and the first
// variation entry of a kind.
func pickPair(entries []schema.StoredResult, k variationKind, variation string) (nominal, varied *schema.StoredResult) {
	for i := range entries {
		e := &entries[i]
		if !matchesKind(*e, k) {
			continue
		}
		if strings.Contains(e.Name, variation) {
			if varied == nil {
				varied = e
			}
		} else if nominal == nil {
			nominal = e
		}
	}
	return nominal, varied
}

// Variations runs the systematic differencer over one results file key: for
// every rate type and flavor it compares the first nominal result with the
// first one carrying the variation tag. 2D outputs also get their
// projections.
func Variations(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.VariationReport, error) {
	if cfg.FileKey == "" || cfg.Variation == "" {
		return nil, fmt.Errorf("%w: --file-key and --variation are required", schema.ErrConfiguration)
	}
	var store contract.ResultsStore
	if mgr != nil {
		store = mgr.GetResultsStore()
	}
	if store == nil {
		return nil, fmt.Errorf("%w: results store is not initialized", schema.ErrConfiguration)
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "variations")
	}

	entries, err := store.ListResults(cfg.FileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", cfg.FileKey, err)
	}
	var ones, twos []schema.StoredResult
	for _, e := range entries {
		switch e.Dimension {
		case 1:
			ones = append(ones, e)
		case 2:
			twos = append(twos, e)
		}
	}
	contract.LogDebug("variations", "%s holds %d 1D and %d 2D results", cfg.FileKey, len(ones), len(twos))

	report := &schema.VariationReport{FileKey: cfg.FileKey, Variation: cfg.Variation}
	for _, k := range variationKinds {
		if nom, vr := pickPair(ones, k, cfg.Variation); nom != nil && vr != nil {
			diff, err := algo.Differ(nom.H1, vr.H1)
			if err != nil {
				contract.LogWarn("differ "+vr.Name, err)
			} else {
				report.Results = append(report.Results, schema.VariationResult{
					Kind: k.String(), Nominal: nom.Name, Variation: vr.Name, Diff1D: diff,
				})
			}
		} else {
			contract.LogInfo("variations", "%v: no 1D %s pair for %s", schema.ErrLookupMiss, k, cfg.Variation)
		}

		if nom, vr := pickPair(twos, k, cfg.Variation); nom != nil && vr != nil {
			diff, err := algo.Differ2D(nom.H2, vr.H2)
			if err != nil {
				contract.LogWarn("differ "+vr.Name, err)
				continue
			}
			px, py := algo.Projections(diff)
			report.Results = append(report.Results, schema.VariationResult{
				Kind: k.String(), Nominal: nom.Name, Variation: vr.Name, Diff2D: diff, ProjX: px, ProjY: py,
			})
		}
	}
	if len(report.Results) == 0 {
		return nil, fmt.Errorf("%w: no nominal/variation pair for %s in %s", schema.ErrLookupMiss, cfg.Variation, cfg.FileKey)
	}
	return report, nil
}
