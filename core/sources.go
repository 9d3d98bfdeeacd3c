package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/outwriter"
	"github.com/huangsam/rateplot/schema"
)

// breakdownSources lists the origins reported for a flavor: prompt, the
// configured fake sources, then the inclusive fakes. Each origin is listed
// once.
func breakdownSources(cfg *contract.Config, f schema.Flavor) []string {
	fakes := cfg.FakeSources(f)
	if len(fakes) == 0 {
		return nil
	}
	out := make([]string, 0, len(fakes)+2)
	seen := make(map[string]bool, len(fakes)+2)
	for _, src := range append(append([]string{"prompt"}, fakes...), "Fakes") {
		if !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	return out
}

// matchesOrigin reports whether name holds the yield of src for the flavor,
// quality and leg. Electron charge-flip and conversion histograms carry no
// flavor marker in their name.
func matchesOrigin(name string, f schema.Flavor, q schema.Quality, src, leg string) bool {
	if !strings.Contains(name, q.String()) || !strings.Contains(name, src) || !strings.Contains(name, leg) {
		return false
	}
	if strings.Contains(name, f.Short()) {
		return true
	}
	return f == schema.Electron && schema.ProcessOf(src).ChargeFlipLike()
}

// SourceBreakdown reports the MC yield of every configured origin per flavor,
// quality and leg.
func SourceBreakdown(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, mgr contract.CacheManager) ([]schema.SourceYield, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, "sources")
	}
	files, err := discoverSamples(cfg)
	if err != nil {
		return nil, err
	}
	if len(files.MC) == 0 {
		return nil, fmt.Errorf("%w: no MC files found", schema.ErrConfiguration)
	}

	flavors := []schema.Flavor{schema.Electron, schema.Muon}
	if cfg.Flavor != schema.FlavorUnknown {
		flavors = []schema.Flavor{cfg.Flavor}
	}
	qualities := []schema.Quality{schema.Loose, schema.Tight}
	if cfg.Quality != schema.QualityUnknown {
		qualities = []schema.Quality{cfg.Quality}
	}

	mc, err := cachedAggregate(ctx, cfg, reader, mgr, files.MC, cfg.EffDir(), schema.MCSample)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate MC: %w", err)
	}
	mc.Scale(cfg.Lumi)
	names := mc.Names1D()

	var out []schema.SourceYield
	for _, f := range flavors {
		srcs := breakdownSources(cfg, f)
		if len(srcs) == 0 {
			if cfg.Flavor != schema.FlavorUnknown {
				return nil, fmt.Errorf("%w: no fake sources configured for %s", schema.ErrConfiguration, f.Long())
			}
			contract.LogInfo("getMCSources", "No fake sources configured for %s, skipping", f.Long())
			continue
		}
		for _, q := range qualities {
			for _, leg := range []string{"0", "1"} {
				for _, src := range srcs {
					for _, name := range names {
						if strings.Contains(name, "all_") || !matchesOrigin(name, f, q, src, leg) {
							continue
						}
						h := mc.H1[name]
						out = append(out, schema.SourceYield{
							Flavor:    f.Short(),
							Quality:   q.String(),
							Leg:       leg,
							Source:    src,
							Histogram: name,
							Origin:    schema.ProcessOf(src).Label(),
							Yield:     h.Integral(1, h.NBins()),
						})
					}
				}
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no origin histograms matched", schema.ErrLookupMiss)
	}
	return out, nil
}
