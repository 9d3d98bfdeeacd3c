// Package core has the rate pipelines and their command entry points.
package core

import (
	"context"
	"time"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/outwriter"
	"github.com/huangsam/rateplot/internal/source"
	"github.com/huangsam/rateplot/schema"
)

// ExecutorFunc defines the function signature for executing different pipeline modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteRate runs the 1D rate pipeline and prints the results.
// It serves as the main entry point for the 'rate' mode.
func ExecuteRate(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := Rate1D(ctx, cfg, source.NewFileReader(), mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintRateReport(report, cfg, time.Since(start))
}

// ExecuteRate2D runs the 2D rate pipeline and prints the results.
func ExecuteRate2D(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := Rate2D(ctx, cfg, source.NewFileReader(), mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintRate2DReport(report, cfg, time.Since(start))
}

// ExecuteCompareSelections compares rates across selection directories.
func ExecuteCompareSelections(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	comparisons, err := CompareSelections(ctx, cfg, source.NewFileReader(), mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintComparisons(comparisons, cfg, time.Since(start))
}

// ExecuteCompareMC compares two MC rates.
func ExecuteCompareMC(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	comparison, err := CompareMCRates(ctx, cfg, source.NewFileReader(), mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintComparisons([]schema.RateComparison{*comparison}, cfg, time.Since(start))
}

// ExecuteSources prints the MC origin breakdown.
func ExecuteSources(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	yields, err := SourceBreakdown(ctx, cfg, source.NewFileReader(), mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSourceYields(yields, cfg, time.Since(start))
}

// ExecuteClasses prints the truth class fractions.
func ExecuteClasses(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := ClassFractions(ctx, cfg, source.NewFileReader(), mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintClassReport(report, cfg, time.Since(start))
}

// ExecuteVariations prints the systematic differencer output of a results file key.
func ExecuteVariations(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := Variations(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintVariationReport(report, cfg, time.Since(start))
}
