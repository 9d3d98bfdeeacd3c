package cmd

import (
	"github.com/huangsam/rateplot/core"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/spf13/cobra"
)

// rateCmd computes 1D efficiencies.
var rateCmd = &cobra.Command{
	Use:   "rate [input-dir]",
	Short: "Compute 1D fake or real lepton efficiencies.",
	Long: `Aggregate every pass (tight) and total (loose) histogram over the MC and
data sources, then divide them bin by bin into an efficiency with its
uncertainty.

MC sources are weighted by lumi over their virtual luminosity. With --prompt,
the MC-weighted prompt sample is subtracted from data before dividing. The
processes listed under subtract are removed from the fake rate with their
scale factors.

When no --pass/--total pairs are given, the standard legs (el0, el1, mu0, mu1)
are computed.

Examples:
  # Fake rates of all standard legs
  rateplot rate ./samples

  # Real rate of one pair, MC only
  rateplot rate ./samples --type Real --source MC --pass histoTight_el0 --total histoLoose_el0

  # Subtract prompt contamination and store the results
  rateplot rate ./samples --prompt --write --results-backend sqlite

  # Systematic variation: subtract the nominal histogram first
  rateplot rate ./samples --suffix JES --subtract-nominal --write --results-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRate(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute rates", err)
		}
	},
}

// rate2DCmd computes 2D efficiencies.
var rate2DCmd = &cobra.Command{
	Use:   "rate2d [input-dir]",
	Short: "Compute 2D (pT x eta) lepton efficiencies.",
	Long: `Compute efficiencies from 2D pass and total histograms, cell by cell.

Without --pass/--total pairs, histo2D_Tight_el and histo2D_Tight_mu are
divided by their Loose counterparts. MC weighting, prompt subtraction and
result storage work as for rate.

Examples:
  # 2D fake rates of all standard legs
  rateplot rate2d ./samples

  # Export the 2D rates to Parquet
  rateplot rate2d ./samples --output parquet --output-file rates2d`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRate2D(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute 2D rates", err)
		}
	},
}
