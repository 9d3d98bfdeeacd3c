package cmd

import (
	"github.com/huangsam/rateplot/core"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd is the parent for rate comparisons.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare rates across selections or MC pairs.",
	Long: `Put several rate sets side by side, with the ratio of each to the first.

Subcommands:
  selections - One sample's rate in every --dirs selection directory
  mc         - The MC rates of exactly two pass/total pairs

Examples:
  rateplot compare selections ./samples --dirs Efficiencies_Selection_1,Efficiencies_Selection_2
  rateplot compare mc ./samples --pass histoTight_el0,histoTight_mu0 --total histoLoose_el0,histoLoose_mu0`,
}

// compareSelectionsCmd compares selection directories.
var compareSelectionsCmd = &cobra.Command{
	Use:   "selections [input-dir]",
	Short: "Compare one sample's rate across selection directories.",
	Long: `Compute the rate of every pass/total pair in each directory given by --dirs
and compare them to the rate of the first directory.

Use --source MC or --source Data to pick the sample. Labels for each
directory come from the labels list of the config file when present.

Examples:
  rateplot compare selections ./samples --source Data --dirs Sel_1,Sel_2,Sel_3
  rateplot compare selections ./samples --output csv --output-file selections.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompareSelections(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compare selections", err)
		}
	},
}

// compareMCCmd compares two MC rates.
var compareMCCmd = &cobra.Command{
	Use:   "mc [input-dir]",
	Short: "Compare the MC rates of two pass/total pairs.",
	Long: `Compute the MC rate of exactly two pass/total pairs and compare the second
to the first.

Examples:
  rateplot compare mc ./samples --pass histoTight_el0,histoTight_el1 --total histoLoose_el0,histoLoose_el1`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompareMC(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compare MC rates", err)
		}
	},
}
