package cmd

import (
	"github.com/huangsam/rateplot/core"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/spf13/cobra"
)

// sourcesCmd lists MC origin yields.
var sourcesCmd = &cobra.Command{
	Use:   "sources [input-dir]",
	Short: "List the MC origin yields behind the loose and tight selections.",
	Long: `Break the MC loose and tight selections down by truth origin.

The fake sources of each flavor come from the fake-sources-el and
fake-sources-mu lists of the config file. Every origin histogram found for a
source is integrated and reported once.

Examples:
  rateplot sources ./samples
  rateplot sources ./samples --flavor mu --quality Tight`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSources(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list source yields", err)
		}
	},
}

// classesCmd reports truth class fractions.
var classesCmd = &cobra.Command{
	Use:   "classes [input-dir]",
	Short: "Report the share of each truth class in the loose selection.",
	Long: `Compute the fraction of the leading-lepton loose selection made up by each
truth class histogram.

By default all MC sources of the input directory are aggregated. Use --file to
analyze a single source and --against to compare it with a second one.

Examples:
  rateplot classes ./samples
  rateplot classes --file ttbar.yaml --against wjets.yaml --flavor el`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClasses(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute class fractions", err)
		}
	},
}
