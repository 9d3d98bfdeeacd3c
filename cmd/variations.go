package cmd

import (
	"github.com/huangsam/rateplot/core"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/spf13/cobra"
)

// variationsCmd compares stored systematic variations against nominal.
var variationsCmd = &cobra.Command{
	Use:   "variations",
	Short: "Compare stored systematic variations against their nominal rates.",
	Long: `Read the rates stored under a results file key and report, bin by bin, how
far each variation deviates from its nominal rate in percent.

Requires a results backend holding rates written with --write.

Examples:
  rateplot variations --results-backend sqlite --file-key Rate1D_MC --variation JES
  rateplot variations --results-backend sqlite --file-key Rate2D_Data --variation TOTAL --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVariations(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compare variations", err)
		}
	},
}
