// Package cmd defines the command-line interface for rateplot.
package cmd

import (
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addRateFlags registers the rate selection flags shared by the rate and compare commands.
func addRateFlags(flags *pflag.FlagSet) {
	flags.String("type", string(schema.FakeRate), "Rate type: Fake or Real")
	flags.String("source", string(schema.SourceAll), "Sample to compute: MC or Data or all")
	flags.StringSlice("pass", nil, "Comma-separated pass (tight) histogram names")
	flags.StringSlice("total", nil, "Comma-separated total (loose) histogram names, one per pass histogram")
	flags.StringSlice("palettes", nil, "Comma-separated palette keys, one per pair (e.g. MC_blue,Data)")
	flags.Bool("prompt", false, "Subtract the MC-weighted prompt sample from data")
	flags.StringSlice("prompt-files", nil, "Glob patterns of the prompt sources")
	flags.String("suffix", "", "Systematic variation suffix for result names")
	flags.Bool("subtract-nominal", false, "Subtract the nominal-named histogram from the variation")
	flags.String("out-name", contract.DefaultOutName, "Prefix of the stored result file keys")
	flags.Bool("write", false, "Persist the computed rates to the results store")
	flags.String("subtract-override", "", "Processes to subtract with scale factors (format: 'HF:1.2,LF,conversion:0.9')")
}

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(rate2DCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(variationsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(resultsCmd)

	compareCmd.AddCommand(compareSelectionsCmd)
	compareCmd.AddCommand(compareMCCmd)

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	resultsCmd.AddCommand(resultsClearCmd)
	resultsCmd.AddCommand(resultsStatusCmd)
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsRunsCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	resultsCmd.AddCommand(resultsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("input-dir", ".", "Directory holding the histogram sources")
	rootCmd.PersistentFlags().StringSlice("include", []string{schema.DefaultIncludeGlob}, "Glob patterns of the sources to read, relative to the input directory")
	rootCmd.PersistentFlags().StringSlice("keys", nil, "Only keep sources whose file name contains every one of these keys")
	rootCmd.PersistentFlags().StringSlice("dirs", []string{schema.DefaultEffDir}, "Histogram directories inside each source")
	rootCmd.PersistentFlags().Float64("lumi", contract.DefaultLumi, "Integrated luminosity the MC is scaled to")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("emoji", "no", "Decorate the run header with emojis (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("debug", false, "Print debug diagnostics to stderr")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("results-backend", string(schema.NoneBackend), "Results backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("results-db-connect", "", "Database connection string for the results store (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Local flags that share a key across commands (type, flavor, file-key)
	// are bound to Viper by bindLocalFlags once the running command is known.
	for _, c := range []*cobra.Command{rateCmd, rate2DCmd, compareSelectionsCmd, compareMCCmd} {
		addRateFlags(c.Flags())
	}

	sourcesCmd.Flags().String("flavor", "", "Restrict to one flavor: el or mu")
	sourcesCmd.Flags().String("quality", "", "Restrict to one quality: Loose or Tight")

	classesCmd.Flags().String("file", "", "A single MC source to analyze")
	classesCmd.Flags().String("against", "", "A second MC source to compare against")
	classesCmd.Flags().String("flavor", "", "Restrict to one flavor: el or mu")

	variationsCmd.Flags().String("file-key", "", "Results file key holding nominal and varied rates (e.g. Rate1D_MC)")
	variationsCmd.Flags().String("variation", "", "Variation tag to compare against nominal (e.g. JES)")

	resultsListCmd.Flags().String("file-key", "", "Only list results under this file key")

	// Bind all flags of resultsMigrateCmd to Viper
	resultsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(resultsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding results migrate flags", err)
	}
}
