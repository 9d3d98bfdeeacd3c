package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/iocache"
	"github.com/huangsam/rateplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "rateplot",
	Short: "Compute fake and real lepton efficiencies from histogram sources.",
	Long: `Rateplot aggregates pass and total histograms across MC and data sources,
subtracts prompt backgrounds and turns them into fake or real lepton efficiencies.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setConfigSource points Viper at the explicit --config file or the default search paths.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".rateplot")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSource()

	viper.SetEnvPrefix("RATEPLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("input-dir", ".")
	viper.SetDefault("lumi", contract.DefaultLumi)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("type", schema.FakeRate)
	viper.SetDefault("source", schema.SourceAll)
	viper.SetDefault("out-name", contract.DefaultOutName)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("results-backend", schema.NoneBackend)
	viper.SetDefault("results-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("emoji", "no")
}

// readConfigFile merges the config file into Viper. A missing file is fine.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// bindLocalFlags binds the running command's own flags to Viper. Several
// commands define flags with the same key, so binding happens per run.
func bindLocalFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.LocalNonPersistentFlags()); err != nil {
		return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, cmd *cobra.Command, args []string) error {
	if err := bindLocalFlags(cmd); err != nil {
		return err
	}
	if err := readConfigFile(); err != nil {
		return err
	}

	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// A positional argument overrides --input-dir.
	if len(args) == 1 {
		input.InputDir = args[0]
	}

	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	contract.SetDebug(cfg.Debug)

	// The none results backend leaves the store unset so --write fails loudly.
	resultsBackend := cfg.ResultsBackend
	if resultsBackend == schema.NoneBackend {
		resultsBackend = ""
	}
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, resultsBackend, cfg.ResultsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to the store commands.
func loadConfigFile() error {
	setConfigSource()
	return readConfigFile()
}

// sqliteFile returns the SQLite database file a connection string points at.
func sqliteFile(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
