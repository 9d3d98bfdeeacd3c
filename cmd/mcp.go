package cmd

import (
	"github.com/huangsam/rateplot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the rateplot MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents compute rates, comparisons,
source breakdowns and variations through standard tools.

The root flags and the config file provide the defaults every tool call
starts from.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
