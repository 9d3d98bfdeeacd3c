// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/rateplot/internal/contract"
)

// rateArgs are the tool options shared by the rate and comparison tools.
func rateArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("input_dir", mcp.Description("Directory holding the histogram sources. Defaults to the configured input directory.")),
		mcp.WithString("dirs", mcp.Description("Comma-separated histogram directories inside each source.")),
		mcp.WithString("type", mcp.Description("Rate type."), mcp.Enum("Fake", "Real")),
		mcp.WithString("source", mcp.Description("Sample to compute the rate for."), mcp.Enum("MC", "Data", "all")),
		mcp.WithString("pass", mcp.Description("Comma-separated pass histogram names.")),
		mcp.WithString("total", mcp.Description("Comma-separated total histogram names, one per pass histogram.")),
		mcp.WithString("subtract", mcp.Description("Processes to subtract with scale factors, e.g. 'HF:1.2,LF'.")),
		mcp.WithNumber("lumi", mcp.Description("Integrated luminosity the MC is scaled to.")),
		mcp.WithBoolean("prompt", mcp.Description("Subtract the prompt sample from data.")),
		mcp.WithBoolean("write", mcp.Description("Persist the results to the results store.")),
		mcp.WithString("suffix", mcp.Description("Systematic variation suffix appended to result names.")),
		mcp.WithString("labels", mcp.Description("Comma-separated legend labels.")),
	}
}

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)...)
}

// NewMCPServer initializes and configures the rateplot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Rateplot Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := newToolHandler(baseCfg, mgr)

	s.AddTool(newTool("compute_rate",
		"Compute 1D fake or real lepton efficiencies (tight over loose) for MC and data.",
		rateArgs()...), h.handleComputeRate)

	s.AddTool(newTool("compute_rate_2d",
		"Compute 2D (pT x eta) lepton efficiencies.",
		rateArgs()...), h.handleComputeRate2D)

	s.AddTool(newTool("compare_selections",
		"Compare the rate of one sample across several selection directories.",
		rateArgs()...), h.handleCompareSelections)

	s.AddTool(newTool("compare_mc_rates",
		"Compare the MC rates of exactly two pass/total pairs.",
		rateArgs()...), h.handleCompareMCRates)

	s.AddTool(newTool("list_sources",
		"List the MC origin yields behind the loose and tight selections.",
		mcp.WithString("input_dir", mcp.Description("Directory holding the histogram sources.")),
		mcp.WithString("dirs", mcp.Description("Comma-separated histogram directories.")),
		mcp.WithString("flavor", mcp.Description("Restrict to one flavor."), mcp.Enum("el", "mu")),
		mcp.WithString("quality", mcp.Description("Restrict to one quality."), mcp.Enum("Loose", "Tight")),
		mcp.WithString("fake_sources_el", mcp.Description("Comma-separated electron fake sources, e.g. 'HF,LF,conversion'.")),
		mcp.WithString("fake_sources_mu", mcp.Description("Comma-separated muon fake sources.")),
	), h.handleListSources)

	s.AddTool(newTool("class_fractions",
		"Report the share of each truth class in the loose selection.",
		mcp.WithString("input_dir", mcp.Description("Directory holding the MC sources, used when no file is given.")),
		mcp.WithString("file", mcp.Description("A single MC source to analyze.")),
		mcp.WithString("against", mcp.Description("A second MC source to compare against.")),
		mcp.WithString("flavor", mcp.Description("Restrict to one flavor."), mcp.Enum("el", "mu")),
	), h.handleClassFractions)

	s.AddTool(newTool("compute_variations",
		"Compare stored systematic variations against their nominal rates, in percent.",
		mcp.WithString("file_key", mcp.Description("Results file key, e.g. 'Rate1D_MC'."), mcp.Required()),
		mcp.WithString("variation", mcp.Description("Variation tag, e.g. 'JES'."), mcp.Required()),
	), h.handleComputeVariations)

	return s
}

// StartMCPServer starts the rateplot MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
