package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/rateplot/core"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/source"
	"github.com/huangsam/rateplot/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	reader  contract.SourceReader
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// applyInputArgs applies the arguments shared by every file-reading tool.
func applyInputArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	if p := request.GetString("input_dir", ""); p != "" {
		cfg.InputDir = p
	}
	if cfg.InputDir == "" {
		return fmt.Errorf("%w: input_dir is required", schema.ErrConfiguration)
	}
	if dirs := splitList(request.GetString("dirs", "")); len(dirs) > 0 {
		cfg.Dirs = dirs
	}
	if l := request.GetFloat("lumi", 0); l != 0 {
		if l < 0 {
			return fmt.Errorf("%w: lumi must be greater than 0", schema.ErrConfiguration)
		}
		cfg.Lumi = l
	}
	if s := request.GetString("source", ""); s != "" {
		label := schema.SourceLabel(s)
		if _, ok := schema.ValidSourceLabels[label]; !ok {
			return fmt.Errorf("%w: invalid source '%s'. must be MC, Data, all", schema.ErrConfiguration, s)
		}
		cfg.Source = label
	}
	return nil
}

// applyRateArgs applies rate selection, pairs and subtraction arguments.
func applyRateArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	if err := applyInputArgs(cfg, request); err != nil {
		return err
	}
	if r := request.GetString("type", ""); r != "" {
		rt := schema.RateType(r)
		if _, ok := schema.ValidRateTypes[rt]; !ok {
			return fmt.Errorf("%w: invalid rate type '%s'. must be Fake or Real", schema.ErrConfiguration, r)
		}
		cfg.RateType = rt
	}
	pass, total := splitList(request.GetString("pass", "")), splitList(request.GetString("total", ""))
	if len(pass) != len(total) {
		return fmt.Errorf("%w: %d pass histograms given for %d total histograms", schema.ErrConfiguration, len(pass), len(total))
	}
	if len(pass) > 0 {
		cfg.Pairs = nil
		for i := range pass {
			cfg.Pairs = append(cfg.Pairs, schema.RateInput{Pass: pass[i], Total: total[i]})
		}
	}
	if sub := request.GetString("subtract", ""); sub != "" {
		entries, err := contract.ParseProcessList(sub)
		if err != nil {
			return fmt.Errorf("%w: %w", schema.ErrConfiguration, err)
		}
		cfg.SubtractProcesses = entries
	}
	cfg.Prompt = request.GetBool("prompt", cfg.Prompt)
	cfg.Write = request.GetBool("write", cfg.Write)
	if s := request.GetString("suffix", ""); s != "" {
		cfg.Suffix = s
	}
	if labels := splitList(request.GetString("labels", "")); len(labels) > 0 {
		cfg.Labels = labels
	}
	return nil
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func (h *toolHandler) handleComputeRate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyRateArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid rate parameters: %v", err)), nil
	}
	report, err := core.Rate1D(core.WithSuppressHeader(ctx), cfg, h.reader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rate computation failed: %v", err)), nil
	}
	return jsonResult(report), nil
}

func (h *toolHandler) handleComputeRate2D(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyRateArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid rate parameters: %v", err)), nil
	}
	report, err := core.Rate2D(core.WithSuppressHeader(ctx), cfg, h.reader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("2D rate computation failed: %v", err)), nil
	}
	return jsonResult(report), nil
}

func (h *toolHandler) handleCompareSelections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyRateArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}
	comparisons, err := core.CompareSelections(core.WithSuppressHeader(ctx), cfg, h.reader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(comparisons), nil
}

func (h *toolHandler) handleCompareMCRates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyRateArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}
	comparison, err := core.CompareMCRates(core.WithSuppressHeader(ctx), cfg, h.reader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(comparison), nil
}

// applySelectionArgs applies the flavor and quality filters.
func applySelectionArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	if f := request.GetString("flavor", ""); f != "" {
		if cfg.Flavor = schema.ParseFlavor(f); cfg.Flavor == schema.FlavorUnknown {
			return fmt.Errorf("%w: invalid flavor '%s'. must be el or mu", schema.ErrConfiguration, f)
		}
	}
	if q := request.GetString("quality", ""); q != "" {
		if cfg.Quality = schema.ParseQuality(q); cfg.Quality == schema.QualityUnknown {
			return fmt.Errorf("%w: invalid quality '%s'. must be Loose or Tight", schema.ErrConfiguration, q)
		}
	}
	return nil
}

func (h *toolHandler) handleListSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	err := applyInputArgs(cfg, request)
	if err == nil {
		err = applySelectionArgs(cfg, request)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid source parameters: %v", err)), nil
	}
	if el := splitList(request.GetString("fake_sources_el", "")); len(el) > 0 {
		cfg.FakeSourcesEl = el
	}
	if mu := splitList(request.GetString("fake_sources_mu", "")); len(mu) > 0 {
		cfg.FakeSourcesMu = mu
	}

	yields, err := core.SourceBreakdown(core.WithSuppressHeader(ctx), cfg, h.reader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("source breakdown failed: %v", err)), nil
	}
	return jsonResult(yields), nil
}

func (h *toolHandler) handleClassFractions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.File = request.GetString("file", cfg.File)
	cfg.Against = request.GetString("against", cfg.Against)
	if cfg.File == "" {
		if err := applyInputArgs(cfg, request); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid class parameters: %v", err)), nil
		}
	}
	if err := applySelectionArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid class parameters: %v", err)), nil
	}

	report, err := core.ClassFractions(core.WithSuppressHeader(ctx), cfg, h.reader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("class fractions failed: %v", err)), nil
	}
	return jsonResult(report), nil
}

func (h *toolHandler) handleComputeVariations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.FileKey = strings.TrimSpace(request.GetString("file_key", ""))
	cfg.Variation = strings.TrimSpace(request.GetString("variation", ""))
	if cfg.FileKey == "" || cfg.Variation == "" {
		return mcp.NewToolResultError("invalid variation parameters: file_key and variation are required"), nil
	}

	report, err := core.Variations(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("variation comparison failed: %v", err)), nil
	}
	return jsonResult(report), nil
}

func newToolHandler(baseCfg *contract.Config, mgr contract.CacheManager) *toolHandler {
	return &toolHandler{baseCfg: baseCfg, mgr: mgr, reader: source.NewFileReader()}
}
