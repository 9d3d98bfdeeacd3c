package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/rateplot/core/algo"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// resultFlavor derives the flavor of a rate histogram from its name. An "_el"
// marker wins over "_mu".
func resultFlavor(name string) schema.Flavor {
	f := schema.FlavorUnknown
	if strings.Contains(name, "_mu") {
		f = schema.Muon
	}
	if strings.Contains(name, "_el") {
		f = schema.Electron
	}
	return f
}

// xTitleOf returns the stored x-axis title, or the conventional one.
func xTitleOf(h *schema.Hist1D) string {
	if h.XTitle != "" {
		return h.XTitle
	}
	return schema.XTitleFor(h.Tags)
}

// WriteResult stores a 1D rate histogram in the results store and returns the
// name it was stored under. With SubtractNominal and a suffix configured, the
// stored content is |variation - nominal| against the nominal entry of the
// same file key.
func WriteResult(store contract.ResultsStore, runID string, cfg *contract.Config, h *schema.Hist1D, category schema.RateType, src schema.SourceLabel) (string, error) {
	if store == nil {
		return "", fmt.Errorf("%w: results store is not initialized", schema.ErrConfiguration)
	}
	if h == nil {
		contract.LogInfo("writeToFile", "Nothing to write")
		return "", nil
	}
	name := schema.ResultName(category, cfg.OutName, 1, resultFlavor(h.Name), schema.AxisParam(xTitleOf(h)), "", cfg.Suffix)
	out := h.Clone(name)
	result := schema.StoredResult{
		FileKey:   schema.ResultFileKey(cfg.OutName, 1, src),
		Name:      name,
		RunID:     runID,
		Dimension: 1,
		Category:  category,
		Source:    string(src),
		Flavor:    resultFlavor(h.Name).Short(),
		H1:        out,
	}
	if nominal := findNominal(store, cfg, result); nominal != nil && nominal.H1 != nil {
		contract.LogInfo("subtractNominal", "Subtract %s (nominal) from %s (syst. variation)", nominal.Name, name)
		if err := algo.SubtractNominal(out, nominal.H1); err != nil {
			contract.LogWarn("subtractNominal "+name, err)
		}
	}
	if err := store.PutResult(result); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	contract.LogInfo("writeToFile", "Wrote histogram %s/%s", result.FileKey, name)
	return name, nil
}

// WriteResult2D is WriteResult for 2D rate grids. The axis parameters are
// always pt and eta.
func WriteResult2D(store contract.ResultsStore, runID string, cfg *contract.Config, h *schema.Hist2D, category schema.RateType, src schema.SourceLabel) (string, error) {
	if store == nil {
		return "", fmt.Errorf("%w: results store is not initialized", schema.ErrConfiguration)
	}
	if h == nil {
		contract.LogInfo("writeToFile", "Nothing to write")
		return "", nil
	}
	name := schema.ResultName(category, cfg.OutName, 2, resultFlavor(h.Name), "pt", "eta", cfg.Suffix)
	out := h.Clone(name)
	result := schema.StoredResult{
		FileKey:   schema.ResultFileKey(cfg.OutName, 2, src),
		Name:      name,
		RunID:     runID,
		Dimension: 2,
		Category:  category,
		Source:    string(src),
		Flavor:    resultFlavor(h.Name).Short(),
		H2:        out,
	}
	if nominal := findNominal(store, cfg, result); nominal != nil && nominal.H2 != nil {
		contract.LogInfo("subtractNominal", "Subtract %s (nominal) from %s (syst. variation)", nominal.Name, name)
		if err := algo.SubtractNominal2D(out, nominal.H2); err != nil {
			contract.LogWarn("subtractNominal "+name, err)
		}
	}
	if err := store.PutResult(result); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	contract.LogInfo("writeToFile", "Wrote histogram %s/%s", result.FileKey, name)
	return name, nil
}

// findNominal returns the first stored entry of the same file key whose name
// is part of the variation name and carries no suffix. It returns nil when
// nominal subtraction is off or nothing matches.
func findNominal(store contract.ResultsStore, cfg *contract.Config, variation schema.StoredResult) *schema.StoredResult {
	if !cfg.SubtractNominal || cfg.Suffix == "" {
		return nil
	}
	entries, err := store.ListResults(variation.FileKey)
	if err != nil {
		contract.LogWarn("subtractNominal", err)
		return nil
	}
	for i := range entries {
		e := entries[i]
		if e.Dimension != variation.Dimension || strings.Contains(e.Name, schema.SuffixSeparator) {
			continue
		}
		if strings.Contains(variation.Name, e.Name) {
			return &e
		}
	}
	contract.LogInfo("subtractNominal", "%v: no nominal histogram for variation %s in %s, writing it unchanged",
		schema.ErrLookupMiss, variation.Name, variation.FileKey)
	return nil
}

// resultWriter writes pipeline outputs within one tracked run.
type resultWriter struct {
	cfg     *contract.Config
	store   contract.ResultsStore
	runID   string
	written int
}

// beginRun opens a tracked run when --write is set. The returned writer is
// nil when nothing is to be written.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, command string) (context.Context, *resultWriter, error) {
	if !cfg.Write {
		return ctx, nil, nil
	}
	var store contract.ResultsStore
	if mgr != nil {
		store = mgr.GetResultsStore()
	}
	if store == nil {
		return ctx, nil, fmt.Errorf("%w: --write needs a results backend", schema.ErrConfiguration)
	}
	w := &resultWriter{cfg: cfg, store: store}
	runID, err := store.BeginRun(command, time.Now(), runParams(cfg))
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx, w, nil
	}
	w.runID = runID
	return withRunID(ctx, runID), w, nil
}

// end finalizes the tracked run.
func (w *resultWriter) end() {
	if w == nil || w.runID == "" {
		return
	}
	if err := w.store.EndRun(w.runID, time.Now(), w.written); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

func (w *resultWriter) write1D(h *schema.Hist1D, src schema.SourceLabel) string {
	if w == nil {
		return ""
	}
	name, err := WriteResult(w.store, w.runID, w.cfg, h, w.cfg.RateType, src)
	return w.count(name, err)
}

func (w *resultWriter) write2D(h *schema.Hist2D, src schema.SourceLabel) string {
	if w == nil {
		return ""
	}
	name, err := WriteResult2D(w.store, w.runID, w.cfg, h, w.cfg.RateType, src)
	return w.count(name, err)
}

func (w *resultWriter) count(name string, err error) string {
	if err != nil {
		if errors.Is(err, schema.ErrConfiguration) {
			contract.LogWarn("writeToFile", err)
		} else {
			contract.LogWarn("Failed to store result", err)
		}
		return ""
	}
	if name != "" {
		w.written++
	}
	return name
}

// runParams is the configuration recorded with a run.
func runParams(cfg *contract.Config) map[string]any {
	subtract := make([]string, 0, len(cfg.SubtractProcesses))
	for _, e := range cfg.SubtractProcesses {
		subtract = append(subtract, fmt.Sprintf("%s:%g", e.Process, e.SF()))
	}
	return map[string]any{
		"input_dir": cfg.InputDir,
		"dirs":      cfg.Dirs,
		"lumi":      cfg.Lumi,
		"rate_type": string(cfg.RateType),
		"source":    string(cfg.Source),
		"prompt":    cfg.Prompt,
		"suffix":    cfg.Suffix,
		"out_name":  cfg.OutName,
		"subtract":  subtract,
	}
}
