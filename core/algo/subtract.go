package algo

import (
	"errors"
	"fmt"
	"math"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// Subtract removes background*sf from target in place over every bin,
// including the flow slots. Content is clamped at zero and errors are added
// in quadrature; the background error is not scaled. A nil operand is a no-op.
func Subtract(target, background *schema.Hist1D, sf float64) error {
	if target == nil || background == nil {
		return nil
	}
	if err := target.CheckShape(background); err != nil {
		return err
	}
	for i := range target.Content {
		target.Content[i] = math.Max(target.Content[i]-background.Content[i]*sf, 0)
		target.Sumw2[i] += background.Sumw2[i]
	}
	return nil
}

// Subtract2D is Subtract over the full 2D grid.
func Subtract2D(target, background *schema.Hist2D, sf float64) error {
	if target == nil || background == nil {
		return nil
	}
	if err := target.CheckShape(background); err != nil {
		return err
	}
	for i := range target.Content {
		target.Content[i] = math.Max(target.Content[i]-background.Content[i]*sf, 0)
		target.Sumw2[i] += background.Sumw2[i]
	}
	return nil
}

// SubtractPrompt subtracts prompt[i] from data[i] for every position. Empty
// or unequal lists are rejected before anything is mutated.
func SubtractPrompt(data, prompt []*schema.Hist1D) error {
	if len(data) == 0 || len(prompt) == 0 || len(data) != len(prompt) {
		return fmt.Errorf("%w: lists are empty or N(data)=%d != N(prompt)=%d", schema.ErrConfiguration, len(data), len(prompt))
	}
	for i := range data {
		if d, p := data[i], prompt[i]; d != nil && p != nil {
			if err := d.CheckShape(p); err != nil {
				return err
			}
		}
	}
	for i := range data {
		_ = Subtract(data[i], prompt[i], 1)
	}
	return nil
}

// SubtractPromptSets subtracts every prompt histogram from the data histogram
// of the same name. Names present in only one set are left alone.
func SubtractPromptSets(data, prompt *schema.HistogramSet) error {
	if data == nil || prompt == nil || data.Len() == 0 || prompt.Len() == 0 {
		return fmt.Errorf("%w: empty data or prompt set", schema.ErrConfiguration)
	}
	var d1, p1 []*schema.Hist1D
	for _, name := range data.Names1D() {
		if p, ok := prompt.H1[name]; ok {
			d1 = append(d1, data.H1[name])
			p1 = append(p1, p)
		}
	}
	if len(d1) > 0 {
		if err := SubtractPrompt(d1, p1); err != nil {
			return err
		}
	}
	for _, name := range data.Names2D() {
		if p, ok := prompt.H2[name]; ok {
			if err := Subtract2D(data.H2[name], p, 1); err != nil {
				contract.LogWarn("subtract prompt "+name, err)
			}
		}
	}
	return nil
}

// SubtractNamedProcess subtracts, for each entry in order, the companion
// pass/total histograms found in candidates. Entries without a table row or
// with a missing companion are skipped. It returns how many were applied.
func SubtractNamedProcess(total, pass *schema.Hist1D, candidates map[string]*schema.Hist1D, list []schema.ProcessEntry) int {
	if len(list) == 0 || len(candidates) == 0 || total == nil || pass == nil {
		contract.LogInfo("subtractMCProc", "No MC processes subtracted")
		return 0
	}
	applied := 0
	for _, entry := range list {
		passName, totalName, ok := schema.CompanionNames(total.Tags, entry.Process)
		if !ok {
			contract.LogDebug("subtractMCProc", "No companion for process %s on %s", entry.Process, total.Name)
			continue
		}
		procTotal, procPass := candidates[totalName], candidates[passName]
		if procTotal == nil || procPass == nil {
			contract.LogInfo("subtractMCProc", "%v: no histograms [%s|%s] found", schema.ErrLookupMiss, totalName, passName)
			continue
		}
		if err := errors.Join(total.CheckShape(procTotal), pass.CheckShape(procPass)); err != nil {
			contract.LogWarn("subtractMCProc", err)
			continue
		}
		sf := entry.SF()
		contract.LogInfo("subtractMCProc", "Subtracting histograms [%s|%s] (SF=%.1f) from [%s|%s]",
			passName, totalName, sf, pass.Name, total.Name)
		_ = Subtract(total, procTotal, sf)
		_ = Subtract(pass, procPass, sf)
		applied++
	}
	return applied
}

// WeightedSet is one source's histograms with the weight used when its
// companions are summed into a subtraction template.
type WeightedSet struct {
	Name   string
	Set    *schema.HistogramSet
	Weight float64
}

// SubtractNamedProcess2D builds, for each entry, Template_<p>_<name> clones of
// total and pass summed over sources with their weights, then subtracts them.
func SubtractNamedProcess2D(total, pass *schema.Hist2D, sources []WeightedSet, list []schema.ProcessEntry) int {
	if len(list) == 0 || len(sources) == 0 || total == nil || pass == nil {
		contract.LogInfo("subtractMCProc", "No MC processes subtracted")
		return 0
	}
	applied := 0
	for _, entry := range list {
		passName, totalName, ok := schema.CompanionNames2D(total.Tags, entry.Process)
		if !ok {
			continue
		}
		tmplTotal := total.Clone(fmt.Sprintf("Template_%s_%s", entry.Process, total.Name))
		tmplPass := pass.Clone(fmt.Sprintf("Template_%s_%s", entry.Process, pass.Name))
		tmplTotal.Reset()
		tmplPass.Reset()

		for _, src := range sources {
			ht, hp := src.Set.H2[totalName], src.Set.H2[passName]
			if ht == nil || hp == nil {
				contract.LogInfo("subtractMCProc", "%v: no histograms [%s|%s] in %s", schema.ErrLookupMiss, totalName, passName, src.Name)
				continue
			}
			if err := errors.Join(tmplTotal.CheckShape(ht), tmplPass.CheckShape(hp)); err != nil {
				contract.LogWarn("subtractMCProc "+src.Name, err)
				continue
			}
			ht, hp = ht.Clone(ht.Name), hp.Clone(hp.Name)
			ht.Scale(src.Weight)
			hp.Scale(src.Weight)
			_ = tmplTotal.Add(ht)
			_ = tmplPass.Add(hp)
		}

		sf := entry.SF()
		contract.LogInfo("subtractMCProc", "Subtracting histograms [%s|%s] (SF=%.1f) from [%s|%s]",
			tmplPass.Name, tmplTotal.Name, sf, pass.Name, total.Name)
		_ = Subtract2D(total, tmplTotal, sf)
		_ = Subtract2D(pass, tmplPass, sf)
		applied++
	}
	return applied
}
