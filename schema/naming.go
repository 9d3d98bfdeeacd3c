package schema

import (
	"fmt"
	"strings"
)

// companionKey indexes the process subtraction decision table.
type companionKey struct {
	flavor         Flavor
	leg            Leg
	chargeFlipLike bool
}

// companionPattern holds the pass/total formats for a process name.
type companionPattern struct {
	pass  string
	total string
}

// companionTable1D maps a target's flavor and leg plus the process kind onto
// the companion histogram names. Muon charge-flip and conversion rows are
// absent because those processes do not exist for muons.
var companionTable1D = map[companionKey]companionPattern{
	{Electron, Leg0, false}: {"histoTight_%s_electron0", "histoLoose_%s_electron0"},
	{Electron, Leg0, true}:  {"histoTight_%s0", "histoLoose_%s0"},
	{Electron, Leg1, false}: {"histoTight_%s_electron1", "histoLoose_%s_electron1"},
	{Electron, Leg1, true}:  {"histoTight_%s1", "histoLoose_%s1"},
	{Muon, Leg0, false}:     {"histoTight_%s_muon0", "histoLoose_%s_muon0"},
	{Muon, Leg1, false}:     {"histoTight_%s_muon1", "histoLoose_%s_muon1"},
}

// companionTable2D is the 2D counterpart, keyed by flavor only.
var companionTable2D = map[companionKey]companionPattern{
	{Electron, LegAll, false}: {"histo2D_Tight_%s_electron", "histo2D_Loose_%s_electron"},
	{Electron, LegAll, true}:  {"histo2D_Tight_%s", "histo2D_Loose_%s"},
	{Muon, LegAll, false}:     {"histo2D_Tight_%s_muon", "histo2D_Loose_%s_muon"},
}

// CompanionNames resolves the pass and total histogram names to subtract for
// process from a 1D target with the given tags. ok is false when the table
// has no row, in which case the process is skipped.
func CompanionNames(target Tags, process string) (pass, total string, ok bool) {
	key := companionKey{target.Flavor, target.Leg, ProcessOf(process).ChargeFlipLike()}
	p, ok := companionTable1D[key]
	if !ok {
		return "", "", false
	}
	return fmt.Sprintf(p.pass, process), fmt.Sprintf(p.total, process), true
}

// CompanionNames2D resolves companion names for a 2D target.
func CompanionNames2D(target Tags, process string) (pass, total string, ok bool) {
	key := companionKey{target.Flavor, LegAll, ProcessOf(process).ChargeFlipLike()}
	p, ok := companionTable2D[key]
	if !ok {
		return "", "", false
	}
	return fmt.Sprintf(p.pass, process), fmt.Sprintf(p.total, process), true
}

// XTitleFor returns the conventional x-axis title for a 1D histogram.
func XTitleFor(t Tags) string {
	var object string
	switch t.Flavor {
	case Electron:
		object = "Electron"
	case Muon:
		object = "Muon"
	default:
		return ""
	}
	switch t.Leg {
	case Leg0:
		return object + " p_{T} [GeV]"
	case Leg1:
		return object + " |#eta|"
	default:
		return ""
	}
}

// AxisParam maps an axis title onto the short parameter used in result names.
func AxisParam(title string) string {
	switch {
	case strings.Contains(title, "p_{T}"):
		return "pt"
	case strings.Contains(title, "eta"):
		return "eta"
	default:
		return ""
	}
}

// AddSuffix appends the systematic suffix, if any.
func AddSuffix(name, suffix string) string {
	if suffix == "" {
		return name
	}
	return name + SuffixSeparator + suffix
}

// ResultFileKey groups stored results the way separate output files did.
func ResultFileKey(outName string, dim int, source SourceLabel) string {
	return fmt.Sprintf("%s%dD_%s", outName, dim, source)
}

// ResultName builds the stored name of a rate result:
// <type><outName><dim>D_<flavor>_<paraX>[_<paraY>][__<suffix>].
func ResultName(rate RateType, outName string, dim int, flavor Flavor, paraX, paraY, suffix string) string {
	name := fmt.Sprintf("%s%s%dD_%s_%s", rate, outName, dim, flavor.Short(), paraX)
	if dim == 2 {
		name += "_" + paraY
	}
	return AddSuffix(name, suffix)
}

// RatioName1D is the name of a 1D rate histogram.
func RatioName1D(pass, total string) string { return pass + "_" + total }

// RatioName2D is the name of a 2D rate histogram.
func RatioName2D(pass, total string) string { return pass + "_over_" + total }

// DefaultPairs1D returns the standard 1D pass/total pairs.
func DefaultPairs1D() []RateInput {
	out := make([]RateInput, 0, len(StandardLegs))
	for _, leg := range StandardLegs {
		out = append(out, RateInput{Pass: "histoTight_" + leg, Total: "histoLoose_" + leg})
	}
	return out
}

// DefaultPairs2D returns the standard 2D pass/total pairs.
func DefaultPairs2D() []RateInput {
	return []RateInput{
		{Pass: "histo2D_Tight_el", Total: "histo2D_Loose_el"},
		{Pass: "histo2D_Tight_mu", Total: "histo2D_Loose_mu"},
	}
}
