package algo

import (
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/rateplot/schema"
)

// IsTotalVariation reports whether a variation name marks the total variation.
func IsTotalVariation(name string) bool {
	return strings.Contains(name, schema.TotalVariationFlag)
}

// relativePercent turns one bin of a variation into a percentage in [0, 100].
func relativePercent(nom, v float64, total bool) float64 {
	ratio := v
	if total {
		ratio = 1
		if nom > 0 {
			ratio = v / nom
		}
	}
	if math.IsNaN(ratio) {
		return 0
	}
	return 100 * math.Max(math.Min(ratio, 1), 0)
}

// Differ returns Diff_<variation>: per bin, 100*min(var,1) for a plain
// variation, whose content already is a relative deviation, or
// 100*min(var/nom,1) for the total variation (100 where nom is not positive).
// An undefined ratio gives 0. The inputs are not modified.
func Differ(nominal, variation *schema.Hist1D) (*schema.Hist1D, error) {
	if nominal == nil || variation == nil {
		return nil, fmt.Errorf("%w: missing nominal or variation", schema.ErrLookupMiss)
	}
	if err := nominal.CheckShape(variation); err != nil {
		return nil, err
	}
	out := nominal.Clone("Diff_" + variation.Name)
	out.Reset()
	total := IsTotalVariation(variation.Name)
	for i := 1; i <= out.NBins(); i++ {
		out.Content[i] = relativePercent(nominal.Content[i], variation.Content[i], total)
	}
	return out, nil
}

// Differ2D is Differ over the regular cells of a 2D grid.
func Differ2D(nominal, variation *schema.Hist2D) (*schema.Hist2D, error) {
	if nominal == nil || variation == nil {
		return nil, fmt.Errorf("%w: missing nominal or variation", schema.ErrLookupMiss)
	}
	if err := nominal.CheckShape(variation); err != nil {
		return nil, err
	}
	out := nominal.Clone("Diff_" + variation.Name)
	out.Reset()
	total := IsTotalVariation(variation.Name)
	for x := 1; x <= out.NBinsX(); x++ {
		for y := 1; y <= out.NBinsY(); y++ {
			out.SetBinContent(x, y, relativePercent(nominal.BinContent(x, y), variation.BinContent(x, y), total))
		}
	}
	return out, nil
}

// SubtractNominal replaces the regular bins of variation by |var - nom|.
func SubtractNominal(variation, nominal *schema.Hist1D) error {
	if err := variation.CheckShape(nominal); err != nil {
		return err
	}
	for i := 1; i <= nominal.NBins(); i++ {
		variation.Content[i] = math.Abs(variation.Content[i] - nominal.Content[i])
	}
	return nil
}

// SubtractNominal2D is SubtractNominal over the regular cells of a 2D grid.
func SubtractNominal2D(variation, nominal *schema.Hist2D) error {
	if err := variation.CheckShape(nominal); err != nil {
		return err
	}
	for x := 1; x <= nominal.NBinsX(); x++ {
		for y := 1; y <= nominal.NBinsY(); y++ {
			variation.SetBinContent(x, y, math.Abs(variation.BinContent(x, y)-nominal.BinContent(x, y)))
		}
	}
	return nil
}
