package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// CheckEntries prepares a pass/total pair for division. It zeroes negative
// and NaN content in both histograms, including the flow slots, and clamps
// pass to total. It returns false, leaving both untouched, when either is nil or the
// bin counts differ.
func CheckEntries(pass, total *schema.Hist1D) bool {
	if pass == nil || total == nil {
		return false
	}
	if err := total.CheckShape(pass); err != nil {
		contract.LogInfo("checkEntries", "Bin numbers for h(pass) != h(tot): %v", err)
		return false
	}
	zeroNegative(pass.Content)
	zeroNegative(total.Content)
	for i := range pass.Content {
		if pass.Content[i] > total.Content[i] {
			pass.Content[i] = total.Content[i]
		}
	}
	return true
}

func zeroNegative(content []float64) {
	for i, v := range content {
		if v < 0 || math.IsNaN(v) {
			content[i] = 0
		}
	}
}

// CheckEntries2D is CheckEntries over the full 2D grid.
func CheckEntries2D(pass, total *schema.Hist2D) bool {
	if pass == nil || total == nil {
		return false
	}
	if err := total.CheckShape(pass); err != nil {
		contract.LogInfo("checkEntries", "Bin numbers for h(pass) != h(tot): %v", err)
		return false
	}
	zeroNegative(pass.Content)
	zeroNegative(total.Content)
	for i := range pass.Content {
		if pass.Content[i] > total.Content[i] {
			pass.Content[i] = total.Content[i]
		}
	}
	return true
}

// Divide computes pass/total per bin with the half width of the 68% normal
// interval as error. A bin whose ratio is not positive takes the integrated
// ratio over bins 1..N as both value and error.
func Divide(pass, total *schema.Hist1D) (*schema.Hist1D, error) {
	if !CheckEntries(pass, total) {
		return nil, invalidPair(pass, total)
	}
	h := total.Clone(schema.RatioName1D(pass.Name, total.Name))
	h.Reset()
	if h.XTitle == "" {
		h.XTitle = schema.XTitleFor(h.Tags)
	}

	n := h.NBins()
	integrated := safeRatio(pass.Integral(1, n), total.Integral(1, n))
	for i := 1; i <= n; i++ {
		p, t := pass.Content[i], total.Content[i]
		val := 0.0
		if t > 0 {
			val = p / t
		}
		unc := halfWidth(t, p)
		if val <= 0 {
			val, unc = integrated, integrated
		}
		contract.LogDebug("divideTH1", "Bin (%d): N(pass)=%.3f, N(tot)=%.3f \t Rate=%.2f (err=%.2f)", i, p, t, val, unc)
		h.Content[i] = val
		h.SetBinError(i, unc)
	}
	return h, nil
}

// Divide2D applies the Divide policy cell by cell. The fallback integral
// covers x-1..x over y 0..ny for the failing cell.
func Divide2D(pass, total *schema.Hist2D) (*schema.Hist2D, error) {
	if !CheckEntries2D(pass, total) {
		return nil, invalidPair2D(pass, total)
	}
	h := total.Clone(schema.RatioName2D(pass.Name, total.Name))
	h.Reset()

	nx, ny := h.NBinsX(), h.NBinsY()
	for x := 1; x <= nx; x++ {
		for y := 1; y <= ny; y++ {
			p, t := pass.BinContent(x, y), total.BinContent(x, y)
			val := 0.0
			if t > 0 {
				val = p / t
			}
			unc := halfWidth(t, p)
			if val <= 0 {
				val = safeRatio(pass.Integral(x-1, x, 0, ny), total.Integral(x-1, x, 0, ny))
				unc = val
			}
			contract.LogDebug("divideTH2", "Bin (%d|%d): N(pass)=%.3f, N(tot)=%.3f \t Rate=%.2f (err=%.2f)", x, y, p, t, val, unc)
			h.SetBinContent(x, y, val)
			h.SetBinError(x, y, unc)
		}
	}
	return h, nil
}

// safeRatio returns 0 instead of NaN or Inf for an empty denominator.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func invalidPair(pass, total *schema.Hist1D) error {
	if pass == nil || total == nil {
		return fmt.Errorf("%w: missing pass or total histogram", schema.ErrLookupMiss)
	}
	return total.CheckShape(pass)
}

func invalidPair2D(pass, total *schema.Hist2D) error {
	if pass == nil || total == nil {
		return fmt.Errorf("%w: missing pass or total histogram", schema.ErrLookupMiss)
	}
	return total.CheckShape(pass)
}
