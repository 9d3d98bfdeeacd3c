package algo

import (
	"fmt"

	"github.com/huangsam/rateplot/schema"
)

// NormalizePalette maps unknown palette keys onto the default blue.
func NormalizePalette(key schema.PaletteKey) schema.PaletteKey {
	if _, ok := schema.ValidPaletteKeys[key]; ok {
		return key
	}
	return schema.PaletteMCBlue
}

// RateGraph returns the point-set form of Divide(pass, total): one point per
// bin at the bin center, x errors of half the bin width and y errors equal to
// the bin error.
func RateGraph(pass, total *schema.Hist1D, palette schema.PaletteKey) (*schema.RateGraph, error) {
	h, err := Divide(pass, total)
	if err != nil {
		return nil, err
	}
	return GraphFromRate(h, palette), nil
}

// GraphFromRate converts an already divided histogram into its graph form.
func GraphFromRate(h *schema.Hist1D, palette schema.PaletteKey) *schema.RateGraph {
	g := &schema.RateGraph{
		Name:    h.Name,
		Palette: NormalizePalette(palette),
		XTitle:  h.XTitle,
		Points:  make([]schema.GraphPoint, h.NBins()),
		Tags:    h.Tags,
	}
	for i := 1; i <= h.NBins(); i++ {
		half := 0.5 * h.BinWidth(i)
		e := h.BinError(i)
		g.Points[i-1] = schema.GraphPoint{
			X: h.BinCenter(i), Y: h.Content[i],
			EXL: half, EXH: half,
			EYL: e, EYH: e,
		}
	}
	return g
}

// RatioGraphs divides every graph by the first one point by point. The
// nominal itself is only included when it is the sole input. Points where
// either value is not positive get a ratio of 0.
func RatioGraphs(graphs []*schema.RateGraph) ([]*schema.RateGraph, error) {
	if len(graphs) == 0 {
		return nil, fmt.Errorf("%w: no input graphs provided", schema.ErrConfiguration)
	}
	nominal := graphs[0]
	out := make([]*schema.RateGraph, 0, len(graphs))
	for idx, g := range graphs {
		if len(graphs) > 1 && idx == 0 {
			continue
		}
		if g.N() != nominal.N() {
			return nil, fmt.Errorf("%w: graph %s has %d points, nominal %s has %d",
				schema.ErrShapeMismatch, g.Name, g.N(), nominal.Name, nominal.N())
		}
		r := &schema.RateGraph{
			Name:    "Ratio_" + g.Name,
			Label:   g.Label,
			Palette: g.Palette,
			XTitle:  g.XTitle,
			Points:  make([]schema.GraphPoint, g.N()),
			Tags:    g.Tags,
		}
		for i, p := range g.Points {
			yN := nominal.Points[i].Y
			pt := schema.GraphPoint{X: p.X, EXL: p.EXL, EXH: p.EXH}
			if p.Y > 0 && yN > 0 {
				pt.Y = p.Y / yN
			}
			if yN > 0 {
				pt.EYL = p.EYL / yN
				pt.EYH = p.EYH / yN
			}
			r.Points[i] = pt
		}
		out = append(out, r)
	}
	return out, nil
}
