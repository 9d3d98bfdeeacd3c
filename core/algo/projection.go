package algo

import "github.com/huangsam/rateplot/schema"

// Fractions of events per eta and pT bin, used to average a 2D map along
// one axis.
var (
	etaWeightsMu = []float64{0.225, 0.237, 0.209, 0.191, 0.137}
	etaWeightsEl = []float64{0.294, 0.312, 0.080, 0.190, 0.123}
	ptWeightsMu  = []float64{0.508, 0.307, 0.149, 0.027, 0.009}
	ptWeightsEl  = []float64{0.456, 0.243, 0.157, 0.056, 0.088}
)

func weightAt(w []float64, bin int) float64 {
	if bin < 1 || bin > len(w) {
		return 0
	}
	return w[bin-1]
}

// AverageEta returns the eta-weighted average of column xbin.
func AverageEta(xbin int, h *schema.Hist2D) float64 {
	w := etaWeightsEl
	if h.Tags.Flavor == schema.Muon {
		w = etaWeightsMu
	}
	var avg float64
	for y := 1; y <= h.NBinsY(); y++ {
		avg += h.BinContent(xbin, y) * weightAt(w, y)
	}
	return avg
}

// AveragePt returns the pT-weighted average of row ybin.
func AveragePt(ybin int, h *schema.Hist2D) float64 {
	w := ptWeightsEl
	if h.Tags.Flavor == schema.Muon {
		w = ptWeightsMu
	}
	var avg float64
	for x := 1; x <= h.NBinsX(); x++ {
		avg += h.BinContent(x, ybin) * weightAt(w, x)
	}
	return avg
}

// Projections returns <name>_pX holding AverageEta per x bin and <name>_pY
// holding AveragePt per y bin. The averages are stored as bin errors on
// zero content, so they read as bands around zero.
func Projections(h *schema.Hist2D) (px, py *schema.Hist1D) {
	px = schema.NewHist1D(h.Name+"_pX", h.Title, h.XEdges)
	px.XTitle = h.XTitle
	px.Tags = h.Tags
	for x := 1; x <= h.NBinsX(); x++ {
		px.SetBinError(x, AverageEta(x, h))
	}
	py = schema.NewHist1D(h.Name+"_pY", h.Title, h.YEdges)
	py.XTitle = h.YTitle
	py.Tags = h.Tags
	for y := 1; y <= h.NBinsY(); y++ {
		py.SetBinError(y, AveragePt(y, h))
	}
	return px, py
}
