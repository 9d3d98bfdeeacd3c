package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjections(t *testing.T) {
	tests := []struct {
		name   string
		hist   string
		eta    float64
		pt     float64
		suffix string
	}{
		{"muon weights", "Diff_FakeRate2D_mu_pt_eta__TOTAL", 0.225 + 0.237, 0.508 + 0.307, "_pX"},
		{"electron weights", "Diff_FakeRate2D_el_pt_eta__TOTAL", 0.294 + 0.312, 0.456 + 0.243, "_pX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := grid(t, tt.hist, 2, 2, 1)
			assert.InDelta(t, tt.eta, AverageEta(1, h), 1e-12)
			assert.InDelta(t, tt.pt, AveragePt(1, h), 1e-12)

			px, py := Projections(h)
			assert.Equal(t, tt.hist+tt.suffix, px.Name)
			assert.Equal(t, tt.hist+"_pY", py.Name)
			assert.Equal(t, 2, px.NBins())
			assert.InDelta(t, tt.eta, px.BinError(1), 1e-12)
			assert.InDelta(t, tt.pt, py.BinError(2), 1e-12)
			assert.Zero(t, px.Integral(0, 3))
		})
	}

	t.Run("bins beyond weight table count as zero", func(t *testing.T) {
		h := grid(t, "histo2D_Tight_mu", 7, 7, 1)
		var want float64
		for _, w := range etaWeightsMu {
			want += w
		}
		assert.InDelta(t, want, AverageEta(3, h), 1e-12)
	})
}
