package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/rateplot/schema"
)

func TestDiffer(t *testing.T) {
	tests := []struct {
		name     string
		varName  string
		nom, v   float64
		expected float64
	}{
		{"plain variation", "FakeRate1D_el_pt__ptCone", 0.4, 0.3, 30},
		{"plain variation capped", "FakeRate1D_el_pt__ptCone", 0.4, 2, 100},
		{"negative variation floored", "FakeRate1D_el_pt__ptCone", 0.4, -0.5, 0},
		{"total variation", "FakeRate1D_el_pt__TOTAL", 0.04, 0.01, 25},
		{"total variation empty nominal", "FakeRate1D_el_pt__TOTAL", 0, 0.01, 100},
		{"total variation capped", "FakeRate1D_el_pt__TOTAL", 0.1, 0.5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nom := hist(t, "FakeRate1D_el_pt", 0, tt.nom, 0)
			v := hist(t, tt.varName, 9, tt.v, 9)
			d, err := Differ(nom, v)
			require.NoError(t, err)
			assert.Equal(t, "Diff_"+tt.varName, d.Name)
			assert.InDelta(t, tt.expected, d.BinContent(1), 1e-9)
			assert.Zero(t, d.Content[0])
			assert.InDelta(t, tt.v, v.BinContent(1), 1e-12)
		})
	}

	t.Run("undefined ratio gives zero", func(t *testing.T) {
		for _, name := range []string{"FakeRate1D_el_pt__ptCone", "FakeRate1D_el_pt__TOTAL"} {
			d, err := Differ(hist(t, "FakeRate1D_el_pt", 0, 0.04, 0), hist(t, name, 0, math.NaN(), 0))
			require.NoError(t, err)
			assert.Zero(t, d.BinContent(1), name)
		}
		d, err := Differ(hist(t, "FakeRate1D_el_pt", 0, math.Inf(1), 0), hist(t, "FakeRate1D_el_pt__TOTAL", 0, math.Inf(1), 0))
		require.NoError(t, err)
		assert.Zero(t, d.BinContent(1))
	})

	_, err := Differ(nil, hist(t, "v", 0, 1, 0))
	assert.ErrorIs(t, err, schema.ErrLookupMiss)
	_, err = Differ(hist(t, "n", 0, 1, 1, 0), hist(t, "v", 0, 1, 0))
	assert.ErrorIs(t, err, schema.ErrShapeMismatch)
}

func TestDiffer2D(t *testing.T) {
	nom := grid(t, "FakeRate2D_el_pt_eta", 1, 1, 0.04)
	v := grid(t, "FakeRate2D_el_pt_eta__TOTAL", 1, 1, 0.01)
	d, err := Differ2D(nom, v)
	require.NoError(t, err)
	assert.Equal(t, "Diff_FakeRate2D_el_pt_eta__TOTAL", d.Name)
	assert.InDelta(t, 25.0, d.BinContent(1, 1), 1e-9)
	assert.Equal(t, schema.Electron, d.Tags.Flavor)
}

func FuzzDiffer(f *testing.F) {
	f.Add(0.04, 0.01, true)
	f.Add(0.4, -3.0, false)
	f.Add(0.0, 7.5, true)
	f.Add(0.04, math.NaN(), true)
	f.Add(math.Inf(1), math.Inf(1), true)
	f.Add(0.2, math.NaN(), false)
	f.Fuzz(func(t *testing.T, nom, v float64, total bool) {
		name := "FakeRate1D_mu_pt__ptCone"
		if total {
			name = "FakeRate1D_mu_pt__TOTAL"
		}
		d, err := Differ(hist(t, "FakeRate1D_mu_pt", 0, nom, 0), hist(t, name, 0, v, 0))
		if err != nil {
			t.Fatal(err)
		}
		got := d.BinContent(1)
		if math.IsNaN(got) || got < 0 || got > 100 {
			t.Errorf("Differ(%v, %v, total=%v) = %v, want value in [0, 100]", nom, v, total, got)
		}
	})
}

func TestSubtractNominal(t *testing.T) {
	v := hist(t, "FakeRate1D_el_pt__ptCone", 9, 3, 1, 9)
	require.NoError(t, SubtractNominal(v, hist(t, "FakeRate1D_el_pt", 1, 5, 4, 1)))
	assert.Equal(t, []float64{9, 2, 3, 9}, v.Content)

	assert.ErrorIs(t, SubtractNominal(v, hist(t, "n", 0, 1, 0)), schema.ErrShapeMismatch)

	v2 := grid(t, "FakeRate2D_el_pt_eta__ptCone", 2, 1, 0.3)
	nom2 := grid(t, "FakeRate2D_el_pt_eta", 2, 1, 0.5)
	require.NoError(t, SubtractNominal2D(v2, nom2))
	assert.InDelta(t, 0.2, v2.BinContent(1, 1), 1e-12)
	assert.InDelta(t, 0.2, v2.BinContent(2, 1), 1e-12)
}
