package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		want Tags
	}{
		{"histoLoose_el0", Tags{Electron, Leg0, ProcessInclusive, Loose}},
		{"histoTight_mu1", Tags{Muon, Leg1, ProcessInclusive, Tight}},
		{"all_histoLoose_mu", Tags{Muon, LegAll, ProcessInclusive, Loose}},
		{"histoLoose_HF_electron0", Tags{Electron, Leg0, ProcessHF, Loose}},
		{"histoTight_LF_muon1", Tags{Muon, Leg1, ProcessLF, Tight}},
		{"histoLoose_charge_flip0", Tags{Electron, Leg0, ProcessChargeFlip, Loose}},
		{"histoTight_conversion1", Tags{Electron, Leg1, ProcessConversion, Tight}},
		{"histoLoose_Muon_electron0", Tags{Electron, Leg0, ProcessMuonElectron, Loose}},
		{"histoLoose_Tau_muon0", Tags{Muon, Leg0, ProcessTauMuon, Loose}},
		{"histoLoose_Fakes_muon0", Tags{Muon, Leg0, ProcessFakes, Loose}},
		{"histoTight_prompt_electron1", Tags{Electron, Leg1, ProcessPrompt, Tight}},
		{"histo2D_Tight_el", Tags{Electron, LegAll, ProcessInclusive, Tight}},
		{"histo2D_Loose_HF_muon", Tags{Muon, LegAll, ProcessHF, Loose}},
		{"histoTight_el0_histoLoose_el0", Tags{Electron, Leg0, ProcessInclusive, Tight}},
		{"FakeRate1D_mu_pt", Tags{Muon, LegNone, ProcessInclusive, QualityUnknown}},
		{"MCLumiHist", Tags{FlavorUnknown, LegNone, ProcessInclusive, QualityUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.name))
		})
	}
}

func TestProcessOf(t *testing.T) {
	tests := map[string]Process{
		"HF":             ProcessHF,
		"LF":             ProcessLF,
		"charge_flip":    ProcessChargeFlip,
		"conversion":     ProcessConversion,
		"Tau_electron":   ProcessTauElectron,
		"not_classified": ProcessNotClassified,
		"ttbar":          ProcessOther,
		"":               ProcessInclusive,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, ProcessOf(name))
		})
	}
	assert.True(t, ProcessChargeFlip.ChargeFlipLike())
	assert.True(t, ProcessConversion.ChargeFlipLike())
	assert.False(t, ProcessHF.ChargeFlipLike())
}

func TestProcessLabel(t *testing.T) {
	assert.Equal(t, "All fakes", ProcessFakes.Label())
	assert.Equal(t, "Heavy flavor", ProcessHF.Label())
	assert.Equal(t, "Muon elec.", ProcessMuonElectron.Label())
	assert.Equal(t, "Unclassified", ProcessNotClassified.Label())
	assert.Empty(t, ProcessOther.Label())
}

func TestParseFlavorAndQuality(t *testing.T) {
	assert.Equal(t, Electron, ParseFlavor("el"))
	assert.Equal(t, Muon, ParseFlavor(" Muon "))
	assert.Equal(t, FlavorUnknown, ParseFlavor("tau"))
	assert.Equal(t, Loose, ParseQuality("Loose"))
	assert.Equal(t, Tight, ParseQuality("tight"))
	assert.Equal(t, QualityUnknown, ParseQuality(""))
	assert.Equal(t, "electron", Electron.Long())
	assert.Equal(t, "unknown", FlavorUnknown.String())
}

func FuzzParseTags(f *testing.F) {
	for _, seed := range []string{"histoLoose_el0", "all_histoTight_mu", "histo2D_Loose_charge_flip", ""} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, name string) {
		tags := ParseTags(name)
		if tags.Leg < LegNone || tags.Leg > LegAll {
			t.Errorf("leg out of range for %q: %d", name, tags.Leg)
		}
		if tags.Process.ChargeFlipLike() && tags.Flavor == Muon && !containsAny(name, "muon", "_mu") {
			t.Errorf("charge flip without muon marker parsed as muon: %q", name)
		}
	})
}
