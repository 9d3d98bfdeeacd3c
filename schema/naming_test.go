package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanionNames(t *testing.T) {
	tests := []struct {
		target    string
		process   string
		wantPass  string
		wantTotal string
		wantOK    bool
	}{
		{"histoLoose_el0", "HF", "histoTight_HF_electron0", "histoLoose_HF_electron0", true},
		{"histoLoose_el0", "charge_flip", "histoTight_charge_flip0", "histoLoose_charge_flip0", true},
		{"histoLoose_el1", "LF", "histoTight_LF_electron1", "histoLoose_LF_electron1", true},
		{"histoLoose_el1", "conversion", "histoTight_conversion1", "histoLoose_conversion1", true},
		{"histoLoose_mu0", "HF", "histoTight_HF_muon0", "histoLoose_HF_muon0", true},
		{"histoLoose_mu1", "Tau_muon", "histoTight_Tau_muon_muon1", "histoLoose_Tau_muon_muon1", true},
		{"histoLoose_mu0", "charge_flip", "", "", false},
		{"histoLoose_mu1", "conversion", "", "", false},
		{"histoLoose_Fakes_electron0", "HF", "histoTight_HF_electron0", "histoLoose_HF_electron0", true},
		{"histoLoose_Fakes_muon1", "LF", "histoTight_LF_muon1", "histoLoose_LF_muon1", true},
		{"all_histoLoose_el", "HF", "", "", false},
		{"MCLumiHist", "HF", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.target+"/"+tt.process, func(t *testing.T) {
			pass, total, ok := CompanionNames(ParseTags(tt.target), tt.process)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPass, pass)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestCompanionNames2D(t *testing.T) {
	tests := []struct {
		target    string
		process   string
		wantPass  string
		wantTotal string
		wantOK    bool
	}{
		{"histo2D_Loose_el", "HF", "histo2D_Tight_HF_electron", "histo2D_Loose_HF_electron", true},
		{"histo2D_Loose_el", "conversion", "histo2D_Tight_conversion", "histo2D_Loose_conversion", true},
		{"histo2D_Loose_mu", "LF", "histo2D_Tight_LF_muon", "histo2D_Loose_LF_muon", true},
		{"histo2D_Loose_mu", "charge_flip", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.target+"/"+tt.process, func(t *testing.T) {
			pass, total, ok := CompanionNames2D(ParseTags(tt.target), tt.process)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPass, pass)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestResultNaming(t *testing.T) {
	assert.Equal(t, "FakeRate1D_mu_pt", ResultName(FakeRate, "Rate", 1, Muon, "pt", "", ""))
	assert.Equal(t, "RealRate2D_el_pt_eta__SYS", ResultName(RealRate, "Rate", 2, Electron, "pt", "eta", "SYS"))
	assert.Equal(t, "Rate1D_MC", ResultFileKey("Rate", 1, SourceMC))
	assert.Equal(t, "a__b", AddSuffix("a", "b"))
	assert.Equal(t, "a", AddSuffix("a", ""))
	assert.Equal(t, "p_t", RatioName1D("p", "t"))
	assert.Equal(t, "p_over_t", RatioName2D("p", "t"))
}

func TestAxisTitles(t *testing.T) {
	tests := []struct {
		name      string
		wantTitle string
		wantParam string
	}{
		{"histoLoose_el0", "Electron p_{T} [GeV]", "pt"},
		{"histoLoose_el1", "Electron |#eta|", "eta"},
		{"histoLoose_mu0", "Muon p_{T} [GeV]", "pt"},
		{"histoLoose_muon1", "Muon |#eta|", "eta"},
		{"histoLoose_charge_flip0", "Electron p_{T} [GeV]", "pt"},
		{"histoLoose_conversion1", "Electron |#eta|", "eta"},
		{"all_histoLoose_el", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := XTitleFor(ParseTags(tt.name))
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantParam, AxisParam(title))
		})
	}
}

func TestDefaultPairs(t *testing.T) {
	pairs := DefaultPairs1D()
	assert.Len(t, pairs, 4)
	assert.Equal(t, RateInput{Pass: "histoTight_el0", Total: "histoLoose_el0"}, pairs[0])
	assert.Len(t, DefaultPairs2D(), 2)
}

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, LargeValue, GetPlainLabel(100))
	assert.Equal(t, ModerateValue, GetPlainLabel(20))
	assert.Equal(t, SmallValue, GetPlainLabel(0.1))
	assert.Equal(t, NoneValue, GetPlainLabel(0))
}
