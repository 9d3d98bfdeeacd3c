package schema

import "strings"

// Flavor is the lepton flavor a histogram belongs to.
type Flavor int

// Supported flavors.
const (
	FlavorUnknown Flavor = iota
	Electron
	Muon
)

// Short returns the abbreviated form used in histogram names ("el", "mu").
func (f Flavor) Short() string {
	switch f {
	case Electron:
		return "el"
	case Muon:
		return "mu"
	default:
		return ""
	}
}

// Long returns the spelled-out form used in histogram names ("electron", "muon").
func (f Flavor) Long() string {
	switch f {
	case Electron:
		return "electron"
	case Muon:
		return "muon"
	default:
		return ""
	}
}

func (f Flavor) String() string {
	if s := f.Short(); s != "" {
		return s
	}
	return "unknown"
}

// ParseFlavor converts "el"/"electron" and "mu"/"muon" into a Flavor.
func ParseFlavor(s string) Flavor {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "el", "electron", "e":
		return Electron
	case "mu", "muon", "m":
		return Muon
	default:
		return FlavorUnknown
	}
}

// Leg identifies the object leg (0 = pT binned, 1 = eta binned) or an inclusive histogram.
type Leg int

// Supported legs.
const (
	LegNone Leg = iota
	Leg0
	Leg1
	LegAll
)

func (l Leg) String() string {
	switch l {
	case Leg0:
		return "0"
	case Leg1:
		return "1"
	case LegAll:
		return "all"
	default:
		return "none"
	}
}

// Quality is the lepton identification level.
type Quality int

// Supported qualities.
const (
	QualityUnknown Quality = iota
	Loose
	Tight
)

func (q Quality) String() string {
	switch q {
	case Loose:
		return "Loose"
	case Tight:
		return "Tight"
	default:
		return ""
	}
}

// ParseQuality converts "loose"/"tight" into a Quality.
func ParseQuality(s string) Quality {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "loose":
		return Loose
	case "tight":
		return Tight
	default:
		return QualityUnknown
	}
}

// Process is the truth origin a histogram was filled for.
type Process int

// Known origins. ProcessInclusive marks histograms that are not split by origin.
const (
	ProcessInclusive Process = iota
	ProcessPrompt
	ProcessHF
	ProcessLF
	ProcessConversion
	ProcessChargeFlip
	ProcessMuonElectron
	ProcessTauElectron
	ProcessTauMuon
	ProcessNotClassified
	ProcessFakes
	ProcessOther
)

// processMarkers is ordered: more specific markers come first.
var processMarkers = []struct {
	marker  string
	process Process
}{
	{"charge_flip", ProcessChargeFlip},
	{"conversion", ProcessConversion},
	{"Muon_electron", ProcessMuonElectron},
	{"Tau_electron", ProcessTauElectron},
	{"Tau_muon", ProcessTauMuon},
	{"not_classified", ProcessNotClassified},
	{"Fakes", ProcessFakes},
	{"prompt", ProcessPrompt},
	{"_HF", ProcessHF},
	{"_LF", ProcessLF},
}

// ProcessOf classifies a bare process name such as "HF" or "charge_flip".
func ProcessOf(name string) Process {
	switch name {
	case "HF":
		return ProcessHF
	case "LF":
		return ProcessLF
	case "":
		return ProcessInclusive
	}
	for _, m := range processMarkers {
		if strings.Contains(name, m.marker) {
			return m.process
		}
	}
	return ProcessOther
}

// ChargeFlipLike reports whether the process uses the flavorless naming branch.
func (p Process) ChargeFlipLike() bool {
	return p == ProcessChargeFlip || p == ProcessConversion
}

// Label returns the human-readable origin label.
func (p Process) Label() string {
	switch p {
	case ProcessFakes:
		return "All fakes"
	case ProcessHF:
		return "Heavy flavor"
	case ProcessLF:
		return "Light flavor"
	case ProcessConversion:
		return "Conversion"
	case ProcessPrompt:
		return "Prompt"
	case ProcessChargeFlip:
		return "Charge flip"
	case ProcessMuonElectron:
		return "Muon elec."
	case ProcessTauElectron:
		return "Tau elec."
	case ProcessTauMuon:
		return "Tau muon"
	case ProcessNotClassified:
		return "Unclassified"
	default:
		return ""
	}
}

// Tags is the structured metadata derived once from a histogram name.
type Tags struct {
	Flavor  Flavor  `json:"flavor"`
	Leg     Leg     `json:"leg"`
	Process Process `json:"process"`
	Quality Quality `json:"quality"`
}

// ParseTags derives Tags from a raw histogram name by substring convention.
// Downstream code reads Tags and never re-inspects the name for these fields.
func ParseTags(name string) Tags {
	t := Tags{Process: ProcessInclusive}
	for _, m := range processMarkers {
		if strings.Contains(name, m.marker) {
			t.Process = m.process
			break
		}
	}

	switch {
	case strings.Contains(name, "electron"), strings.Contains(name, "_el"):
		t.Flavor = Electron
	case strings.Contains(name, "muon"), strings.Contains(name, "_mu"):
		t.Flavor = Muon
	case t.Process.ChargeFlipLike():
		t.Flavor = Electron
	}

	switch {
	case strings.HasPrefix(name, "all_"), strings.Contains(name, "histo2D"):
		t.Leg = LegAll
	case containsAny(name, "el0", "mu0", "electron0", "muon0", "flip0", "conversion0"):
		t.Leg = Leg0
	case containsAny(name, "el1", "mu1", "electron1", "muon1", "flip1", "conversion1"):
		t.Leg = Leg1
	}

	loose := strings.Index(name, "Loose")
	tight := strings.Index(name, "Tight")
	switch {
	case loose >= 0 && (tight < 0 || loose < tight):
		t.Quality = Loose
	case tight >= 0:
		t.Quality = Tight
	}
	return t
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
