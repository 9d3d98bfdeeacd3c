package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and results.
	DatabaseBackend string

	// SampleKind represents the category of a group of sources.
	SampleKind string

	// RateType represents the kind of rate being measured.
	RateType string

	// SourceLabel selects which sample a rate is computed for.
	SourceLabel string

	// PaletteKey selects the style of a rate graph.
	PaletteKey string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Sample kinds. MC sources are weighted by their virtual luminosity.
const (
	MCSample     SampleKind = "mc"
	DataSample   SampleKind = "data"
	PromptSample SampleKind = "prompt"
)

// Rate types.
const (
	FakeRate RateType = "Fake"
	RealRate RateType = "Real"
)

// Source labels.
const (
	SourceMC   SourceLabel = "MC"
	SourceData SourceLabel = "Data"
	SourceAll  SourceLabel = "all"
)

// Palette keys for rate graphs.
const (
	PaletteMCBlue   PaletteKey = "MC_blue" // default
	PaletteMCGreen  PaletteKey = "MC_green"
	PaletteMCRed    PaletteKey = "MC_red"
	PaletteMCViolet PaletteKey = "MC_violet"
	PaletteMCOrange PaletteKey = "MC_orange"
	PaletteMCCyan   PaletteKey = "MC_cyan"
	PaletteData     PaletteKey = "Data"
)

// Well-known names inside a source.
const (
	DefaultEffDir       = "Efficiencies_Selection_1"
	NormalizationName   = "MCLumiHist"
	DataFileMarker      = "AllYear"
	TotalVariationFlag  = "TOTAL"
	SuffixSeparator     = "__"
	DefaultIncludeGlob  = "**/*.{yaml,yml,json}"
	DefaultIntervalConf = 0.68
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidRateTypes lists all valid rate types.
var ValidRateTypes = map[RateType]struct{}{
	FakeRate: {},
	RealRate: {},
}

// ValidSourceLabels lists all valid source labels.
var ValidSourceLabels = map[SourceLabel]struct{}{
	SourceMC:   {},
	SourceData: {},
	SourceAll:  {},
}

// ValidPaletteKeys lists all palette keys.
var ValidPaletteKeys = map[PaletteKey]struct{}{
	PaletteMCBlue:   {},
	PaletteMCGreen:  {},
	PaletteMCRed:    {},
	PaletteMCViolet: {},
	PaletteMCOrange: {},
	PaletteMCCyan:   {},
	PaletteData:     {},
}

// StandardLegs are the 1D leg markers rates are computed for by default.
var StandardLegs = []string{"el0", "el1", "mu0", "mu1"}

// ProcessEntry pairs a process name with the scale factor applied when it
// is subtracted.
type ProcessEntry struct {
	Process     string  `mapstructure:"process" json:"process" validate:"required"`
	ScaleFactor float64 `mapstructure:"sf" json:"sf" validate:"gte=0"`
}

// RateInput names one pass/total pair.
type RateInput struct {
	Pass  string `json:"pass"`
	Total string `json:"total"`
}

// SF returns the scale factor. Zero is a valid factor and subtracts nothing.
func (e ProcessEntry) SF() float64 { return e.ScaleFactor }
