package contract

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/huangsam/rateplot/schema"
)

// Default values for configuration.
const (
	DefaultLumi      = 1.0
	DefaultPrecision = 3
	MaxPrecision     = 6
	DefaultOutName   = "Rate"
)

// configValidate checks struct tags on the processed Config.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("dbbackend", func(fl validator.FieldLevel) bool {
		_, ok := schema.ValidDatabaseBackends[schema.DatabaseBackend(fl.Field().String())]
		return ok
	})
}

// Config holds the runtime configuration for a rate computation.
// This struct remains the "final, validated" config.
type Config struct {
	InputDir    string   `validate:"required"`
	Include     []string `validate:"min=1,dive,required"`
	Keys        []string
	PromptFiles []string
	Dirs        []string `validate:"min=1,dive,required"`
	Lumi        float64  `validate:"gt=0"`

	RateType          schema.RateType
	Source            schema.SourceLabel
	Pairs             []schema.RateInput
	SubtractProcesses []schema.ProcessEntry `validate:"dive"`
	FakeSourcesEl     []string
	FakeSourcesMu     []string
	Palettes          []schema.PaletteKey
	Labels            []string

	Prompt          bool
	Suffix          string
	SubtractNominal bool
	OutName         string `validate:"required"`
	Write           bool
	Variation       string
	FileKey         string
	Against         string
	File            string
	Flavor          schema.Flavor
	Quality         schema.Quality

	Precision  int `validate:"min=1,max=6"`
	Output     schema.OutputMode
	OutputFile string
	Width      int `validate:"gte=0"` // Terminal width override (0 = auto-detect)
	UseEmojis  bool
	UseColors  bool
	Debug      bool

	CacheBackend   schema.DatabaseBackend `validate:"dbbackend"`
	CacheDBConnect string                 // Please use env var as this is plaintext

	ResultsBackend   schema.DatabaseBackend `validate:"dbbackend"`
	ResultsDBConnect string                 // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	InputDir         string   `mapstructure:"input-dir"`
	Include          []string `mapstructure:"include"`
	Keys             []string `mapstructure:"keys"`
	Dirs             []string `mapstructure:"dirs"`
	Lumi             float64  `mapstructure:"lumi"`
	Output           string   `mapstructure:"output"`
	OutputFile       string   `mapstructure:"output-file"`
	Precision        int      `mapstructure:"precision"`
	Width            int      `mapstructure:"width"`
	Emoji            string   `mapstructure:"emoji"`
	Color            string   `mapstructure:"color"`
	Debug            bool     `mapstructure:"debug"`
	CacheBackend     string   `mapstructure:"cache-backend"`
	CacheDBConnect   string   `mapstructure:"cache-db-connect"`
	ResultsBackend   string   `mapstructure:"results-backend"`
	ResultsDBConnect string   `mapstructure:"results-db-connect"`

	// --- Fields from rate/rate2d/compare flags ---
	RateType        string   `mapstructure:"type"`
	Source          string   `mapstructure:"source"`
	Pass            []string `mapstructure:"pass"`
	Total           []string `mapstructure:"total"`
	Palettes        []string `mapstructure:"palettes"`
	Prompt          bool     `mapstructure:"prompt"`
	PromptFiles     []string `mapstructure:"prompt-files"`
	Suffix          string   `mapstructure:"suffix"`
	SubtractNominal bool     `mapstructure:"subtract-nominal"`
	OutName         string   `mapstructure:"out-name"`
	Write           bool     `mapstructure:"write"`
	SubtractStr     string   `mapstructure:"subtract-override"`

	// --- Fields from variations/classes/sources flags ---
	Variation string `mapstructure:"variation"`
	FileKey   string `mapstructure:"file-key"`
	Against   string `mapstructure:"against"`
	File      string `mapstructure:"file"`
	Flavor    string `mapstructure:"flavor"`
	Quality   string `mapstructure:"quality"`

	// --- Lists that usually live in the config file ---
	Subtract      []ProcessSpec         `mapstructure:"subtract"`
	FakeSourcesEl []string              `mapstructure:"fake-sources-el"`
	FakeSourcesMu []string              `mapstructure:"fake-sources-mu"`
	Labels        []string              `mapstructure:"labels"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Include = slices.Clone(c.Include)
	clone.Keys = slices.Clone(c.Keys)
	clone.PromptFiles = slices.Clone(c.PromptFiles)
	clone.Dirs = slices.Clone(c.Dirs)
	clone.Pairs = slices.Clone(c.Pairs)
	clone.SubtractProcesses = slices.Clone(c.SubtractProcesses)
	clone.FakeSourcesEl = slices.Clone(c.FakeSourcesEl)
	clone.FakeSourcesMu = slices.Clone(c.FakeSourcesMu)
	clone.Palettes = slices.Clone(c.Palettes)
	clone.Labels = slices.Clone(c.Labels)
	return &clone
}

// EffDir returns the primary histogram directory.
func (c *Config) EffDir() string {
	if len(c.Dirs) == 0 {
		return schema.DefaultEffDir
	}
	return c.Dirs[0]
}

// FakeSources returns the composite source tags configured for a flavor.
func (c *Config) FakeSources(f schema.Flavor) []string {
	switch f {
	case schema.Electron:
		return c.FakeSourcesEl
	case schema.Muon:
		return c.FakeSourcesMu
	default:
		return nil
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processRateInputs(cfg, input); err != nil {
		return err
	}
	if err := processSubtraction(cfg, input); err != nil {
		return err
	}
	if err := configValidate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", schema.ErrConfiguration, err)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and results backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.ResultsBackend = schema.DatabaseBackend(strings.ToLower(input.ResultsBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ResultsBackend]; !ok {
		return fmt.Errorf("invalid results backend '%s'. must be sqlite, mysql, postgresql, none", input.ResultsBackend)
	}
	cfg.ResultsDBConnect = input.ResultsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ResultsBackend, cfg.ResultsDBConnect); err != nil {
		return err
	}

	// Cache and results must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.ResultsBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		resultsPath := cfg.ResultsDBConnect
		if resultsPath == "" {
			resultsPath = GetResultsDBFilePath()
		}
		if cachePath == resultsPath {
			return fmt.Errorf("cache and results storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and storage fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputDir = strings.TrimSpace(input.InputDir)
	cfg.Include = trimList(input.Include)
	if len(cfg.Include) == 0 {
		cfg.Include = []string{schema.DefaultIncludeGlob}
	}
	cfg.Keys = trimList(input.Keys)
	cfg.PromptFiles = trimList(input.PromptFiles)
	cfg.Dirs = trimList(input.Dirs)
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = []string{schema.DefaultEffDir}
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Debug = input.Debug

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Lumi = input.Lumi
	if cfg.Lumi <= 0 {
		return fmt.Errorf("%w: lumi must be greater than 0 (received %g)", schema.ErrConfiguration, input.Lumi)
	}

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	return validateBackendConfigs(cfg, input)
}

// processRateInputs validates the rate selection and pass/total pairs.
func processRateInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.RateType = schema.RateType(input.RateType)
	if cfg.RateType != "" {
		if _, ok := schema.ValidRateTypes[cfg.RateType]; !ok {
			return fmt.Errorf("%w: invalid rate type '%s'. must be Fake or Real", schema.ErrConfiguration, input.RateType)
		}
	}
	cfg.Source = schema.SourceLabel(input.Source)
	if cfg.Source != "" {
		if _, ok := schema.ValidSourceLabels[cfg.Source]; !ok {
			return fmt.Errorf("%w: invalid source '%s'. must be MC, Data, all", schema.ErrConfiguration, input.Source)
		}
	}

	pass, total := trimList(input.Pass), trimList(input.Total)
	if len(pass) != len(total) {
		return fmt.Errorf("%w: %d pass histograms given for %d total histograms", schema.ErrConfiguration, len(pass), len(total))
	}
	cfg.Pairs = nil
	for i := range pass {
		cfg.Pairs = append(cfg.Pairs, schema.RateInput{Pass: pass[i], Total: total[i]})
	}

	cfg.Palettes = nil
	for _, p := range trimList(input.Palettes) {
		key := schema.PaletteKey(p)
		if _, ok := schema.ValidPaletteKeys[key]; !ok {
			return fmt.Errorf("%w: invalid palette '%s'", schema.ErrConfiguration, p)
		}
		cfg.Palettes = append(cfg.Palettes, key)
	}

	cfg.Prompt = input.Prompt
	cfg.Suffix = strings.TrimSpace(input.Suffix)
	cfg.SubtractNominal = input.SubtractNominal
	cfg.OutName = input.OutName
	if cfg.OutName == "" {
		cfg.OutName = DefaultOutName
	}
	cfg.Write = input.Write
	cfg.Variation = strings.TrimSpace(input.Variation)
	cfg.FileKey = strings.TrimSpace(input.FileKey)
	cfg.Against = strings.TrimSpace(input.Against)
	cfg.File = strings.TrimSpace(input.File)
	if f := strings.TrimSpace(input.Flavor); f != "" {
		if cfg.Flavor = schema.ParseFlavor(f); cfg.Flavor == schema.FlavorUnknown {
			return fmt.Errorf("%w: invalid flavor '%s'. must be el or mu", schema.ErrConfiguration, input.Flavor)
		}
	}
	if q := strings.TrimSpace(input.Quality); q != "" {
		if cfg.Quality = schema.ParseQuality(q); cfg.Quality == schema.QualityUnknown {
			return fmt.Errorf("%w: invalid quality '%s'. must be Loose or Tight", schema.ErrConfiguration, input.Quality)
		}
	}
	cfg.FakeSourcesEl = trimList(input.FakeSourcesEl)
	cfg.FakeSourcesMu = trimList(input.FakeSourcesMu)
	cfg.Labels = trimList(input.Labels)
	return nil
}

// ProcessSpec is a subtraction entry as written in the config file. A
// missing sf means 1.
type ProcessSpec struct {
	Process     string   `mapstructure:"process"`
	ScaleFactor *float64 `mapstructure:"sf"`
}

// Entry resolves the spec into a process entry.
func (p ProcessSpec) Entry() schema.ProcessEntry {
	e := schema.ProcessEntry{Process: p.Process, ScaleFactor: 1}
	if p.ScaleFactor != nil {
		e.ScaleFactor = *p.ScaleFactor
	}
	return e
}

// processSubtraction builds the ordered process list. The --subtract-override
// flag takes precedence over the config file list.
func processSubtraction(cfg *Config, input *ConfigRawInput) error {
	cfg.SubtractProcesses = nil
	for _, spec := range input.Subtract {
		cfg.SubtractProcesses = append(cfg.SubtractProcesses, spec.Entry())
	}
	if input.SubtractStr != "" {
		entries, err := ParseProcessList(input.SubtractStr)
		if err != nil {
			return fmt.Errorf("invalid --subtract-override format: %w", err)
		}
		cfg.SubtractProcesses = entries
	}
	return nil
}

// ParseProcessList parses a string like "HF:1.2,LF,charge_flip:0.9" into
// process entries, keeping their order. A missing scale factor means 1.
func ParseProcessList(s string) ([]schema.ProcessEntry, error) {
	var entries []schema.ProcessEntry
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, sfStr, hasSF := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty process name in '%s'", part)
		}
		entry := schema.ProcessEntry{Process: name, ScaleFactor: 1}
		if hasSF {
			sf, err := strconv.ParseFloat(strings.TrimSpace(sfStr), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid scale factor '%s' for process %s: %w", sfStr, name, err)
			}
			if sf < 0 {
				return nil, fmt.Errorf("scale factor for process %s must not be negative (received %g)", name, sf)
			}
			entry.ScaleFactor = sf
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func trimList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
