package core

import (
	"fmt"
	"path/filepath"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/source"
	"github.com/huangsam/rateplot/schema"
)

// sampleFiles are the discovered sources split by sample kind.
type sampleFiles struct {
	MC     []string
	Data   []string
	Prompt []string
}

// discoverSamples globs the input directory and splits the matches into MC
// and Data files. Prompt files come from the configuration only.
func discoverSamples(cfg *contract.Config) (*sampleFiles, error) {
	files, err := source.Discover(cfg.InputDir, cfg.Include, cfg.Keys)
	if err != nil {
		return nil, err
	}
	prompt := make([]string, 0, len(cfg.PromptFiles))
	for _, p := range cfg.PromptFiles {
		if !filepath.IsAbs(p) {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
		}
		prompt = append(prompt, p)
	}
	mc, data := source.Samples(files, prompt)
	contract.LogDebug("getFiles", "Found %d MC, %d Data and %d prompt files", len(mc), len(data), len(prompt))
	return &sampleFiles{MC: mc, Data: data, Prompt: prompt}, nil
}

// selectedSources resolves the source label into the samples to compute.
// An empty label or "all" selects every sample that has files.
func selectedSources(label schema.SourceLabel, files *sampleFiles) ([]schema.SourceLabel, error) {
	var out []schema.SourceLabel
	switch label {
	case schema.SourceMC:
		if len(files.MC) == 0 {
			return nil, fmt.Errorf("%w: no MC files found", schema.ErrConfiguration)
		}
		out = append(out, schema.SourceMC)
	case schema.SourceData:
		if len(files.Data) == 0 {
			return nil, fmt.Errorf("%w: no Data files found", schema.ErrConfiguration)
		}
		out = append(out, schema.SourceData)
	default:
		if len(files.MC) > 0 {
			out = append(out, schema.SourceMC)
		}
		if len(files.Data) > 0 {
			out = append(out, schema.SourceData)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no input (MC or Data) provided", schema.ErrConfiguration)
	}
	return out, nil
}

// singleSource requires the label to name exactly one sample.
func singleSource(label schema.SourceLabel, files *sampleFiles) (schema.SourceLabel, error) {
	if label != schema.SourceMC && label != schema.SourceData {
		return "", fmt.Errorf("%w: please select a source [Data|MC]", schema.ErrConfiguration)
	}
	sources, err := selectedSources(label, files)
	if err != nil {
		return "", err
	}
	return sources[0], nil
}

// paths returns the files of a sample.
func (f *sampleFiles) paths(label schema.SourceLabel) []string {
	if label == schema.SourceData {
		return f.Data
	}
	return f.MC
}

// kindOf maps a source label onto its sample kind.
func kindOf(label schema.SourceLabel) schema.SampleKind {
	if label == schema.SourceData {
		return schema.DataSample
	}
	return schema.MCSample
}

// paletteOf is the default palette of a source.
func paletteOf(label schema.SourceLabel) schema.PaletteKey {
	if label == schema.SourceData {
		return schema.PaletteData
	}
	return schema.PaletteMCBlue
}
