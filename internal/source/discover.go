package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/huangsam/rateplot/schema"
)

// Discover finds source files under dir matching any of patterns. When keys
// are given, every key must appear in the file name. The result is sorted
// and free of duplicates.
func Discover(dir string, patterns, keys []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{schema.DefaultIncludeGlob}
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if info, err := os.Stat(absDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: input directory %s", ErrNotFound, absDir)
	}

	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(absDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %w", schema.ErrConfiguration, pattern, err)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			if MatchesKeys(filepath.Base(match), keys) {
				files = append(files, match)
			}
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// MatchesKeys reports whether name contains every key.
func MatchesKeys(name string, keys []string) bool {
	for _, k := range keys {
		if !strings.Contains(name, k) {
			return false
		}
	}
	return true
}

// Classify returns the sample kind implied by a file name.
func Classify(path string) schema.SampleKind {
	if strings.Contains(filepath.Base(path), schema.DataFileMarker) {
		return schema.DataSample
	}
	return schema.MCSample
}

// Samples splits discovered files into MC and Data lists. Files listed as
// prompt sources are excluded from both.
func Samples(files, promptFiles []string) (mc, data []string) {
	prompt := make(map[string]struct{}, len(promptFiles))
	for _, p := range promptFiles {
		if abs, err := filepath.Abs(p); err == nil {
			prompt[abs] = struct{}{}
		}
	}
	for _, f := range files {
		if _, ok := prompt[f]; ok {
			continue
		}
		switch Classify(f) {
		case schema.DataSample:
			data = append(data, f)
		default:
			mc = append(mc, f)
		}
	}
	return mc, data
}
