package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// Errors returned by the reader.
var (
	ErrNotFound         = fmt.Errorf("source not found: %w", schema.ErrFatalIO)
	ErrMissingDirectory = fmt.Errorf("missing directory: %w", schema.ErrLookupMiss)
)

// FileReader reads source documents from the local filesystem.
type FileReader struct{}

var _ contract.SourceReader = &FileReader{}

// NewFileReader returns a reader for documents on disk.
func NewFileReader() *FileReader { return &FileReader{} }

// Open decodes and validates the document at path.
func (r *FileReader) Open(ctx context.Context, path string) (*schema.SourceHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", schema.ErrFatalIO, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", schema.ErrFatalIO, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", schema.ErrFatalIO, path, err)
	}
	if doc.Name == "" {
		doc.Name = filepath.Base(path)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", schema.ErrFatalIO, path, err)
	}

	handle := &schema.SourceHandle{
		Path:        path,
		Name:        doc.Name,
		Kind:        Classify(path),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		VirtualLumi: doc.VirtualLumi,
		Directories: make(map[string]*schema.HistogramSet, len(doc.Directories)),
	}
	for key, dir := range doc.Directories {
		set, err := dir.ToSet()
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %w", schema.ErrFatalIO, path, key, err)
		}
		handle.Directories[key] = set
	}
	contract.LogDebug("readSource", "Opened %s (%s) with %d directories", handle.Name, handle.Kind, len(handle.Directories))
	return handle, nil
}

// ReadHistogramSet returns a copy of the set stored under dir.
func (r *FileReader) ReadHistogramSet(handle *schema.SourceHandle, dir string) (*schema.HistogramSet, error) {
	set, ok := handle.Directories[dir]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingDirectory, dir, handle.Path)
	}
	return set.Clone(), nil
}

// ReadNormalizationValue returns the declared virtual luminosity. Documents
// without one may carry it as bin 1 of a MCLumiHist histogram in any
// directory. 0 means no usable value.
func (r *FileReader) ReadNormalizationValue(handle *schema.SourceHandle) float64 {
	if handle.VirtualLumi > 0 {
		return handle.VirtualLumi
	}
	for _, set := range handle.Directories {
		if h, ok := set.H1[schema.NormalizationName]; ok && h.NBins() >= 1 {
			return h.BinContent(1)
		}
	}
	return 0
}

// Decode parses a YAML or JSON document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	return &doc, nil
}
