package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encode serializes a document as JSON for a .json path and YAML otherwise.
func Encode(path string, doc *Document) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.MarshalIndent(doc, "", "  ")
	}
	return yaml.Marshal(doc)
}

// WriteSource validates doc and writes it to path.
func WriteSource(path string, doc *Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	data, err := Encode(path, doc)
	if err != nil {
		return fmt.Errorf("encode source %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
