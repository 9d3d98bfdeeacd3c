package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/rateplot/schema"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 2", 2, 3.14159, "3.14"},
		{"precision 4", 4, 3.14159, "3.1416"},
		{"negative value", 2, -42.567, "-42.57"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, fmtRange := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "[10, 20.5)", fmtRange(10, 20.5))
		})
	}
}

func TestRelativeUncertainty(t *testing.T) {
	assert.InDelta(t, 25.0, relativeUncertainty(0.4, 0.1), 1e-12)
	assert.Zero(t, relativeUncertainty(0, 0.1))
	assert.Zero(t, relativeUncertainty(-1, 0.1))
	assert.Equal(t, schema.ModerateValue, uncertaintyLabel(25, false))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, []string{"a", "b"}))
	assert.Equal(t, "[\n  \"a\",\n  \"b\"\n]\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{"simple", []string{"pair", "rate"}, [][]string{{"a_b", "0.5"}}, "pair,rate\na_b,0.5\n"},
		{"empty rows", []string{"pair"}, nil, "pair\n"},
		{"quoted", []string{"range"}, [][]string{{"[10, 20)"}}, "range\n\"[10, 20)\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, func(w *csv.Writer) error {
				for _, row := range tt.rows {
					if err := w.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}

	t.Run("row error", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error { return assert.AnError })
		assert.Equal(t, assert.AnError, err)
	})
}

func TestWriteWithFile(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := w.Write([]byte("rates"))
			return err
		}, "Wrote test")
		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "rates", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote test")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("bad path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/dir/out.txt", func(io.Writer) error { return nil }, "Wrote test")
		assert.ErrorIs(t, err, schema.ErrFatalIO)
	})
}
