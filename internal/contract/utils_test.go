package contract

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/rateplot/schema"
)

func TestGetColorLabel(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tests := []struct {
		percent float64
		want    string
	}{
		{75, schema.LargeValue},
		{20, schema.ModerateValue},
		{0.5, schema.SmallValue},
		{0, schema.NoneValue},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, GetColorLabel(tt.percent))
		})
	}
}

func TestFlavorLabel(t *testing.T) {
	assert.Equal(t, "el", FlavorLabel(schema.Electron, false))
	assert.Equal(t, "unknown", FlavorLabel(schema.FlavorUnknown, true))
}

func TestDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	prev := SetDiagnosticOutput(&buf)
	defer SetDiagnosticOutput(prev)

	LogInfo("aggregate", "skipped %d sources", 2)
	LogWarn("subtract", errors.New("boom"))
	SetDebug(false)
	LogDebug("divide", "hidden")
	SetDebug(true)
	defer SetDebug(false)
	LogDebug("divide", "shown %s", "bin")

	out := buf.String()
	assert.Contains(t, out, "Info aggregate: skipped 2 sources\n")
	assert.Contains(t, out, "Warn subtract: boom\n")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Debug divide: shown bin\n")
	assert.True(t, DebugEnabled())
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestGetDBFilePath(t *testing.T) {
	assert.Contains(t, GetCacheDBFilePath(), ".rateplot_cache.db")
	assert.Contains(t, GetResultsDBFilePath(), ".rateplot_results.db")
	assert.NotEqual(t, GetCacheDBFilePath(), GetResultsDBFilePath())
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short", TruncatePath("short", 10))
	assert.Equal(t, "...efghij", TruncatePath("abcdefghij", 9))
	assert.Equal(t, "abcdefghij", TruncatePath("abcdefghij", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
