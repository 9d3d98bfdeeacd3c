package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"

	"github.com/huangsam/rateplot/schema"
)

// Color variables for console output.
var (
	LargeColor    = color.New(color.FgRed, color.Bold) // LargeColor flags uncertainties that dominate the rate.
	ModerateColor = color.New(color.FgYellow)          // ModerateColor is standard caution, not bold.
	SmallColor    = color.New(color.FgCyan)            // SmallColor is informational.
	NoneColor     = color.New(color.FgGreen)           // NoneColor marks bins without deviation.

	ElectronColor = color.New(color.FgBlue)
	MuonColor     = color.New(color.FgMagenta)
)

// debugEnabled toggles LogDebug output.
var debugEnabled atomic.Bool

// diagOut is where diagnostics go. Tests may swap it.
var diagOut io.Writer = os.Stderr

// SetDebug enables or disables debug diagnostics.
func SetDebug(enabled bool) { debugEnabled.Store(enabled) }

// DebugEnabled reports whether debug diagnostics are printed.
func DebugEnabled() bool { return debugEnabled.Load() }

// SetDiagnosticOutput redirects diagnostics and returns the previous writer.
func SetDiagnosticOutput(w io.Writer) io.Writer {
	prev := diagOut
	diagOut = w
	return prev
}

// GetColorLabel returns a colored label for a relative uncertainty in percent.
func GetColorLabel(percent float64) string {
	text := schema.GetPlainLabel(percent)

	switch text {
	case schema.LargeValue:
		return LargeColor.Sprint(text)
	case schema.ModerateValue:
		return ModerateColor.Sprint(text)
	case schema.SmallValue:
		return SmallColor.Sprint(text)
	default:
		return NoneColor.Sprint(text)
	}
}

// FlavorLabel returns the flavor name, colored when useColors is set.
func FlavorLabel(f schema.Flavor, useColors bool) string {
	text := f.String()
	if !useColors {
		return text
	}
	switch f {
	case schema.Electron:
		return ElectronColor.Sprint(text)
	case schema.Muon:
		return MuonColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. Stdout is used when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(diagOut, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational diagnostic for a pipeline stage.
func LogInfo(scope, format string, args ...any) {
	_, _ = fmt.Fprintf(diagOut, "Info %s: %s\n", scope, fmt.Sprintf(format, args...))
}

// LogDebug logs only when debug output is enabled.
func LogDebug(scope, format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	_, _ = fmt.Fprintf(diagOut, "Debug %s: %s\n", scope, fmt.Sprintf(format, args...))
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".rateplot_cache.db"
	}
	return filepath.Join(homeDir, ".rateplot_cache.db")
}

// GetResultsDBFilePath returns the path to the SQLite DB file for the results store.
func GetResultsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".rateplot_results.db"
	}
	return filepath.Join(homeDir, ".rateplot_results.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
