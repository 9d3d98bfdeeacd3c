package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// LogRunHeader prints a concise, 2-line header for a pipeline run. Machine
// readable output sent to stdout keeps the header off stdout.
func LogRunHeader(cfg *contract.Config, command string) {
	var w io.Writer = os.Stdout
	if cfg.Output != schema.TextOut && cfg.Output != "" && cfg.OutputFile == "" {
		w = os.Stderr
	}
	writeRunHeader(w, cfg, command)
}

func writeRunHeader(w io.Writer, cfg *contract.Config, command string) {
	input := filepath.Base(cfg.InputDir)
	if input == "" || input == "." {
		input = "current"
	}
	source := string(cfg.Source)
	if source == "" {
		source = string(schema.SourceAll)
	}

	search, sample := "", ""
	if cfg.UseEmojis {
		search, sample = "🔎 ", "🧪 "
	}
	_, _ = fmt.Fprintf(w, "%sInput: %s (Mode: %s)\n", search, input, command)
	_, _ = fmt.Fprintf(w, "%sDirs: %s | Lumi: %g | Source: %s\n", sample, strings.Join(cfg.Dirs, ","), cfg.Lumi, source)
}
