// Package outwriter renders rate results as tables, CSV, JSON or Parquet.
package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/huangsam/rateplot/internal/contract"
)

// getMaxNameWidth returns the widest histogram name a table row may show,
// based on the terminal width or the --width override.
func getMaxNameWidth(cfg *contract.Config, fixedColumns int) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = 80 // CI and pipes
		} else {
			termWidth = detected
		}
	}

	available := termWidth - fixedColumns - 20 // borders and padding
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
