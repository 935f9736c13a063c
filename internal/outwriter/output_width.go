package outwriter

import (
	"os"

	"github.com/huangsam/blqdash/internal/contract"
	"golang.org/x/term"
)

// GetMaxEventWidth calculates the maximum width for annotation text in table
// output based on terminal width.
func GetMaxEventWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // CI and pipes
		} else {
			termWidth = detectedWidth
		}
	}

	// Year column plus borders and padding
	available := termWidth - 16
	if available < 20 {
		return 20
	}
	if available > 90 {
		return 90
	}
	return available
}
