package outwriter

import (
	"os"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"golang.org/x/term"
)

// GetMaxMessageWidth calculates the maximum width for free text columns such as
// warning messages and notes, based on terminal width and the fixed columns beside them.
func GetMaxMessageWidth(cfg *contract.Config, fixedWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve generous space for table borders, separators, and padding
	available := termWidth - fixedWidth - 10
	if available < 20 {
		return 20
	}
	if available > 90 {
		return 90
	}
	return available
}

// truncate shortens s to at most width runes with a trailing ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 4 {
		return s
	}
	return string(r[:width-3]) + "..."
}
