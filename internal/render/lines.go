package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mediagrab/internal/domain/consts"
)

// CountLines returns how many terminal rows text occupies at the given
// width. Each newline-separated piece takes at least one row, and a piece
// wider than width wraps. Width is measured in terminal columns, so wide
// characters count twice.
func CountLines(text string, width int) int {
	if width <= 0 {
		width = consts.DefaultConsoleW
	}

	total := 0
	for _, piece := range strings.Split(text, "\n") {
		visible := lipgloss.Width(piece)
		rows := (visible + width - 1) / width
		total += max(rows, 1)
	}
	return total
}

// clearSequence clears n rows, ending with the cursor at the start of the
// topmost cleared row.
func clearSequence(n int) string {
	if n <= 0 {
		return ""
	}
	clears := make([]string, n)
	for i := range clears {
		clears[i] = consts.ClearLine
	}
	return strings.Join(clears, consts.CursorUp)
}
