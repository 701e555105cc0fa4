package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mediagrab/internal/domain/consts"
)

// Category decides the label printed in front of a region's text.
type Category int

const (
	Normal Category = iota
	Info
	Warning
	Error
	UserInput
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case UserInput:
		return "input"
	default:
		return "normal"
	}
}

func (c Category) label() (string, lipgloss.Color) {
	switch c {
	case Info:
		return "info ", lipgloss.Color(consts.ColorBlue)
	case Warning:
		return "warning ", lipgloss.Color(consts.ColorYellow)
	case Error:
		return "error ", lipgloss.Color(consts.ColorRed)
	case UserInput:
		return "? ", lipgloss.Color(consts.ColorBlue)
	default:
		return "", ""
	}
}

// FormatInner returns text as it is displayed under category c: leading
// newlines stay in front, followed by the label and the rest of the text.
// Empty text stays empty.
func FormatInner(text string, c Category, p Painter) string {
	if text == "" {
		return ""
	}

	rest := strings.TrimLeft(text, "\n")
	leading := text[:len(text)-len(rest)]

	label, color := c.label()
	if label != "" {
		label = p.Render(lipgloss.NewStyle().Foreground(color), label)
	}
	return leading + label + rest
}
