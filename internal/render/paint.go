package render

import "github.com/charmbracelet/lipgloss"

// Painter applies lipgloss styles to single-line fragments. A disabled
// painter returns text untouched.
type Painter struct {
	enabled bool
}

// NewPainter returns a painter that colours output when enabled is true.
func NewPainter(enabled bool) Painter {
	return Painter{enabled: enabled}
}

// Enabled reports whether colours are applied.
func (p Painter) Enabled() bool {
	return p.enabled
}

// Render styles text. Text must not contain newlines; lipgloss pads
// multi-line blocks to a common width.
func (p Painter) Render(style lipgloss.Style, text string) string {
	if !p.enabled || text == "" {
		return text
	}
	return style.Render(text)
}

// Color is a shorthand for a foreground colour.
func (p Painter) Color(color, text string) string {
	return p.Render(lipgloss.NewStyle().Foreground(lipgloss.Color(color)), text)
}

// Bold renders text in bold, optionally coloured.
func (p Painter) Bold(color, text string) string {
	style := lipgloss.NewStyle().Bold(true)
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}
	return p.Render(style, text)
}

// Faint renders dimmed text.
func (p Painter) Faint(text string) string {
	return p.Render(lipgloss.NewStyle().Faint(true), text)
}
