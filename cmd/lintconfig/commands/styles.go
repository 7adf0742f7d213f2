package commands

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorGreen = "#10B981"
	colorRed   = "#EF4444"
	colorGray  = "#6B7280"
)

// styles renders command output for one writer. Writers that are not terminals get
// plain text.
type styles struct {
	ok     lipgloss.Style
	failed lipgloss.Style
	detail lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		ok:     r.NewStyle().Foreground(lipgloss.Color(colorGreen)).Bold(true),
		failed: r.NewStyle().Foreground(lipgloss.Color(colorRed)).Bold(true),
		detail: r.NewStyle().Foreground(lipgloss.Color(colorGray)),
	}
}
