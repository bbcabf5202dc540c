package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Report colours.
var (
	colourTitle   = lipgloss.Color("#7C3AED")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
)

// reportStyles styles the run report. The zero value renders plain text.
type reportStyles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// newReportStyles returns coloured styles when w is a terminal and
// NO_COLOR is unset, and plain styles otherwise.
func newReportStyles(w io.Writer) reportStyles {
	if !isTerminal(w) || os.Getenv("NO_COLOR") != "" {
		return plainStyles()
	}

	r := lipgloss.NewRenderer(w)
	return reportStyles{
		Title:   r.NewStyle().Bold(true).Foreground(colourTitle),
		Label:   r.NewStyle().Width(22),
		Value:   r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(colourMuted),
		Success: r.NewStyle().Foreground(colourSuccess),
		Warning: r.NewStyle().Foreground(colourWarning),
		Error:   r.NewStyle().Bold(true).Foreground(colourError),
	}
}

func plainStyles() reportStyles {
	plain := lipgloss.NewStyle()
	return reportStyles{
		Title:   plain,
		Label:   plain.Width(22),
		Value:   plain,
		Muted:   plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
