package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// plainMarker is appended to above-threshold lines when colors are off.
const plainMarker = " *"

// reportStyle decides how above-threshold lines are emphasized.
type reportStyle struct {
	color bool
	above lipgloss.Style
}

func plainStyle() reportStyle {
	return reportStyle{}
}

// newReportStyle builds the style for output written to w. In auto mode
// colors are used only when w is a terminal.
func newReportStyle(w io.Writer, mode string) (reportStyle, error) {
	switch mode {
	case colorNever:
		return plainStyle(), nil
	case colorAlways:
	case colorAuto, "":
		if !isTerminal(w) {
			return plainStyle(), nil
		}
	default:
		return reportStyle{}, fmt.Errorf("unknown color mode %q (valid: auto, always, never)", mode)
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	return reportStyle{
		color: true,
		above: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).TabWidth(lipgloss.NoTabConversion),
	}, nil
}

func (s reportStyle) mark(line string, above bool) string {
	if !above {
		return line
	}
	if s.color {
		return s.above.Render(line)
	}
	return line + plainMarker
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
