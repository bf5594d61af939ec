package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/extendr/internal/models"
)

// DefaultPalette is the stylesheet used by the CLI.
var DefaultPalette = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders a heading. A nil Palette returns s unchanged; the same holds for every method.
func (p *Palette) Title(s string) string {
	if p == nil {
		return s
	}
	return p.title.Render(s)
}

// Help renders secondary text such as paths.
func (p *Palette) Help(s string) string {
	if p == nil {
		return s
	}
	return p.help.Render(s)
}

// Status renders a status name in the colour of its lifecycle stage:
// completed is green, error is red, in-flight statuses are amber and uploaded is muted.
func (p *Palette) Status(s models.Status) string {
	if p == nil {
		return s.String()
	}
	switch s {
	case models.StatusCompleted:
		return p.ok.Render(s.String())
	case models.StatusError:
		return p.err.Render(s.String())
	case models.StatusProcessing, models.StatusRegenerate:
		return p.warn.Render(s.String())
	default:
		return p.help.Render(s.String())
	}
}
