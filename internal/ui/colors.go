package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/recon/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title     lipgloss.Style
	label     lipgloss.Style
	primary   lipgloss.Style
	secondary lipgloss.Style
	err       lipgloss.Style
	help      lipgloss.Style
}

func NewPalette(t, p, e, s, h string) *Palette {
	return &Palette{
		title:     NewBold(t).MarginBottom(1),
		label:     NewBold(h),
		primary:   NewBold(p),
		secondary: NewStyle(s),
		err:       NewBold(e),
		help:      NewEm(h),
	}
}

// precedence renders a link precedence in its palette color.
func (p *Palette) precedence(lp models.LinkPrecedence) string {
	if lp == models.Primary {
		return p.primary.Render(string(lp))
	}
	return p.secondary.Render(string(lp))
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
