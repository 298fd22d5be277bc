package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	text     lipgloss.Style
	code     lipgloss.Style
	quote    lipgloss.Style
	button   lipgloss.Style
	disabled lipgloss.Style
	cta      lipgloss.Style
	focused  lipgloss.Style
	menu     lipgloss.Style
	cursor   lipgloss.Style
	toast    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:    NewBold(t),
		heading:  NewBold(t),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		text:     lipgloss.NewStyle(),
		code:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(h)).Padding(0, 1),
		quote:    NewEm(h).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color(t)).PaddingLeft(1),
		button:   NewBold("#FFFFFF").Background(lipgloss.Color(t)).Padding(0, 1),
		disabled: NewStyle(h).Background(lipgloss.Color("#303030")).Padding(0, 1),
		cta:      NewBold("#000000").Background(lipgloss.Color(s)).Padding(0, 1),
		focused:  NewBold("#000000").Background(lipgloss.Color(w)).Padding(0, 1),
		menu:     lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(lipgloss.Color(h)),
		cursor:   NewBold(t).Reverse(true),
		toast:    NewBold(s),
	}
}

// On renders s on background c.
func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

// As renders s in foreground c.
func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
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
