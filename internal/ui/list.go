package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const menuWidth = 28

var (
	_ list.Item         = slideItem{}
	_ list.ItemDelegate = slideDelegate{}
	_ Painter           = (*Palette)(nil)
)

// slideItem is one row of the navigation menu.
type slideItem struct {
	number int
	title  string
}

func (i slideItem) FilterValue() string { return i.title }
func (i slideItem) Title() string       { return i.title }
func (i slideItem) Description() string { return fmt.Sprintf("slide %d", i.number) }

// slideDelegate renders menu rows on a single line so a mouse row maps to exactly one item.
type slideDelegate struct {
	current func() int
}

func (d slideDelegate) Height() int                             { return 1 }
func (d slideDelegate) Spacing() int                            { return 0 }
func (d slideDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d slideDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(slideItem)
	if !ok {
		return
	}

	marker := "  "
	if d.current != nil && d.current() == it.number {
		marker = "▸ "
	}
	row := ansi.Truncate(fmt.Sprintf("%s%2d %s", marker, it.number, it.title), m.Width()-1, "…")

	if index == m.Index() {
		row = styles.cursor.Render(row)
	} else if marker != "  " {
		row = styles.heading.Render(row)
	}
	fmt.Fprint(w, row)
}

// newMenu builds the slide menu with filtering, paging chrome and quit keys turned off.
func newMenu(titles []string, current func() int) list.Model {
	items := make([]list.Item, len(titles))
	for i, t := range titles {
		items[i] = slideItem{number: i + 1, title: t}
	}

	m := list.New(items, slideDelegate{current: current}, menuWidth, 10)
	m.SetShowTitle(false)
	m.SetShowStatusBar(false)
	m.SetShowPagination(false)
	m.SetShowHelp(false)
	m.SetFilteringEnabled(false)
	m.DisableQuitKeybindings()
	return m
}

// menuItemAt returns the slide number rendered on menu row (0-based within the visible page).
func menuItemAt(m list.Model, row int) (int, bool) {
	if row < 0 || row >= m.Paginator.PerPage {
		return 0, false
	}
	idx := m.Paginator.Page*m.Paginator.PerPage + row
	items := m.Items()
	if idx >= len(items) {
		return 0, false
	}
	it, ok := items[idx].(slideItem)
	return it.number, ok
}
