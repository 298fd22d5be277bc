package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/desertthunder/deckx/internal/deck"
	"github.com/desertthunder/deckx/internal/presenter"
)

// elementState is where an element is in its staggered entrance.
type elementState int

const (
	hidden elementState = iota
	fading
	shown
)

func revealState(t presenter.Timing, i int, elapsed time.Duration) elementState {
	delay := t.RevealBase + time.Duration(i)*t.RevealStagger
	switch {
	case elapsed < delay:
		return hidden
	case elapsed < delay+t.RevealFade:
		return fading
	default:
		return shown
	}
}

// renderElement draws one slide element at the given width. Fading elements are drawn faint.
func renderElement(e deck.Element, width int, faint bool) string {
	width = max(width, 1)

	switch e.Kind {
	case deck.Heading:
		st := styles.heading
		if e.Level == 1 {
			st = styles.title.Underline(true)
		}
		return st.Faint(faint).Width(width).Render(e.Text)

	case deck.ListItem:
		prefix := strings.Repeat("  ", e.Level) + e.Marker + " "
		pw := lipgloss.Width(prefix)
		body := styles.text.Faint(faint).Width(max(width-pw, 1)).Render(e.Text)
		lines := strings.Split(body, "\n")
		for i := range lines {
			if i == 0 {
				lines[i] = styles.heading.Faint(faint).Render(prefix) + lines[i]
			} else {
				lines[i] = strings.Repeat(" ", pw) + lines[i]
			}
		}
		return strings.Join(lines, "\n")

	case deck.Code:
		lines := make([]string, len(e.Lines))
		for i, l := range e.Lines {
			lines[i] = ansi.Truncate(l, max(width-4, 1), "…")
		}
		return styles.code.Faint(faint).Render(strings.Join(lines, "\n"))

	case deck.Quote:
		return styles.quote.Faint(faint).Width(max(width-2, 1)).Render(e.Text)

	default:
		return styles.text.Faint(faint).Width(width).Render(e.Text)
	}
}

// blank returns a block of empty lines with the same height as s, so hidden elements keep their space.
func blank(s string) string {
	return strings.Repeat("\n", lipgloss.Height(s)-1)
}

// compose joins element blocks, keeping consecutive list items tight.
func compose(els []deck.Element, blocks []string) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
			if !(els[i].Kind == deck.ListItem && els[i-1].Kind == deck.ListItem) {
				sb.WriteString("\n")
			}
		}
		sb.WriteString(b)
	}
	return sb.String()
}

// shift moves a block horizontally by offset columns, clipping it to width.
func shift(block string, offset, width int) string {
	if offset == 0 {
		return block
	}

	lines := strings.Split(block, "\n")
	for i, l := range lines {
		if offset > 0 {
			lines[i] = ansi.Truncate(strings.Repeat(" ", offset)+l, width, "")
		} else {
			lines[i] = ansi.TruncateLeft(l, -offset, "")
		}
	}
	return strings.Join(lines, "\n")
}

// fitHeight pads or clips s to exactly h lines.
func fitHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func button(label string, enabled bool) string {
	if enabled {
		return styles.button.Render(label)
	}
	return styles.disabled.Render(label)
}

// zone is a clickable span on one screen row, [x0, x1).
type zone struct {
	x0, x1, y int
}

func (z zone) contains(x, y int) bool {
	return y == z.y && x >= z.x0 && x < z.x1
}
