// Package deck loads a markdown file into an ordered, read-only list of slides.
//
// Slides are separated by thematic breaks ("---" on its own line, preceded by a blank line so it is not read as a
// setext heading). Each top-level block of a slide becomes an [Element], and every list item is its own element so
// content can be revealed one piece at a time. HTML comments are speaker notes, and links using the "cta:" scheme
// become call-to-action buttons.
package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/deckx/internal/shared"
)

// Kind is the type of a slide element.
type Kind int

const (
	Heading Kind = iota
	Paragraph
	ListItem
	Code
	Quote
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case ListItem:
		return "list_item"
	case Code:
		return "code"
	case Quote:
		return "quote"
	default:
		return ""
	}
}

// Element is one revealable block of a slide.
type Element struct {
	Kind   Kind     `json:"kind"`
	Level  int      `json:"level,omitempty"`  // heading level or list nesting depth
	Marker string   `json:"marker,omitempty"` // list bullet or ordinal
	Text   string   `json:"text,omitempty"`
	Lines  []string `json:"lines,omitempty"` // code block body
	Lang   string   `json:"lang,omitempty"`
}

// CTA is a call-to-action button declared as [Label](cta:action).
type CTA struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Slide is one panel of the deck, addressed by its 1-based Number.
type Slide struct {
	Number   int       `json:"number"`
	Title    string    `json:"title"`
	Elements []Element `json:"elements"`
	Notes    []string  `json:"notes,omitempty"`
	CTAs     []CTA     `json:"ctas,omitempty"`
}

// Deck is an ordered list of slides.
type Deck struct {
	Title  string  `json:"title"`
	Path   string  `json:"path,omitempty"`
	Slides []Slide `json:"slides"`
}

// Len returns the number of slides.
func (d *Deck) Len() int {
	return len(d.Slides)
}

// Slide returns slide n (1-based).
func (d *Deck) Slide(n int) (Slide, bool) {
	if n < 1 || n > len(d.Slides) {
		return Slide{}, false
	}
	return d.Slides[n-1], true
}

// Titles returns each slide's title in order, for menus and outlines.
func (d *Deck) Titles() []string {
	titles := make([]string, len(d.Slides))
	for i, s := range d.Slides {
		titles[i] = s.Title
	}
	return titles
}

// Load reads and parses the markdown deck at path.
func Load(path string) (*Deck, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrDeckNotFound, path)
		}
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	d, err := Parse(name, src)
	if err != nil {
		return nil, err
	}
	d.Path = path
	return d, nil
}
