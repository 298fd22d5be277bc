package deck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/deckx/internal/shared"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const ctaScheme = "cta:"

var markdown = goldmark.New()

// Parse splits markdown source into slides. name is used as the deck title when the first slide has no heading.
func Parse(name string, src []byte) (*Deck, error) {
	if strings.TrimSpace(string(src)) == "" {
		return nil, fmt.Errorf("%w: %s is empty", shared.ErrEmptyDeck, name)
	}

	doc := markdown.Parser().Parse(text.NewReader(src))
	b := &builder{src: src}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.ThematicBreak:
			b.flush()
		case *ast.Heading:
			t := b.inline(n)
			if b.cur.Title == "" {
				b.cur.Title = t
			}
			b.add(Element{Kind: Heading, Level: n.Level, Text: t})
		case *ast.Paragraph, *ast.TextBlock:
			if t := b.inline(n); t != "" {
				b.add(Element{Kind: Paragraph, Text: t})
			}
		case *ast.List:
			b.list(n, 0)
		case *ast.FencedCodeBlock:
			b.add(Element{Kind: Code, Lines: b.lines(n), Lang: string(n.Language(src))})
		case *ast.CodeBlock:
			b.add(Element{Kind: Code, Lines: b.lines(n)})
		case *ast.Blockquote:
			b.add(Element{Kind: Quote, Text: b.block(n)})
		case *ast.HTMLBlock:
			b.html(n)
		}
	}
	b.flush()

	if len(b.slides) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrEmptyDeck, name)
	}

	title := b.slides[0].Title
	if title == "" || title == "Slide 1" {
		title = name
	}
	return &Deck{Title: title, Slides: b.slides}, nil
}

type builder struct {
	src    []byte
	cur    Slide
	slides []Slide
}

func (b *builder) add(e Element) {
	b.cur.Elements = append(b.cur.Elements, e)
}

// flush closes the current slide. Slides with neither content nor notes are dropped.
func (b *builder) flush() {
	if len(b.cur.Elements) == 0 && len(b.cur.Notes) == 0 {
		b.cur = Slide{}
		return
	}
	b.cur.Number = len(b.slides) + 1
	if b.cur.Title == "" {
		b.cur.Title = fmt.Sprintf("Slide %d", b.cur.Number)
	}
	b.slides = append(b.slides, b.cur)
	b.cur = Slide{}
}

func (b *builder) list(l *ast.List, depth int) {
	ordinal := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if l.IsOrdered() {
			marker = strconv.Itoa(ordinal) + "."
			ordinal++
		}

		var parts []string
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			if t := b.inline(c); t != "" {
				parts = append(parts, t)
			}
		}
		b.add(Element{Kind: ListItem, Level: depth, Marker: marker, Text: strings.Join(parts, " ")})

		for _, sub := range nested {
			b.list(sub, depth+1)
		}
	}
}

// block flattens the text of every paragraph inside a container node.
func (b *builder) block(n ast.Node) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock && c.HasChildren() && c.FirstChild().Type() == ast.TypeBlock {
			parts = append(parts, b.block(c))
			continue
		}
		if t := b.inline(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// inline renders the inline children of n as plain text and collects CTA links on the way.
func (b *builder) inline(n ast.Node) string {
	var sb strings.Builder
	b.walkInline(n, &sb)
	return strings.TrimSpace(sb.String())
}

func (b *builder) walkInline(n ast.Node, sb *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(b.src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.CodeSpan:
			sb.WriteByte('`')
			b.walkInline(c, sb)
			sb.WriteByte('`')
		case *ast.AutoLink:
			sb.Write(c.URL(b.src))
		case *ast.Link:
			var label strings.Builder
			b.walkInline(c, &label)
			dest := string(c.Destination)
			if action, ok := strings.CutPrefix(dest, ctaScheme); ok {
				b.cur.CTAs = append(b.cur.CTAs, CTA{Label: label.String(), Action: action})
				sb.WriteString("[ " + label.String() + " ]")
				continue
			}
			sb.WriteString(label.String())
		case *ast.RawHTML:
			// inline html is not rendered in a terminal
		default:
			b.walkInline(c, sb)
		}
	}
}

func (b *builder) lines(n ast.Node) []string {
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(b.src)), "\n"))
	}
	return out
}

// html keeps comments as speaker notes and ignores other raw html.
func (b *builder) html(n *ast.HTMLBlock) {
	if n.HTMLBlockType != ast.HTMLBlockType2 {
		return
	}
	raw := strings.Join(b.lines(n), "\n")
	if n.HasClosure() {
		raw += "\n" + string(n.ClosureLine.Value(b.src))
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	if note := strings.TrimSpace(raw); note != "" {
		b.cur.Notes = append(b.cur.Notes, note)
	}
}
