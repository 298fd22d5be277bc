// package formatter provides functions to export deck outlines and rehearsal stats to various formats (CSV, JSON,
// Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/deckx/internal/deck"
	"github.com/desertthunder/deckx/internal/shared"
)

// Format names an export format accepted on the command line.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format flag value. "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension used when writing f to disk.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// ExportOutline renders a deck outline in the given format.
func ExportOutline(d *deck.Deck, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return OutlineToText(d)
	case FormatMarkdown:
		return OutlineToMarkdown(d)
	case FormatCSV:
		return OutlineToCSV(d)
	case FormatJSON:
		return OutlineToJSON(d)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// OutlineToCSV converts a deck to CSV format with columns: Slide, Title, Elements, CTAs
func OutlineToCSV(d *deck.Deck) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Slide", "Title", "Elements", "CTAs"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, slide := range d.Slides {
		labels := make([]string, len(slide.CTAs))
		for i, cta := range slide.CTAs {
			labels[i] = cta.Label
		}
		record := []string{
			strconv.Itoa(slide.Number),
			slide.Title,
			strconv.Itoa(len(slide.Elements)),
			strings.Join(labels, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// OutlineToMarkdown converts a deck to a Markdown outline with speaker notes as blockquotes
func OutlineToMarkdown(d *deck.Deck) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", d.Title))
	buf.WriteString(fmt.Sprintf("**Slides**: %d\n\n", d.Len()))

	for _, slide := range d.Slides {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", slide.Number, slide.Title))
		for _, el := range slide.Elements {
			switch el.Kind {
			case deck.Heading:
				if el.Text == slide.Title {
					continue
				}
				buf.WriteString(fmt.Sprintf("- **%s**\n", el.Text))
			case deck.ListItem:
				buf.WriteString(fmt.Sprintf("%s- %s\n", strings.Repeat("  ", el.Level), el.Text))
			case deck.Code:
				buf.WriteString(fmt.Sprintf("- code (%s, %d lines)\n", langOrPlain(el.Lang), len(el.Lines)))
			default:
				buf.WriteString(fmt.Sprintf("- %s\n", el.Text))
			}
		}
		for _, cta := range slide.CTAs {
			buf.WriteString(fmt.Sprintf("- [%s](cta:%s)\n", cta.Label, cta.Action))
		}
		for _, note := range slide.Notes {
			buf.WriteString(fmt.Sprintf("\n> %s\n", strings.ReplaceAll(note, "\n", "\n> ")))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// OutlineToText converts a deck to a numbered list of slide titles
func OutlineToText(d *deck.Deck) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Deck: %s\n", d.Title))
	buf.WriteString(fmt.Sprintf("Slides: %d\n\n", d.Len()))

	for _, slide := range d.Slides {
		buf.WriteString(fmt.Sprintf("%d. %s (%d elements)\n", slide.Number, slide.Title, len(slide.Elements)))
	}

	return buf.Bytes(), nil
}

// OutlineToJSON returns the full parsed deck as indented JSON
func OutlineToJSON(d *deck.Deck) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outline: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteOutlineExport writes a deck outline to path.
//
// Defaults to {deck name}_outline{ext} next to the current directory when path is empty.
func WriteOutlineExport(d *deck.Deck, f Format, path string) (string, error) {
	if path == "" {
		path = defaultName(d) + "_outline" + f.Extension()
	}

	data, err := ExportOutline(d, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate outline: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write outline file: %w", err)
	}

	return path, nil
}

func defaultName(d *deck.Deck) string {
	if d.Path != "" {
		return strings.TrimSuffix(filepath.Base(d.Path), filepath.Ext(d.Path))
	}
	name := strings.ToLower(strings.Join(strings.Fields(d.Title), "_"))
	if name == "" {
		return "deck"
	}
	return name
}

func langOrPlain(lang string) string {
	if lang == "" {
		return "plain"
	}
	return lang
}
