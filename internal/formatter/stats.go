package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/deckx/internal/rehearsal"
	"github.com/desertthunder/deckx/internal/shared"
)

// ExportStats renders a rehearsal report. Only text and CSV are supported.
func ExportStats(r *rehearsal.Report, titles []string, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return StatsToText(r, titles)
	case FormatCSV:
		return StatsToCSV(r, titles)
	default:
		return nil, fmt.Errorf("%w: stats cannot be exported as %q", shared.ErrInvalidFlag, f)
	}
}

// StatsToText converts a report to an aligned table. titles is optional and indexed by slide number - 1.
func StatsToText(r *rehearsal.Report, titles []string) ([]byte, error) {
	var buf bytes.Buffer

	s := r.Session
	buf.WriteString(fmt.Sprintf("Session: %s\n", s.ID))
	buf.WriteString(fmt.Sprintf("Deck: %s (%s)\n", s.DeckTitle, s.DeckPath))
	buf.WriteString(fmt.Sprintf("Started: %s\n", s.StartedAt.Local().Format(time.DateTime)))
	if s.EndedAt != nil {
		buf.WriteString(fmt.Sprintf("Ended: %s\n", s.EndedAt.Local().Format(time.DateTime)))
	} else {
		buf.WriteString("Ended: in progress\n")
	}
	buf.WriteString(fmt.Sprintf("Total: %s\n\n", shared.FormatDuration(r.Total)))

	for _, stat := range r.Slides {
		buf.WriteString(fmt.Sprintf("%3d. %-32s %8s  %d visits\n",
			stat.Slide, truncate(titleAt(titles, stat.Slide), 32), shared.FormatDuration(stat.Dwell), stat.Visits))
	}

	return buf.Bytes(), nil
}

// StatsToCSV converts a report to CSV format with columns: Slide, Title, Visits, Seconds
func StatsToCSV(r *rehearsal.Report, titles []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Slide", "Title", "Visits", "Seconds"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, stat := range r.Slides {
		record := []string{
			strconv.Itoa(stat.Slide),
			titleAt(titles, stat.Slide),
			strconv.Itoa(stat.Visits),
			strconv.FormatFloat(stat.Dwell.Seconds(), 'f', 1, 64),
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

func titleAt(titles []string, n int) string {
	if n >= 1 && n <= len(titles) {
		return titles[n-1]
	}
	return fmt.Sprintf("Slide %d", n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
