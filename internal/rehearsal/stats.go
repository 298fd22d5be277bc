package rehearsal

import (
	"fmt"
	"time"
)

// SlideStat is the time spent on one slide across a session.
type SlideStat struct {
	Slide  int
	Visits int
	Dwell  time.Duration
}

// Report summarizes a session.
type Report struct {
	Session *Session
	Slides  []SlideStat // one entry per slide of the deck, in order
	Total   time.Duration
}

// Stats computes per-slide dwell time for a session. Each visit lasts until the next one, and the last visit lasts
// until the session ended. An unfinished session is measured up to now.
func (s *Store) Stats(sessionID string, now time.Time) (*Report, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	visits, err := s.Visits(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load visits: %w", err)
	}

	end := now
	if session.EndedAt != nil {
		end = *session.EndedAt
	}
	return Summarize(session, visits, end), nil
}

// Summarize folds ordered visits into a [Report].
func Summarize(session *Session, visits []Visit, end time.Time) *Report {
	report := &Report{Session: session, Slides: make([]SlideStat, session.TotalSlides)}
	for i := range report.Slides {
		report.Slides[i].Slide = i + 1
	}

	for i, v := range visits {
		if v.Slide < 1 || v.Slide > session.TotalSlides {
			continue
		}
		until := end
		if i+1 < len(visits) {
			until = visits[i+1].EnteredAt
		}

		dwell := until.Sub(v.EnteredAt)
		if dwell < 0 {
			dwell = 0
		}
		stat := &report.Slides[v.Slide-1]
		stat.Visits++
		stat.Dwell += dwell
		report.Total += dwell
	}
	return report
}
