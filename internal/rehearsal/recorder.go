package rehearsal

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deckx/internal/presenter"
)

// Recorder writes a visit for every accepted transition. It implements [presenter.Listener].
//
// Write failures are logged and never interrupt the presentation.
type Recorder struct {
	store   *Store
	session *Session
	now     func() time.Time
	logger  *log.Logger

	mu     sync.Mutex
	closed bool
}

var _ presenter.Listener = (*Recorder)(nil)

// StartRecorder opens a session for the deck and records the arrival on slide 1.
func StartRecorder(store *Store, deckPath, deckTitle string, total int, now func() time.Time, logger *log.Logger) (*Recorder, error) {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	session, err := store.CreateSession(deckPath, deckTitle, total, now())
	if err != nil {
		return nil, err
	}

	r := &Recorder{store: store, session: session, now: now, logger: logger}
	if _, err := store.AddVisit(session.ID, Visit{Slide: 1, Cause: "start", Direction: presenter.Forward.String(), EnteredAt: session.StartedAt}); err != nil {
		return nil, err
	}
	logger.Info("rehearsal session started", "session", session.ID)
	return r, nil
}

// Session returns the session being recorded.
func (r *Recorder) Session() *Session {
	return r.session
}

// OnTransition records the arrival on t.To.
func (r *Recorder) OnTransition(t presenter.Transition, _ presenter.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	v := Visit{Slide: t.To, Cause: string(t.Cause), Direction: t.Direction.String(), EnteredAt: r.now()}
	if _, err := r.store.AddVisit(r.session.ID, v); err != nil {
		r.logger.Error("failed to record visit", "slide", t.To, "error", err)
	}
}

// Close ends the session. Later transitions are ignored.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.store.EndSession(r.session.ID, r.now())
}
