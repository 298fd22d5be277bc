package presenter

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deckx/internal/shared"
)

// Listener is notified of every accepted transition, synchronously, after the state has changed.
type Listener interface {
	OnTransition(Transition, View)
}

// ListenerFunc adapts a function to [Listener].
type ListenerFunc func(Transition, View)

func (f ListenerFunc) OnTransition(t Transition, v View) { f(t, v) }

// Outcome is the result of a navigation request.
type Outcome struct {
	Accepted   bool
	Reason     Reason
	Transition Transition
	View       View
}

// Controller is the slide-index state machine.
type Controller struct {
	mu        sync.Mutex
	current   int
	total     int
	locked    bool
	seq       uint64
	listeners []Listener
	logger    *log.Logger
}

// Option configures a [Controller].
type Option func(*Controller)

// WithLogger sets the logger used for rejected requests and lock bookkeeping.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithListener registers l before the controller is used.
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listeners = append(c.listeners, l) }
}

// New creates a controller for a deck of total slides, positioned on slide 1 and idle.
func New(total int, opts ...Option) (*Controller, error) {
	if total < 1 {
		return nil, fmt.Errorf("%w: total slides %d", shared.ErrEmptyDeck, total)
	}

	c := &Controller{current: 1, total: total}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c, nil
}

// Subscribe registers a listener for accepted transitions.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Advance moves to the next slide.
func (c *Controller) Advance() Outcome {
	return c.Navigate(Request{Kind: KindAdvance, Cause: CauseAPI})
}

// Retreat moves to the previous slide.
func (c *Controller) Retreat() Outcome {
	return c.Navigate(Request{Kind: KindRetreat, Cause: CauseAPI})
}

// JumpTo moves to slide n. Jumping to the current slide is a legal, backward transition.
func (c *Controller) JumpTo(n int) Outcome {
	return c.Navigate(Request{Kind: KindJump, Target: n, Cause: CauseAPI})
}

// Navigate is the shared state-transition path behind the three entry points.
//
// It never fails loudly: a request aimed outside the deck or made while a transition is in flight
// leaves the state untouched and reports why in the returned [Outcome].
func (c *Controller) Navigate(req Request) Outcome {
	c.mu.Lock()

	target := c.target(req)
	if c.locked {
		out := c.reject(Busy)
		c.mu.Unlock()
		c.logger.Debug("navigation dropped", "reason", Busy, "cause", req.Cause, "target", target)
		return out
	}
	if target < 1 || target > c.total {
		out := c.reject(OutOfBounds)
		c.mu.Unlock()
		c.logger.Debug("navigation dropped", "reason", OutOfBounds, "cause", req.Cause, "target", target)
		return out
	}

	dir := Backward
	if target > c.current {
		dir = Forward
	}

	c.seq++
	c.locked = true
	t := Transition{
		ID:         c.seq,
		From:       c.current,
		To:         target,
		Direction:  dir,
		Cause:      req.Cause,
		Placements: place(target, c.total),
	}
	c.current = target
	v := NewView(c.current, c.total, Transitioning)
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	c.logger.Debug("transition started", "id", t.ID, "from", t.From, "to", t.To, "direction", t.Direction, "cause", t.Cause)
	for _, l := range listeners {
		l.OnTransition(t, v)
	}
	return Outcome{Accepted: true, Reason: Accepted, Transition: t, View: v}
}

// Complete releases the animation lock held by transition id.
// It reports false, and changes nothing, if id is not the transition in flight.
func (c *Controller) Complete(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.locked || id != c.seq {
		return false
	}
	c.locked = false
	c.logger.Debug("transition complete", "id", id, "slide", c.current)
	return true
}

// Current returns the active slide number.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Total returns the number of slides.
func (c *Controller) Total() int {
	return c.total
}

// Phase reports whether a transition is in flight.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase()
}

// Snapshot returns the UI-sync view of the current state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return NewView(c.current, c.total, c.phase())
}

func (c *Controller) phase() Phase {
	if c.locked {
		return Transitioning
	}
	return Idle
}

func (c *Controller) target(req Request) int {
	switch req.Kind {
	case KindAdvance:
		return c.current + 1
	case KindRetreat:
		return c.current - 1
	default:
		return req.Target
	}
}

func (c *Controller) reject(r Reason) Outcome {
	return Outcome{Reason: r, View: NewView(c.current, c.total, c.phase())}
}
