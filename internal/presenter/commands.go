package presenter

import (
	"io"

	"github.com/charmbracelet/log"
)

// Commander is the command surface exposed to external callers.
type Commander interface {
	Advance() Outcome
	Retreat() Outcome
	JumpTo(n int) Outcome
	Start() Outcome
	End() Outcome
	State() View
}

// Screen is the fullscreen port of whatever displays the deck.
type Screen interface {
	Fullscreen() bool
	EnterFullscreen() error
	ExitFullscreen()
}

// Commands implements [Commander] over a [Controller] and a [Screen].
type Commands struct {
	ctrl   *Controller
	screen Screen
	cause  Cause
	logger *log.Logger
}

var _ Commander = (*Commands)(nil)

// NewCommands binds a controller to a screen. Requests are tagged with cause; a nil screen behaves as one that never goes fullscreen.
func NewCommands(ctrl *Controller, screen Screen, cause Cause, logger *log.Logger) *Commands {
	if screen == nil {
		screen = NopScreen{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Commands{ctrl: ctrl, screen: screen, cause: cause, logger: logger}
}

func (c *Commands) Advance() Outcome {
	return c.ctrl.Navigate(Request{Kind: KindAdvance, Cause: c.cause})
}

func (c *Commands) Retreat() Outcome {
	return c.ctrl.Navigate(Request{Kind: KindRetreat, Cause: c.cause})
}

func (c *Commands) JumpTo(n int) Outcome {
	return c.ctrl.Navigate(Request{Kind: KindJump, Target: n, Cause: c.cause})
}

// Start jumps to the first slide and requests fullscreen. A rejected fullscreen request is logged.
func (c *Commands) Start() Outcome {
	out := c.ctrl.Navigate(Request{Kind: KindJump, Target: 1, Cause: CauseStart})
	if err := c.screen.EnterFullscreen(); err != nil {
		c.logger.Warn("error attempting to enable fullscreen", "error", err)
	}
	return out
}

// End leaves fullscreen if active and returns to the first slide.
func (c *Commands) End() Outcome {
	if c.screen.Fullscreen() {
		c.screen.ExitFullscreen()
	}
	return c.ctrl.Navigate(Request{Kind: KindJump, Target: 1, Cause: CauseEnd})
}

func (c *Commands) State() View {
	return c.ctrl.Snapshot()
}

// NopScreen has no fullscreen mode; every request is a no-op.
type NopScreen struct{}

func (NopScreen) Fullscreen() bool       { return false }
func (NopScreen) EnterFullscreen() error { return nil }
func (NopScreen) ExitFullscreen()        {}
