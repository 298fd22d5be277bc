package ui

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/deckx/internal/presenter"
)

const defaultBridgeTimeout = 2 * time.Second

// Bridge implements [presenter.Commander] for callers outside the bubbletea loop, such as the remote server.
//
// Each command is sent to the program as a message and runs inside Update, so the controller and the
// animation state only ever change on the event loop. Callers block until the loop replies or the timeout passes;
// a command that timed out is discarded when the loop reaches it.
type Bridge struct {
	ctrl    *presenter.Controller
	timeout time.Duration
	logger  *log.Logger

	mu   sync.RWMutex
	send func(tea.Msg)
}

var _ presenter.Commander = (*Bridge)(nil)

// NewBridge creates a bridge over ctrl. It rejects commands until [Bridge.Attach] is called.
func NewBridge(ctrl *presenter.Controller, timeout time.Duration, logger *log.Logger) *Bridge {
	if timeout <= 0 {
		timeout = defaultBridgeTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bridge{ctrl: ctrl, timeout: timeout, logger: logger}
}

// Attach routes commands to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = p.Send
}

func (b *Bridge) Advance() presenter.Outcome {
	return b.do(func(c presenter.Commander) presenter.Outcome { return c.Advance() })
}

func (b *Bridge) Retreat() presenter.Outcome {
	return b.do(func(c presenter.Commander) presenter.Outcome { return c.Retreat() })
}

func (b *Bridge) JumpTo(n int) presenter.Outcome {
	return b.do(func(c presenter.Commander) presenter.Outcome { return c.JumpTo(n) })
}

func (b *Bridge) Start() presenter.Outcome {
	return b.do(func(c presenter.Commander) presenter.Outcome { return c.Start() })
}

func (b *Bridge) End() presenter.Outcome {
	return b.do(func(c presenter.Commander) presenter.Outcome { return c.End() })
}

// State reads the controller directly; snapshots are safe from any goroutine.
func (b *Bridge) State() presenter.View {
	return b.ctrl.Snapshot()
}

func (b *Bridge) do(run func(presenter.Commander) presenter.Outcome) presenter.Outcome {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()

	if send == nil {
		b.logger.Warn("command dropped, presentation not running")
		return presenter.Outcome{Reason: presenter.Busy, View: b.ctrl.Snapshot()}
	}

	reply := make(chan presenter.Outcome, 1)
	taken := new(atomic.Bool)
	go send(commandMsg(run, reply, taken))

	select {
	case out := <-reply:
		return out
	case <-time.After(b.timeout):
	}

	if !taken.CompareAndSwap(false, true) {
		// the loop picked it up at the deadline; its outcome is on the way
		return <-reply
	}
	b.logger.Warn("command timed out", "timeout", b.timeout)
	return presenter.Outcome{Reason: presenter.Busy, View: b.ctrl.Snapshot()}
}
