package ui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/deckx/internal/presenter"
	"github.com/desertthunder/deckx/internal/shared"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal that can switch to the alternate screen.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// screen maps fullscreen onto the terminal's alternate screen buffer.
//
// Requests are queued as [tea.Cmd] values and drained by the model after each update, since the switch has to be
// performed by the running program.
type screen struct {
	tty     bool
	active  bool
	pending []tea.Cmd
}

var _ presenter.Screen = (*screen)(nil)

func (s *screen) Fullscreen() bool { return s.active }

func (s *screen) EnterFullscreen() error {
	if !s.tty {
		return fmt.Errorf("%w: output is not a terminal", shared.ErrFullscreenUnavailable)
	}
	if s.active {
		return nil
	}
	s.active = true
	s.pending = append(s.pending, tea.EnterAltScreen)
	return nil
}

func (s *screen) ExitFullscreen() {
	if !s.active {
		return
	}
	s.active = false
	s.pending = append(s.pending, tea.ExitAltScreen)
}

func (s *screen) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Sequence(cmds...)
}
