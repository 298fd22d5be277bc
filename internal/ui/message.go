package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/deckx/internal/presenter"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgFrame MsgKind = iota
	MsgReveal
	MsgPrefetchExpired
	MsgWheel
	MsgToastExpired
	MsgCommand
)

type frameData struct {
	id    uint64
	frame int
}

type revealData struct {
	id      uint64
	elapsed time.Duration
}

// commandData carries a [presenter.Commander] call from another goroutine onto the event loop.
//
// Whoever sets taken first owns the command: the loop runs it, or the caller gives up on it.
type commandData struct {
	run   func(presenter.Commander) presenter.Outcome
	reply chan<- presenter.Outcome
	taken *atomic.Bool
}

// frameMsg is the constructor for [MsgFrame]
func frameMsg(id uint64, frame int) Msg {
	return Msg{kind: MsgFrame, data: frameData{id, frame}}
}

// revealMsg is the constructor for [MsgReveal]
func revealMsg(id uint64, elapsed time.Duration) Msg {
	return Msg{kind: MsgReveal, data: revealData{id, elapsed}}
}

// prefetchExpiredMsg is the constructor for [MsgPrefetchExpired]
func prefetchExpiredMsg(id uint64) Msg {
	return Msg{kind: MsgPrefetchExpired, data: id}
}

// wheelMsg is the constructor for [MsgWheel]
func wheelMsg(gen uint64) Msg {
	return Msg{kind: MsgWheel, data: gen}
}

// toastExpiredMsg is the constructor for [MsgToastExpired]
func toastExpiredMsg(id int) Msg {
	return Msg{kind: MsgToastExpired, data: id}
}

// commandMsg is the constructor for [MsgCommand]
func commandMsg(run func(presenter.Commander) presenter.Outcome, reply chan<- presenter.Outcome, taken *atomic.Bool) Msg {
	return Msg{kind: MsgCommand, data: commandData{run, reply, taken}}
}
