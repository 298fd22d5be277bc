package presenter

import (
	"sync"
	"time"
)

// TimerAnimator completes transitions after a fixed duration. It stands in for a renderer when deckx runs headless,
// so the controller's lock is still released through [Controller.Complete].
type TimerAnimator struct {
	ctrl     *Controller
	duration time.Duration
	after    func(time.Duration, func()) stopper

	mu     sync.Mutex
	timers map[uint64]stopper
}

type stopper interface{ Stop() bool }

// NewTimerAnimator returns an animator for ctrl. Register it with [Controller.Subscribe].
func NewTimerAnimator(ctrl *Controller, duration time.Duration) *TimerAnimator {
	return &TimerAnimator{
		ctrl:     ctrl,
		duration: duration,
		after:    func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) },
		timers:   make(map[uint64]stopper),
	}
}

// OnTransition schedules the completion signal for t.
func (a *TimerAnimator) OnTransition(t Transition, _ View) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.timers[t.ID] = a.after(a.duration, func() {
		a.mu.Lock()
		delete(a.timers, t.ID)
		a.mu.Unlock()
		a.ctrl.Complete(t.ID)
	})
}

// Stop cancels pending completions, used on shutdown.
func (a *TimerAnimator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, t := range a.timers {
		t.Stop()
		delete(a.timers, id)
	}
}
