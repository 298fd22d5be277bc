package presenter

import "time"

// Direction of travel for a transition.
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Phase is the controller's state machine position.
type Phase int

const (
	Idle Phase = iota
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// Reason explains the result of a navigation request.
type Reason int

const (
	Accepted Reason = iota
	OutOfBounds
	Busy
)

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case OutOfBounds:
		return "out_of_bounds"
	case Busy:
		return "busy"
	default:
		return ""
	}
}

// Cause names the input that produced a request. It is carried through to listeners for logging and rehearsal stats.
type Cause string

const (
	CauseAPI      Cause = "api"
	CauseKeyboard Cause = "keyboard"
	CauseSwipe    Cause = "swipe"
	CauseWheel    Cause = "wheel"
	CauseMenu     Cause = "menu"
	CauseButton   Cause = "button"
	CauseRemote   Cause = "remote"
	CauseStart    Cause = "start"
	CauseEnd      Cause = "end"
)

// Kind selects one of the three navigation entry points.
type Kind int

const (
	KindAdvance Kind = iota
	KindRetreat
	KindJump
)

// Request is the input to [Controller.Navigate]. Target is only read for [KindJump].
type Request struct {
	Kind   Kind
	Target int
	Cause  Cause
}

// Timing holds the durations of the effects that follow a navigation.
type Timing struct {
	Transition    time.Duration // visual length of the slide transition
	RevealBase    time.Duration // delay before the first element appears
	RevealStagger time.Duration // extra delay per element
	RevealFade    time.Duration // fade/rise length of one element
	PrefetchHold  time.Duration // how long neighbor slides stay staged
}

// DefaultTiming returns the stock timings: 500ms transitions, 100ms + 50ms*i reveal, 100ms prefetch hold.
func DefaultTiming() Timing {
	return Timing{
		Transition:    500 * time.Millisecond,
		RevealBase:    100 * time.Millisecond,
		RevealStagger: 50 * time.Millisecond,
		RevealFade:    500 * time.Millisecond,
		PrefetchHold:  100 * time.Millisecond,
	}
}

// RevealSchedule returns the entrance delay of each of n elements, measured from the start of the transition.
func (t Timing) RevealSchedule(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = t.RevealBase + time.Duration(i)*t.RevealStagger
	}
	return delays
}

// RevealDone is the time after which all n elements have finished fading in.
func (t Timing) RevealDone(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return t.RevealBase + time.Duration(n-1)*t.RevealStagger + t.RevealFade
}
