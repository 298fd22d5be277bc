package input

import "time"

// DefaultWheelDebounce is the quiet period after the last wheel event before it fires.
const DefaultWheelDebounce = 100 * time.Millisecond

// WheelDebouncer collapses a burst of wheel events into the last one.
//
// Each call to [WheelDebouncer.Bump] supersedes the previous pending event and returns a generation.
// The caller schedules [WheelDebouncer.Fire] with that generation after [WheelDebouncer.Delay]; only the
// latest generation produces an action.
type WheelDebouncer struct {
	Debounce time.Duration

	gen   uint64
	delta int
}

// Bump records a wheel event with the given vertical delta.
func (w *WheelDebouncer) Bump(delta int) uint64 {
	w.gen++
	w.delta = delta
	return w.gen
}

// Fire resolves generation gen. Superseded generations and zero deltas yield [None].
func (w *WheelDebouncer) Fire(gen uint64) Action {
	if gen != w.gen {
		return None
	}
	delta := w.delta
	w.delta = 0
	switch {
	case delta > 0:
		return Advance
	case delta < 0:
		return Retreat
	default:
		return None
	}
}

// Delay is the configured debounce, or [DefaultWheelDebounce].
func (w *WheelDebouncer) Delay() time.Duration {
	if w.Debounce <= 0 {
		return DefaultWheelDebounce
	}
	return w.Debounce
}
