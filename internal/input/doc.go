// Package input turns raw terminal events into navigation intents.
//
// Three adapters feed the presenter: a [KeyMap] for the keyboard, a [SwipeDetector] for mouse drags
// (the terminal stand-in for touch swipes) and a [WheelDebouncer] that collapses a burst of wheel events
// into one step. None of them touch presentation state; they only decide which [Action] to request.
package input
