package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Deck errors
	ErrDeckNotFound = fmt.Errorf("deck not found")
	ErrEmptyDeck    = fmt.Errorf("deck has no slides")
	ErrInvalidDeck  = fmt.Errorf("invalid deck")

	// Presentation errors
	ErrFullscreenUnavailable = fmt.Errorf("fullscreen unavailable")
	ErrTimeout               = fmt.Errorf("operation timed out")

	// Remote and storage errors
	ErrRemoteRequest      = fmt.Errorf("remote request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSessionNotFound    = fmt.Errorf("rehearsal session not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
