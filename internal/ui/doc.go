// Package ui implements the terminal presenter using bubbletea's Elm architecture.
//
// The [Model] draws one slide at a time with a header, footer buttons, a counter, a progress bar and contextual
// help. Navigation requests go through [presenter.Controller]; an accepted transition starts three effects on the
// event loop:
//   - animation frames that slide the new content in from the side and, on the last frame, release the
//     controller's lock
//   - a staggered reveal that shows each element faint, then fully drawn
//   - a prefetch hold that keeps the neighbors of the new slide pre-rendered in the render cache
//
// Input arrives as key presses ([input.KeyMap]), mouse drags classified as swipes ([input.SwipeDetector]),
// debounced wheel events ([input.WheelDebouncer]), clicks on buttons, calls to action and menu rows, and commands
// from other goroutines delivered through a [Bridge].
//
// Fullscreen is the terminal's alternate screen. Quitting from any slide other than the first asks for
// confirmation, and focus changes are logged as the presentation pausing and resuming.
package ui
