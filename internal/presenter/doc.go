// Package presenter owns the navigation state of a running presentation.
//
// A [Controller] holds the current slide (1-based), the deck size and the animation lock.
// Every input source funnels into three entry points, [Controller.Advance], [Controller.Retreat] and [Controller.JumpTo],
// which share one state-transition path, [Controller.Navigate].
//
// # State machine
//
// The controller is either Idle or Transitioning. An accepted request moves it to Transitioning and returns a [Transition]
// describing where every slide ends up. The lock is released when whoever animates the transition reports it finished
// through [Controller.Complete] with the transition's id. Requests made while Transitioning, or aimed outside the deck,
// are rejected without changing state. Rejections carry a [Reason] so programmatic callers can report them;
// interactive adapters drop them silently.
//
// # UI-sync
//
// After every accepted request the controller computes a [View]: progress fraction, "{current} / {total}" counter,
// button enablement, the active menu entry and the neighbor slides to stage for prefetch. Listeners registered with
// [Controller.Subscribe] receive the transition and view synchronously, before any deferred effect runs.
//
// # External control
//
// [Commander] is the narrow command surface handed to outside callers such as the HTTP remote.
// [Commands] implements it over a Controller and a [Screen] that owns fullscreen.
package presenter
