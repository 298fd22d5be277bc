// Package rehearsal records how long each slide stays on screen during a run-through.
//
// A [Recorder] listens to the presenter and writes one visit per accepted transition to a sqlite-backed [Store].
// [Store.Stats] folds the visits of a session into per-slide dwell times. Recorded sessions are only read back for
// review; a new presentation always starts on the first slide.
package rehearsal
