// Package motion turns continuous host input into animated values.
//
// Signals carry named scalar snapshots (scroll progress, pointer position).
// Derived signals map a source through interpolation control points and are
// re-evaluated synchronously on every Set, so one input event settles the
// whole graph before the next event is handled. Springs chase a target with
// damped second-order dynamics and go idle once they settle.
//
// Nothing in this package blocks, starts goroutines, or keeps timers; callers
// drive springs from their frame loop.
package motion
