// Package animate drives the viewport scroll position toward a target over
// a fixed duration, following a cubic-bezier timing curve.
//
// An Animator owns at most one Run. Starting a new run cancels the previous
// one, and a canceled run never signals completion. Frames are requested
// from a host.FrameScheduler, so the animator itself never blocks or spawns
// goroutines.
package animate
