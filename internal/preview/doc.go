// Package preview drives a live-preview session: one source file, one
// template, one viewer.
//
// A Session renders once on start, then re-renders on every change signal
// from its Stream and hands each result to its Sink. Unreadable files and
// invalid documents become error pages; only a failing Sink or
// cancellation ends a session.
//
//	Idle -> Rendering -> Watching -> Rendering -> Watching -> ... -> Closed
package preview
