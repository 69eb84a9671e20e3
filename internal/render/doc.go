// Package render turns an accepted mission snapshot into the dashboard's
// visible card list.
//
// Rendering is split into toolkit-agnostic view-model builders (one per
// card type: progress, content, error) and a text renderer that lays the
// view models out with go-pretty tables. Re-rendering replaces the whole
// output; the poller's change detection keeps that cheap in steady state.
package render
