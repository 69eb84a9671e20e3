// Package logging assembles the structured slog loggers used across
// missiondeck.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attr helpers so command and dashboard code tag log
// lines with mission IDs, topics, and actions in a consistent shape. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging
