// Package mission defines the mission snapshot model shared by the poller,
// renderer, and action dispatcher.
//
// Missions arrive as JSON records from the backend's snapshot endpoint and
// are never mutated locally; every update replaces the whole list. The
// package owns the status enum, the progressing/completed classification,
// and the five-stage progress mapping that backs the progress card.
package mission
