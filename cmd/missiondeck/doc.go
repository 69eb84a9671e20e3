// Package main hosts the missiondeck CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into calls
// against the content-production backend: the live watch dashboard, mission
// listing, approval verdicts, failed-mission resumption, topic maintenance,
// caption previews, and configuration scaffolding. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
