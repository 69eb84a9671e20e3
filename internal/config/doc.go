// Package config loads, normalizes, and validates missiondeck
// configuration.
//
// Configuration lives in a TOML file (~/.config/missiondeck/config.toml by
// default, with a project-local missiondeck.toml fallback). A .env file in
// the working directory is folded into the environment before loading so
// MISSIONDECK_* overrides work in development checkouts. Load returns a
// fully expanded config; downstream packages never re-read the file.
package config
