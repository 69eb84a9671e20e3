// Package api implements the HTTP client for the content-production
// backend.
//
// The backend owns all real work; this client only reads full mission
// snapshots and posts the small command surface (run-workflow, approve,
// delete). Errors are split into FetchError for the polling read path,
// which callers log and retry on the next tick, and ActionError for
// user-initiated commands, which callers surface immediately.
package api
