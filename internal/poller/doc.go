// Package poller drives the snapshot reconciliation loop.
//
// A fixed-interval loop fetches the full mission list, fingerprints it,
// and short-circuits when nothing changed; acceptance of a new snapshot is
// the single place the mission list mutates. Consumers subscribe to
// accepted snapshots and may request immediate or deferred refreshes after
// issuing backend commands. Fetch failures leave the accepted state
// untouched and are retried on the next tick.
package poller
