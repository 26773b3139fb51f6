// Package poller implements daemon mode.
//
// The Poller:
//   - Runs a ledger pass on start, then once per interval
//   - Never overlaps passes; a tick that arrives mid-pass is dropped
//   - Keeps the outcome of the latest pass for health reporting
package poller
