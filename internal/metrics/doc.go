// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Auction houses processed per outcome
//   - Snapshot status requests and whether a file listing was present
//   - Auctions ingested
//   - Run duration and status
//   - Postgres sink failures
package metrics
