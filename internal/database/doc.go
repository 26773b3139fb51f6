// Package database provides the PostgreSQL connection pool and schema for the
// optional stats sink.
//
// The sink is a secondary copy of each run's totals:
//   - realm_snapshots: one row per auction house per run
//   - player_snapshots: one row per seller per auction house per run
//
// The JSON files in the data directory remain the primary output.
package database
