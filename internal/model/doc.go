// Package model defines shared data types used across the auction ledger.
//
// Conventions:
//   - Money: integer copper (buyout, bid), int64
//   - Timestamps: int64 milliseconds since Unix epoch, as reported by the API
//   - Realms are identified by slug (e.g., "argent-dawn")
package model
