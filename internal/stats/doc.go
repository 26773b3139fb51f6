// Package stats accumulates point-in-time auction totals for one auction house.
//
// An Accumulator consumes a snapshot's auctions once, in fetch order, and
// keeps realm-wide totals plus a per-seller breakdown keyed by
// (owner, ownerRealm). Totals are exact int64 sums.
//
// Lifecycle: Add* -> Finalize -> Documents. Documents are not available
// before Finalize, and Finalize freezes the accumulator.
package stats
