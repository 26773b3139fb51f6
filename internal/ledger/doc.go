// Package ledger runs one pass over every auction house.
//
// A pass fetches the realm directory, collapses connected realms into
// auction-house groups and then, one group at a time:
//   - fetches the representative realm's snapshot
//   - aggregates it into realm and seller totals
//   - writes <slug>.json, <slug>-players.json and <slug>-auctions.json
//
// Groups whose snapshot is unavailable or whose documents cannot be written
// are skipped. realms.json is written last and lists only written groups.
package ledger
