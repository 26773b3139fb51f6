// Package writer persists auction-house documents.
//
// Files (in the output directory):
//   - <slug>.json           auction-house totals, indented
//   - <slug>-players.json   per-seller breakdown, indented
//   - <slug>-auctions.json  raw auctions in fetch order, compact
//   - realms.json           index of every realm, written once per run
//
// Every document is encoded in memory first and then moved into place with
// a rename, so a file is either complete or absent.
//
// PostgresSink optionally mirrors the totals into Postgres.
package writer
