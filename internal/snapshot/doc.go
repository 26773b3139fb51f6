// Package snapshot fetches auction snapshots for a representative realm.
//
// The API answers the status request before a snapshot is ready with a body
// that has no file listing. Fetcher retries until the listing is present or
// the retry budget is spent, then downloads the first listed file.
package snapshot
