// Package api provides the REST client for the game auction-house API.
//
// Endpoints:
//   - GET /realm/status          realm directory with connected realms
//   - GET /auction/data/{realm}  auction snapshot status (file listing)
//   - GET {files[0].url}         auction snapshot payload
//
// Requests to the API carry the credential and locale as query parameters.
// Transport failures (5xx, 429) are retried with exponential backoff; a
// missing file listing is not a transport failure and is left to the caller.
package api
