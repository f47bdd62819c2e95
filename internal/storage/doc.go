// Package storage persists flash bags between requests.
//
// Each session's bag is stored as one opaque blob keyed by session id. The
// flash package owns the encoding; storage only moves bytes and prunes
// sessions that were never read again.
//
// Drivers:
//   - "memory": process-local map (tests, single-process hosts)
//   - "file":   one JSON file per session under a directory
//   - "sqlite": one row per session in a SQLite database
package storage
