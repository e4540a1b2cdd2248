// Package history keeps a SQLite ledger of pipeline runs.
//
// Each run is recorded once it reaches Done or Failed, with the state it
// stopped in, segment and overlay counts and any error message. The CLI's
// history command reads it back newest first.
package history
