// Package ledger provides SQLite-backed records of emission runs.
//
// Every `emit` run is appended as a run row plus one row per emitted route
// document. The latest run is what `verify` checks the output tree against,
// and comparing consecutive runs reveals route documents left behind by
// routes that were removed from the manifest.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Runs are ordered by seq, a per-database counter, never by wall time.
package ledger
