// Package ledger persists batch-run history in SQLite: one row per run and
// one per (raster, threshold) pair outcome. The database lives in the state
// directory and is a convenience record for the runs CLI commands, not an
// input to the pipeline; deleting it only loses history. Schema changes
// bump the version in schema.go.
package ledger
