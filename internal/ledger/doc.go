// Package ledger persists content hashes for produced artifacts in SQLite.
//
// The mtime freshness gates remain the pipeline's decision mechanism; the
// ledger is an auditable record written after each stage produces an
// artifact, consumed by the status command. It is best effort: a missing or
// unwritable ledger never affects pipeline behavior.
package ledger
