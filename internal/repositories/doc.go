// Package repositories implements SQLite persistence for contacts.
//
// Queries are built with go-sqlbuilder's SQLite flavor and scanned with sqlx. Every repository accepts a
// [Querier], so callers decide whether it runs on the pool or inside an open transaction.
// Soft-deleted rows (deleted_at set) are invisible to every read.
//
// Key Implementations:
//   - [ContactRepository] : match lookups, cluster reads, inserts and the demote/re-parent writes used by merges
//
// All failures are wrapped with [shared.ErrPersistence]. Single-row reads that find nothing return
// [shared.ErrContactNotFound].
package repositories
