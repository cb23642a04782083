// Package tasks runs bulk reconciliation with real-time progress reporting.
//
// # Bulk Import
//
// [ReadCSV] parses files with an email and a phoneNumber column. [ImportEngine.BulkImport] hands the rows
// to a worker pool that calls [services.Reconciler.Reconcile], throttled by a token bucket
// ([rate.Limiter]). Failures are collected per row; the import keeps going.
//
// Rows are reconciled concurrently and may reach the backend out of file order. Because later rows can
// merge clusters created by earlier ones, the result reports the primaries as they stand after the import.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
