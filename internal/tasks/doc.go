// Package tasks runs long favorites operations with non-blocking progress reporting.
//
// # Operations
//
//  1. [Runner.Refresh] re-fetches every saved listing from the hosted backend
//     through a rate-limited worker pool and writes changed snapshots back to the store.
//     Listings the backend no longer has are kept and reported as missing.
//
//  2. [Runner.Export] renders the saved set with the formatter package and writes it to disk.
//
// # Progress Reporting
//
// Both operations accept an optional send-only channel of [ProgressUpdate].
// Updates use select with default, so a slow or absent reader never stalls the work.
package tasks
