// Package favorites holds the user's favorited-listing set and its persistence contract.
//
// # Store
//
// A [Store] keeps the set in memory and writes the whole set through to a [Storage] adapter
// after every mutation. The persisted layout is a single JSON array of [models.Favorite]
// snapshots under one key. [Store.Initialize] hydrates from storage and resets to empty on any
// read or parse failure, logging a warning instead of returning an error.
//
// Mutations are idempotent: adding an ID that is already present, or removing one that is absent,
// changes nothing and writes nothing. When a write fails the in-memory set is rolled back, so the
// set always mirrors the last successful write.
//
// # Storage adapters
//
//   - [MemoryStorage] : process-local map, used in tests
//   - [FileStorage] : one JSON file per key in a directory, used by the CLI and TUI
//   - repositories.KVRepository : SQLite kv table, used by the HTTP server
//
// # Provider
//
// A [Provider] hands out one initialized [Store] per key, so that all handlers touching the same
// owner share a single instance. Stores are never evicted: a long-running server keeps one per
// signed-in user for the life of the process, and each first load runs under the provider lock.
package favorites
