// Package repositories implements SQLite persistence for the medspa service.
//
// Key Implementations:
//   - [KVRepository] : key/value documents; satisfies favorites.Storage so the server persists
//     each user's favorites snapshot array under "favorites:{user_id}"
//   - [SessionRepository] : sessions created by the auth callback, looked up by the session cookie
//
// Tables are created by the embedded migrations in internal/shared/sql.
package repositories
