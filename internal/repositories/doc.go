// Package repositories implements SQLite persistence for users and audio tracks.
//
// Key Implementations:
//   - [UserRepository] : registration and lookups by id or username
//   - [AudioTrackRepository] : track CRUD with the versioned fields encoded through package codec
//   - [Store] : owns the database handle and implements models.Storage on top of both repositories
//
// Lookups return (nil, nil) when no row matches. Driver failures are wrapped with shared.ErrStorage,
// duplicate keys with shared.ErrUniqueConstraint, and unreadable versioned columns surface as
// codec.DecodeError (shared.ErrDecode).
//
// Every operation is a single statement, so each one is its own transaction. Nothing here retries
// or locks; concurrent updates to the same column are last-writer-wins.
package repositories
