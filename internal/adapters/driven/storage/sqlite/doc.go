// Package sqlite provides a SQLite implementation of driven.RecordStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Records live in a single table:
//
//   - records: one row per username, in insertion order
//
// Unlike the text-file store, the username column carries a UNIQUE constraint, so
// concurrent creators of the same account cannot both succeed. Passwords are stored
// with the same obfuscation as the file store and may contain any byte.
//
// # Schema
//
// The database schema is managed by golang-migrate from versioned migrations
// embedded from the migrations/ directory. Each migration is a pair of .up.sql
// and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.passline/records.db
//
// # Thread Safety
//
// All operations are thread-safe. Writes go through a single connection and
// reads through a small pool, with SQLite in WAL mode.
package sqlite
