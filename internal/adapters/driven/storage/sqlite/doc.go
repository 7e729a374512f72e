// Package sqlite provides a unified SQLite-based implementation of the
// record store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements the store interfaces
// through a single database handle:
//
//   - PermitStore: canonical permits with content hash and seen timestamps
//   - ChangeStore: the append-only field change log
//   - SyncRunStore: sync run summaries and counters
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Timestamps are stored as fixed-width UTC text.
//
// # Data Location
//
// By default, the database is stored at ~/.buildo/data/permits.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
