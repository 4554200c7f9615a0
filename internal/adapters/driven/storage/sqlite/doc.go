// Package sqlite provides the SQLite-backed IndexStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Indexes are
// keyed by document signature: a manifest row in the indexes table plus
// chunk rows whose embeddings are stored as little-endian float32 BLOBs.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.leasewise/data/index.db
//
// # Thread Safety
//
// Writes replace a whole index inside a single transaction, so readers
// see either the full index or nothing. SQLite in WAL mode provides the
// database-level locking.
package sqlite
