// Package history provides SQLite-backed durable storage for the list of
// recently searched wallet addresses.
//
// The store owns a single table, searched_addresses, keyed by address with a
// non-unique index on timestamp. It supports:
//   - Save: upsert with sticky merge of provenance (sourceInfo)
//   - ListAll: every record, newest first
//   - Get: point read by address
//   - Delete: point removal, missing keys are not an error
//   - ClearAll: removes every record
//
// # Sticky Provenance
//
// Once a record carries a non-nil SourceInfo, a later Save that passes no
// SourceInfo keeps the stored one. A Save with a non-nil SourceInfo replaces
// it. The only way back to nil is Delete followed by Save.
//
// # Lazy Initialization
//
// A Store created with New does not touch the disk until Initialize or the
// first operation. Initialization is serialized; a failed open leaves the
// store closed so a later call can retry. Default returns the process-wide
// Store configured from the environment.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout: from config, 5000ms by default
//   - One open connection: SQLite has a single writer
//
// Schema version is tracked with PRAGMA user_version.
package history
