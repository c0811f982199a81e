// Package storage persists the learning subsystem's four logical
// tables: the append-only candidate log, the singleton current
// learning state, the append-only learning state history, and the
// append-only shadow report log.
//
// Every stored row carries the canonical JSON payload of its record
// plus a SHA-256 hex digest of that payload for integrity auditing.
//
// Two backends implement the Store interface:
//
//   - SQLiteStore: the production backend (WAL mode, busy timeout).
//     State saves are transactional across the singleton table and the
//     history log: either both writes land or neither does.
//   - MemoryStore: an in-memory backend for tests and ephemeral runs.
//
// Candidate appends are deliberately per-row, not batch-atomic: a
// failed row is logged and skipped and the remaining rows still
// persist. The append-only tables are safe for concurrent writers at
// the row level; the singleton state table is not, and callers must
// serialize compile runs externally.
package storage
