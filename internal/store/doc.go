// Package store provides SQL-backed durable storage for journaled entities.
//
// The store holds two tables:
//   - entities: the current attribute snapshot per (entity_type, entity_id)
//   - journals: append-only log of tracked attribute changes per entity
//
// # Invariants
//
// Append-only journals
//   - No UPDATE or DELETE statement exists in this package for journals
//   - The schema rejects both with triggers, so ad-hoc SQL cannot rewrite history
//
// Ordering
//   - version is per entity, 1-based and gapless: UNIQUE(entity_type, entity_id, version)
//   - seq is the store-wide insertion order
//   - All list queries use ORDER BY version ASC (per entity) or seq ASC (global)
//
// Atomicity
//   - Entity writes and journal inserts made through one Tx commit or roll back together
//   - A duplicate version surfaces as ErrVersionConflict; callers retry the save
//
// # Dialects
//
// SQLite (github.com/mattn/go-sqlite3) is the embedded default:
//   - WAL mode, synchronous=NORMAL, busy_timeout=5000, foreign_keys=ON
//   - transactions begin IMMEDIATE so a save's read-modify-write is serialized
//
// PostgreSQL (github.com/lib/pq) locks the entity row with SELECT ... FOR UPDATE.
//
// Details are stored as canonical JSON (see internal/ir/canonical.go), and journal
// ids are content-addressed via ir.JournalID.
package store
