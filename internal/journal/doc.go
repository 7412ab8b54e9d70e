// Package journal records tracked attribute changes of entities as journals.
//
// The package has three parts:
//   - Changes: a pure function computing which attributes changed between two
//     snapshots, after applying only/except filters and dropping timestamps
//   - Registry: explicit per-entity-type options (no process-wide state)
//   - Recorder: runs the entity write and the journal append in one store
//     transaction
//
// Callers that already own a transaction use RecordIfChanged directly; it
// writes nothing when no tracked attribute changed.
package journal
