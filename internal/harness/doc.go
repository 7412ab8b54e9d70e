// Package harness runs journaling scenarios written in YAML.
//
// A scenario declares the journaled types, a sequence of entity writes and
// option changes, and assertions over the journals those writes produced.
// Every scenario runs against a fresh in-memory store, so runs are isolated
// and produce identical traces.
//
// # Scenario Format
//
//	name: only_filter
//	description: "only restricts the journaled attributes"
//	types:
//	  User:
//	    only: [first_name]
//	steps:
//	  - op: create
//	    entity: User#u1
//	    attributes: { first_name: Steve, last_name: Richert }
//	  - op: save
//	    entity: User#u1
//	    attributes: { first_name: Steven, last_name: Tyler }
//	    expect: { recorded: true }
//	assertions:
//	  - type: journal_count
//	    entity: User#u1
//	    count: 1
//	  - type: detail_keys
//	    entity: User#u1
//	    keys: [first_name]
//
// # Step Operations
//
//   - create: insert a new entity (journal only with journal_on_create)
//   - save: merge attributes over the stored snapshot
//   - replace: store attributes as the complete snapshot
//   - configure: override the options of a type (entity names the type)
//   - reset: restore the declared options of a type
//
// # Assertion Types
//
//   - journal_count: the entity has exactly count journals
//   - detail_keys: the journal at version (default: latest) changed exactly keys
//   - details_exclude: no journal of the entity mentions any of keys
//   - details_equal: the journal at version (default: latest) has exactly details
//
// # Golden Traces
//
// RunWithGolden serializes the step trace and the final journal list as
// canonical JSON and compares it with testdata/golden/<name>.golden.
package harness
