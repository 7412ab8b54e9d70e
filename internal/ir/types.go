package ir

import (
	"fmt"
	"slices"
	"strings"
)

// TimestampAttributes are maintained by the persistence layer and are never
// journaled, regardless of only/except options.
var TimestampAttributes = []string{"created_at", "created_on", "updated_at", "updated_on"}

// IsTimestamp reports whether name is one of TimestampAttributes.
func IsTimestamp(name string) bool {
	return slices.Contains(TimestampAttributes, name)
}

// EntityRef identifies one entity of one journaled type.
type EntityRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (r EntityRef) String() string {
	return r.Type + "#" + r.ID
}

// ParseEntityRef parses the "Type#ID" form produced by EntityRef.String.
// The id may itself contain '#'.
func ParseEntityRef(s string) (EntityRef, error) {
	typ, id, ok := strings.Cut(s, "#")
	if !ok || typ == "" || id == "" {
		return EntityRef{}, fmt.Errorf("invalid entity reference %q: want Type#ID", s)
	}
	return EntityRef{Type: typ, ID: id}, nil
}

// Entity is the current attribute snapshot of a journaled record.
type Entity struct {
	Ref        EntityRef `json:"ref"`
	Attributes Object    `json:"attributes"`
}

// Journal is an immutable record of one entity's tracked attribute changes.
type Journal struct {
	ID         string `json:"id"` // Content-addressed hash
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Version    int64  `json:"version"` // Per-entity, 1-based, gapless
	Seq        int64  `json:"seq"`     // Store-wide insertion order
	Details    Object `json:"details"` // Changed attribute -> new value
	Author     string `json:"author,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Ref returns the reference of the journaled entity.
func (j Journal) Ref() EntityRef {
	return EntityRef{Type: j.EntityType, ID: j.EntityID}
}

// DetailKeys returns the changed attribute names in canonical order.
func (j Journal) DetailKeys() []string {
	return j.Details.Keys()
}

// JournalMeta carries the optional attribution written with a journal.
type JournalMeta struct {
	Author string `json:"author,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// TypeOptions configures journaling for one entity type.
//
// A nil Only means "every attribute"; a non-nil empty Only tracks nothing.
// Except always wins over Only for a name present in both.
type TypeOptions struct {
	Only            []string `json:"only,omitempty"`
	Except          []string `json:"except,omitempty"`
	JournalOnCreate bool     `json:"journal_on_create,omitempty"`
}

// Clone returns a deep copy so callers cannot alias registry state.
func (o TypeOptions) Clone() TypeOptions {
	out := TypeOptions{JournalOnCreate: o.JournalOnCreate}
	if o.Only != nil {
		out.Only = slices.Clone(o.Only)
	}
	if o.Except != nil {
		out.Except = slices.Clone(o.Except)
	}
	return out
}
