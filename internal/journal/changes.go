package journal

import (
	"slices"

	"github.com/roach88/journalized/internal/ir"
)

// Tracked reports whether an attribute is eligible for journaling under opts.
//
// Timestamps are never tracked. A non-nil Only restricts tracking to the named
// attributes, and Except removes names even when Only lists them.
func Tracked(name string, opts ir.TypeOptions) bool {
	if ir.IsTimestamp(name) {
		return false
	}
	if opts.Only != nil && !slices.Contains(opts.Only, name) {
		return false
	}
	return !slices.Contains(opts.Except, name)
}

// Changes returns the tracked attributes of next whose value differs from prev.
//
// Only keys present in next are considered; an attribute missing from prev
// counts as changed. Values compare by canonical encoding, so key order inside
// nested objects never produces a change. The result is never nil.
func Changes(prev, next ir.Object, opts ir.TypeOptions) ir.Object {
	changed := ir.Object{}
	for name, value := range next {
		if !Tracked(name, opts) {
			continue
		}
		if old, ok := prev[name]; ok && ir.Equal(old, value) {
			continue
		}
		changed[name] = value
	}
	return changed
}

// Dirty reports whether any attribute differs between prev and next,
// tracked or not. A dirty snapshot with no tracked changes still needs its
// entity row written.
func Dirty(prev, next ir.Object) bool {
	if len(prev) != len(next) {
		return true
	}
	for name, value := range next {
		old, ok := prev[name]
		if !ok || !ir.Equal(old, value) {
			return true
		}
	}
	return false
}
