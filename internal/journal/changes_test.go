package journal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/journalized/internal/ir"
)

func TestChanges(t *testing.T) {
	prev := ir.Object{
		"first_name": ir.String("Steve"),
		"last_name":  ir.String("Richert"),
		"updated_at": ir.Int(100),
	}

	tests := []struct {
		name string
		next ir.Object
		opts ir.TypeOptions
		want ir.Object
	}{
		{
			name: "no change",
			next: prev.Clone(),
			want: ir.Object{},
		},
		{
			name: "single change",
			next: prev.Merge(ir.Object{"last_name": ir.String("Jobs")}),
			want: ir.Object{"last_name": ir.String("Jobs")},
		},
		{
			name: "timestamps dropped",
			next: prev.Merge(ir.Object{"last_name": ir.String("Jobs"), "updated_at": ir.Int(200), "created_on": ir.Int(1)}),
			want: ir.Object{"last_name": ir.String("Jobs")},
		},
		{
			name: "timestamp only change",
			next: prev.Merge(ir.Object{"updated_at": ir.Int(200)}),
			want: ir.Object{},
		},
		{
			name: "only restricts",
			next: prev.Merge(ir.Object{"first_name": ir.String("Steven"), "last_name": ir.String("Tyler")}),
			opts: ir.TypeOptions{Only: []string{"first_name"}},
			want: ir.Object{"first_name": ir.String("Steven")},
		},
		{
			name: "only cannot resurrect timestamps",
			next: prev.Merge(ir.Object{"updated_at": ir.Int(200)}),
			opts: ir.TypeOptions{Only: []string{"updated_at"}},
			want: ir.Object{},
		},
		{
			name: "except removes",
			next: prev.Merge(ir.Object{"first_name": ir.String("Steven"), "last_name": ir.String("Tyler")}),
			opts: ir.TypeOptions{Except: []string{"first_name"}},
			want: ir.Object{"last_name": ir.String("Tyler")},
		},
		{
			name: "except wins over only",
			next: prev.Merge(ir.Object{"first_name": ir.String("Steven"), "last_name": ir.String("Tyler")}),
			opts: ir.TypeOptions{Only: []string{"first_name"}, Except: []string{"first_name"}},
			want: ir.Object{},
		},
		{
			name: "partial overlap keeps non-excluded only names",
			next: prev.Merge(ir.Object{"first_name": ir.String("Steven"), "last_name": ir.String("Tyler")}),
			opts: ir.TypeOptions{Only: []string{"first_name", "last_name"}, Except: []string{"first_name"}},
			want: ir.Object{"last_name": ir.String("Tyler")},
		},
		{
			name: "empty only tracks nothing",
			next: prev.Merge(ir.Object{"first_name": ir.String("Steven")}),
			opts: ir.TypeOptions{Only: []string{}},
			want: ir.Object{},
		},
		{
			name: "unknown names match nothing",
			next: prev.Merge(ir.Object{"first_name": ir.String("Steven")}),
			opts: ir.TypeOptions{Only: []string{"nickname"}},
			want: ir.Object{},
		},
		{
			name: "new attribute counts as change",
			next: prev.Merge(ir.Object{"email": ir.String("steve@example.com")}),
			want: ir.Object{"email": ir.String("steve@example.com")},
		},
		{
			name: "cleared attribute",
			next: prev.Merge(ir.Object{"last_name": ir.Null{}}),
			want: ir.Object{"last_name": ir.Null{}},
		},
		{
			name: "removed attribute is not a change",
			next: ir.Object{"first_name": ir.String("Steve")},
			want: ir.Object{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Changes(prev, tt.next, tt.opts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Changes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChangesNestedKeyOrder(t *testing.T) {
	prev := ir.Object{"prefs": ir.Object{"theme": ir.String("dark"), "lang": ir.String("en")}}
	next := ir.Object{"prefs": ir.Object{"lang": ir.String("en"), "theme": ir.String("dark")}}

	assert.Empty(t, Changes(prev, next, ir.TypeOptions{}))
}

func TestChangesNeverNil(t *testing.T) {
	assert.NotNil(t, Changes(nil, nil, ir.TypeOptions{}))
}

func TestTracked(t *testing.T) {
	opts := ir.TypeOptions{Only: []string{"first_name", "created_at"}, Except: []string{"last_name"}}

	assert.True(t, Tracked("first_name", opts))
	assert.False(t, Tracked("created_at", opts), "timestamps are never tracked")
	assert.False(t, Tracked("last_name", opts))
	assert.False(t, Tracked("email", opts), "not in only")
	assert.True(t, Tracked("email", ir.TypeOptions{}))
}

func TestDirty(t *testing.T) {
	base := ir.Object{"a": ir.Int(1), "updated_at": ir.Int(5)}

	assert.False(t, Dirty(base, base.Clone()))
	assert.True(t, Dirty(base, base.Merge(ir.Object{"updated_at": ir.Int(6)})))
	assert.True(t, Dirty(base, ir.Object{"a": ir.Int(1)}), "removed key")
	assert.True(t, Dirty(base, base.Merge(ir.Object{"b": ir.Null{}})), "added key")
}
