package journal

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/roach88/journalized/internal/ir"
)

// attributeNames mixes ordinary attributes with every reserved timestamp.
var attributeNames = []string{
	"first_name", "last_name", "name", "email",
	"created_at", "created_on", "updated_at", "updated_on",
}

func snapshotFrom(keys []int, values []string) ir.Object {
	obj := ir.Object{}
	for i := 0; i < len(keys) && i < len(values); i++ {
		obj[attributeNames[keys[i]]] = ir.String(values[i])
	}
	return obj
}

func namesFrom(idx []int) []string {
	names := make([]string, 0, len(idx))
	for _, i := range idx {
		names = append(names, attributeNames[i])
	}
	return names
}

func genIndexes() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(attributeNames)-1))
}

func TestChangesProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("identical snapshots never produce details", prop.ForAll(
		func(keys []int, values []string, only []int, except []int) bool {
			snap := snapshotFrom(keys, values)
			opts := ir.TypeOptions{Only: namesFrom(only), Except: namesFrom(except)}
			return len(Changes(snap, snap.Clone(), opts)) == 0
		},
		genIndexes(), gen.SliceOf(gen.AlphaString()), genIndexes(), genIndexes(),
	))

	properties.Property("details never contain timestamps", prop.ForAll(
		func(prevKeys []int, prevValues []string, keys []int, values []string) bool {
			details := Changes(snapshotFrom(prevKeys, prevValues), snapshotFrom(keys, values), ir.TypeOptions{})
			for name := range details {
				if ir.IsTimestamp(name) {
					return false
				}
			}
			return true
		},
		genIndexes(), gen.SliceOf(gen.AlphaString()), genIndexes(), gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("details are a subset of only minus except", prop.ForAll(
		func(keys []int, values []string, only []int, except []int) bool {
			opts := ir.TypeOptions{Only: namesFrom(only), Except: namesFrom(except)}
			details := Changes(ir.Object{}, snapshotFrom(keys, values), opts)
			for name := range details {
				if !slices.Contains(opts.Only, name) || slices.Contains(opts.Except, name) {
					return false
				}
			}
			return true
		},
		genIndexes(), gen.SliceOf(gen.AlphaString()), genIndexes(), genIndexes(),
	))

	properties.Property("only equal to except yields nothing", prop.ForAll(
		func(keys []int, values []string, names []int) bool {
			set := namesFrom(names)
			opts := ir.TypeOptions{Only: set, Except: set}
			return len(Changes(ir.Object{}, snapshotFrom(keys, values), opts)) == 0
		},
		genIndexes(), gen.SliceOf(gen.AlphaString()), genIndexes(),
	))

	properties.Property("every detail carries the new value", prop.ForAll(
		func(prevKeys []int, prevValues []string, keys []int, values []string) bool {
			next := snapshotFrom(keys, values)
			for name, value := range Changes(snapshotFrom(prevKeys, prevValues), next, ir.TypeOptions{}) {
				if !ir.Equal(next[name], value) {
					return false
				}
			}
			return true
		},
		genIndexes(), gen.SliceOf(gen.AlphaString()), genIndexes(), gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
