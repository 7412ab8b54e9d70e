package config

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/journalized/internal/ir"
)

// TypeConfig is one compiled journaled type.
type TypeConfig struct {
	Name    string
	Options ir.TypeOptions
}

var knownFields = map[string]bool{
	"only":              true,
	"except":            true,
	"journal_on_create": true,
}

// CompileType parses a journaled type block into TypeOptions.
//
// The value should be the type struct itself, e.g. the result of
// v.LookupPath(cue.ParsePath("journaled.User")). A missing only stays nil
// (track everything); an explicit empty list tracks nothing.
func CompileType(v cue.Value) (TypeConfig, error) {
	if err := v.Err(); err != nil {
		return TypeConfig{}, formatCUEError("type", err)
	}

	tc := TypeConfig{}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		tc.Name = labels[len(labels)-1].String()
	}

	if v.IncompleteKind() != cue.StructKind {
		return TypeConfig{}, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("journaled type %q must be a struct", tc.Name),
			Pos:     v.Pos(),
		}
	}

	iter, err := v.Fields()
	if err != nil {
		return TypeConfig{}, formatCUEError("type", err)
	}
	for iter.Next() {
		if !knownFields[iter.Selector().String()] {
			return TypeConfig{}, &CompileError{
				Field:   "field",
				Message: fmt.Sprintf("unknown field %q in journaled type %q", iter.Selector().String(), tc.Name),
				Pos:     iter.Value().Pos(),
			}
		}
	}

	tc.Options.Only, err = stringList(v, "only")
	if err != nil {
		return TypeConfig{}, err
	}
	tc.Options.Except, err = stringList(v, "except")
	if err != nil {
		return TypeConfig{}, err
	}

	onCreate := v.LookupPath(cue.ParsePath("journal_on_create"))
	if onCreate.Exists() {
		b, err := onCreate.Bool()
		if err != nil {
			return TypeConfig{}, &CompileError{
				Field:   "journal_on_create",
				Message: "journal_on_create must be a bool",
				Pos:     onCreate.Pos(),
			}
		}
		tc.Options.JournalOnCreate = b
	}

	return tc, nil
}

// stringList reads an optional list of attribute names.
// Returns nil when the field is absent and a non-nil slice otherwise.
func stringList(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}

	iter, err := fv.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: field + " must be a list of attribute names",
			Pos:     fv.Pos(),
		}
	}

	names := []string{}
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   field,
				Message: field + " entries must be strings",
				Pos:     iter.Value().Pos(),
			}
		}
		names = append(names, name)
	}
	return names, nil
}

// Compile extracts every journaled.<Type> block from a built CUE value.
// In fail-fast mode it stops at the first invalid type.
func Compile(v cue.Value, mode LoadMode) ([]TypeConfig, []error) {
	journaled := v.LookupPath(cue.ParsePath("journaled"))
	if !journaled.Exists() {
		return nil, []error{&CompileError{
			Field:   "journaled",
			Message: "no journaled types declared",
			Pos:     v.Pos(),
		}}
	}

	iter, err := journaled.Fields()
	if err != nil {
		return nil, []error{formatCUEError("journaled", err)}
	}

	var types []TypeConfig
	var errs []error
	for iter.Next() {
		tc, err := CompileType(iter.Value())
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return types, errs
			}
			continue
		}
		types = append(types, tc)
	}

	if len(types) == 0 && len(errs) == 0 {
		errs = append(errs, &CompileError{
			Field:   "journaled",
			Message: "no journaled types declared",
			Pos:     journaled.Pos(),
		})
	}
	return types, errs
}
