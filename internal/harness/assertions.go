package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/journalized/internal/ir"
	"github.com/roach88/journalized/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes the entity's journals to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Entity   string       // Entity the assertion inspected
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Journals []ir.Journal // Journals of the entity for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s on %s\n", e.Type, e.Entity)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nJournals:\n")
	if len(e.Journals) == 0 {
		fmt.Fprintf(&buf, "  (none)\n")
	}
	for _, j := range e.Journals {
		details, err := ir.MarshalCanonical(j.Details)
		if err != nil {
			details = []byte(err.Error())
		}
		fmt.Fprintf(&buf, "  v%d %s\n", j.Version, details)
	}
	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates every assertion and returns failure messages.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(a Assertion, actx *AssertionContext) error {
	ref, err := ir.ParseEntityRef(a.Entity)
	if err != nil {
		return err
	}
	journals, err := actx.Store.ListFor(actx.Ctx, ref)
	if err != nil {
		return fmt.Errorf("list journals: %w", err)
	}

	switch a.Type {
	case AssertJournalCount:
		return assertJournalCount(journals, a)
	case AssertDetailKeys:
		return assertDetailKeys(journals, a)
	case AssertDetailsExclude:
		return assertDetailsExclude(journals, a)
	case AssertDetailsEqual:
		return assertDetailsEqual(journals, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertJournalCount(journals []ir.Journal, a Assertion) error {
	if len(journals) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertJournalCount,
		Entity:   a.Entity,
		Expected: fmt.Sprintf("%d journal(s)", a.Count),
		Actual:   fmt.Sprintf("%d journal(s)", len(journals)),
		Journals: journals,
	}
}

// assertDetailKeys checks the exact set of changed attributes of one journal.
func assertDetailKeys(journals []ir.Journal, a Assertion) error {
	j, err := selectJournal(journals, a)
	if err != nil {
		return err
	}

	want := slices.Clone(a.Keys)
	slices.Sort(want)
	got := j.DetailKeys()
	slices.Sort(got)
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertDetailKeys,
		Entity:   a.Entity,
		Expected: fmt.Sprintf("v%d keys %v", j.Version, want),
		Actual:   fmt.Sprintf("v%d keys %v", j.Version, got),
		Journals: journals,
	}
}

// assertDetailsExclude checks that no journal mentions any of the keys.
func assertDetailsExclude(journals []ir.Journal, a Assertion) error {
	for _, j := range journals {
		for _, key := range a.Keys {
			if _, ok := j.Details[key]; ok {
				return &AssertionError{
					Type:     AssertDetailsExclude,
					Entity:   a.Entity,
					Expected: fmt.Sprintf("no journal mentions %v", a.Keys),
					Actual:   fmt.Sprintf("v%d mentions %q", j.Version, key),
					Journals: journals,
				}
			}
		}
	}
	return nil
}

func assertDetailsEqual(journals []ir.Journal, a Assertion) error {
	j, err := selectJournal(journals, a)
	if err != nil {
		return err
	}

	want, err := ir.ObjectFromMap(a.Details)
	if err != nil {
		return fmt.Errorf("details: %w", err)
	}
	if ir.Equal(want, j.Details) {
		return nil
	}

	wantJSON, _ := ir.MarshalCanonical(want)
	gotJSON, _ := ir.MarshalCanonical(j.Details)
	return &AssertionError{
		Type:     AssertDetailsEqual,
		Entity:   a.Entity,
		Expected: fmt.Sprintf("v%d details %s", j.Version, wantJSON),
		Actual:   fmt.Sprintf("v%d details %s", j.Version, gotJSON),
		Journals: journals,
	}
}

// selectJournal returns the journal at a.Version, or the latest when 0.
func selectJournal(journals []ir.Journal, a Assertion) (ir.Journal, error) {
	if len(journals) == 0 {
		return ir.Journal{}, &AssertionError{
			Type:     a.Type,
			Entity:   a.Entity,
			Expected: "at least one journal",
			Actual:   "no journals",
		}
	}
	if a.Version == 0 {
		return journals[len(journals)-1], nil
	}
	for _, j := range journals {
		if j.Version == a.Version {
			return j, nil
		}
	}
	return ir.Journal{}, &AssertionError{
		Type:     a.Type,
		Entity:   a.Entity,
		Expected: fmt.Sprintf("journal version %d", a.Version),
		Actual:   fmt.Sprintf("latest version %d", journals[len(journals)-1].Version),
		Journals: journals,
	}
}
