package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/journalized/internal/ir"
)

// Snapshot builds the canonical golden document for a scenario result:
// the step trace plus every stored journal. Journal ids and seq numbers are
// left out so the snapshot only changes when journaling behavior does.
func Snapshot(name string, result *Result) ir.Object {
	trace := make(ir.Array, len(result.Trace))
	for i, ev := range result.Trace {
		obj := ir.Object{
			"step":     ir.Int(ev.Step),
			"op":       ir.String(ev.Op),
			"entity":   ir.String(ev.Entity),
			"written":  ir.Bool(ev.Written),
			"recorded": ir.Bool(ev.Recorded),
		}
		if ev.Recorded {
			obj["version"] = ir.Int(ev.Version)
			obj["details"] = ev.Details
		}
		if ev.Error != "" {
			obj["error"] = ir.String(ev.Error)
		}
		trace[i] = obj
	}

	journals := make(ir.Array, len(result.Journals))
	for i, j := range result.Journals {
		obj := ir.Object{
			"entity":  ir.String(j.Ref().String()),
			"version": ir.Int(j.Version),
			"details": j.Details,
		}
		if j.Author != "" {
			obj["author"] = ir.String(j.Author)
		}
		if j.Notes != "" {
			obj["notes"] = ir.String(j.Notes)
		}
		journals[i] = obj
	}

	return ir.Object{
		"scenario_name": ir.String(name),
		"trace":         trace,
		"journals":      journals,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(Snapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
