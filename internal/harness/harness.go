package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/journalized/internal/ir"
	"github.com/roach88/journalized/internal/journal"
	"github.com/roach88/journalized/internal/store"
)

// Harness executes scenario steps against one store.
type Harness struct {
	store    *store.Store
	recorder *journal.Recorder
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Register the declared types
// 3. Execute steps, checking step expectations
// 4. Evaluate assertions against the stored journals
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	reg := journal.NewRegistry()
	for name, ts := range scenario.Types {
		reg.Register(name, ts.Options())
	}

	h := &Harness{
		store:    st,
		recorder: journal.NewRecorder(st, reg, journal.WithLogger(logger)),
		logger:   logger,
	}

	ctx := context.Background()
	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	result.Journals, err = st.ReadAllJournals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read journals: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// executeSteps runs all steps in order.
//
// A step error is part of the scenario outcome, not a harness failure: it is
// traced and checked against the step's expect clause. Only malformed steps
// abort the run.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		ev, stepErr := h.executeStep(ctx, i, step)
		if stepErr != nil {
			ev.Error = stepErr.Error()
		}
		result.AddTrace(ev)

		for _, msg := range checkExpect(i, step, ev, stepErr) {
			result.AddError(msg)
		}

		h.logger.Info("step completed",
			"step", i,
			"op", step.Op,
			"entity", step.Entity,
			"written", ev.Written,
			"recorded", ev.Recorded,
			"error", ev.Error,
		)
	}
	return nil
}

func (h *Harness) executeStep(ctx context.Context, index int, step Step) (TraceEvent, error) {
	ev := TraceEvent{Step: index, Op: step.Op, Entity: step.Entity}
	reg := h.recorder.Registry()

	switch step.Op {
	case OpConfigure:
		return ev, reg.Set(step.Entity, step.Options.Options())
	case OpReset:
		return ev, reg.Reset(step.Entity)
	}

	ref, err := ir.ParseEntityRef(step.Entity)
	if err != nil {
		return ev, err
	}
	attrs, err := ir.ObjectFromMap(step.Attributes)
	if err != nil {
		return ev, fmt.Errorf("step %d attributes: %w", index, err)
	}
	meta := ir.JournalMeta{Author: step.Author, Notes: step.Notes}

	var res journal.SaveResult
	switch step.Op {
	case OpCreate:
		res, err = h.recorder.Create(ctx, ir.Entity{Ref: ref, Attributes: attrs}, meta)
	case OpSave:
		res, err = h.recorder.Save(ctx, ref, attrs, meta)
	case OpReplace:
		res, err = h.recorder.Replace(ctx, ref, attrs, meta)
	default:
		return ev, fmt.Errorf("unknown op %q", step.Op)
	}
	if err != nil {
		return ev, err
	}

	ev.Written = res.Written
	ev.Recorded = res.Recorded
	if res.Recorded {
		ev.Version = res.Journal.Version
		ev.Details = res.Journal.Details
	}
	return ev, nil
}

// checkExpect compares a step outcome with its expect clause.
func checkExpect(index int, step Step, ev TraceEvent, stepErr error) []string {
	var errs []string
	exp := step.Expect

	if stepErr != nil {
		if exp == nil || exp.Error == "" {
			return []string{fmt.Sprintf("step %d (%s %s): unexpected error: %v", index, step.Op, step.Entity, stepErr)}
		}
		if !strings.Contains(stepErr.Error(), exp.Error) {
			return []string{fmt.Sprintf("step %d (%s %s): error %q does not contain %q", index, step.Op, step.Entity, stepErr, exp.Error)}
		}
		return nil
	}
	if exp == nil {
		return nil
	}

	if exp.Error != "" {
		errs = append(errs, fmt.Sprintf("step %d (%s %s): expected error containing %q, got none", index, step.Op, step.Entity, exp.Error))
	}
	if exp.Written != nil && *exp.Written != ev.Written {
		errs = append(errs, fmt.Sprintf("step %d (%s %s): written = %t, expected %t", index, step.Op, step.Entity, ev.Written, *exp.Written))
	}
	if exp.Recorded != nil && *exp.Recorded != ev.Recorded {
		errs = append(errs, fmt.Sprintf("step %d (%s %s): recorded = %t, expected %t", index, step.Op, step.Entity, ev.Recorded, *exp.Recorded))
	}
	return errs
}
