package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/journalized/internal/ir"
	"github.com/roach88/journalized/internal/store"
)

// Writer appends journals. *store.Tx implements it.
type Writer interface {
	AppendJournal(ctx context.Context, ref ir.EntityRef, details ir.Object, meta ir.JournalMeta) (ir.Journal, error)
}

// RecordIfChanged appends a journal for ref when next differs from prev in at
// least one tracked attribute. Run it inside the transaction that writes the
// entity so both commit or roll back together.
//
// Returns recorded=false and performs no write when nothing tracked changed.
func RecordIfChanged(
	ctx context.Context,
	w Writer,
	ref ir.EntityRef,
	prev, next ir.Object,
	opts ir.TypeOptions,
	meta ir.JournalMeta,
) (j ir.Journal, recorded bool, err error) {
	details := Changes(prev, next, opts)
	if len(details) == 0 {
		return ir.Journal{}, false, nil
	}

	j, err = w.AppendJournal(ctx, ref, details, meta)
	if err != nil {
		return ir.Journal{}, false, fmt.Errorf("record journal: %w", err)
	}
	return j, true, nil
}

// SaveResult describes the outcome of a Recorder write.
type SaveResult struct {
	// Entity is the snapshot after the write.
	Entity ir.Entity

	// Written is true when the entity row was inserted or updated.
	Written bool

	// Recorded is true when a journal was appended; Journal is then set.
	Recorded bool
	Journal  ir.Journal
}

// Recorder writes entities and records their journals atomically.
type Recorder struct {
	store    *store.Store
	registry *Registry
	logger   *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used for debug output. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = l
	}
}

// NewRecorder creates a recorder over st using the options in reg.
func NewRecorder(st *store.Store, reg *Registry, opts ...Option) *Recorder {
	r := &Recorder{
		store:    st,
		registry: reg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry the recorder reads options from.
func (r *Recorder) Registry() *Registry {
	return r.registry
}

// Create stores a new entity. No journal is written unless the type has
// JournalOnCreate set, in which case version 1 holds every tracked attribute.
func (r *Recorder) Create(ctx context.Context, e ir.Entity, meta ir.JournalMeta) (SaveResult, error) {
	opts, err := r.registry.Options(e.Ref.Type)
	if err != nil {
		return SaveResult{}, fmt.Errorf("create %s: %w", e.Ref, err)
	}
	if e.Attributes == nil {
		e.Attributes = ir.Object{}
	}

	res := SaveResult{Entity: e}
	err = r.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.CreateEntity(ctx, e); err != nil {
			return err
		}
		res.Written = true

		if !opts.JournalOnCreate {
			return nil
		}
		res.Journal, res.Recorded, err = RecordIfChanged(ctx, tx, e.Ref, ir.Object{}, e.Attributes, opts, meta)
		return err
	})
	if err != nil {
		return SaveResult{}, fmt.Errorf("create %s: %w", e.Ref, err)
	}

	r.logResult("create", e.Ref, res)
	return res, nil
}

// Save merges patch over the stored snapshot of ref and records a journal for
// the tracked attributes that changed. An empty or identical patch writes
// nothing.
func (r *Recorder) Save(ctx context.Context, ref ir.EntityRef, patch ir.Object, meta ir.JournalMeta) (SaveResult, error) {
	return r.save(ctx, ref, meta, func(prev ir.Object) ir.Object {
		return prev.Merge(patch)
	})
}

// Replace stores attributes as the complete new snapshot of ref. Attributes
// absent from the new snapshot are dropped from the entity without a journal
// entry.
func (r *Recorder) Replace(ctx context.Context, ref ir.EntityRef, attributes ir.Object, meta ir.JournalMeta) (SaveResult, error) {
	return r.save(ctx, ref, meta, func(ir.Object) ir.Object {
		return attributes.Clone()
	})
}

func (r *Recorder) save(ctx context.Context, ref ir.EntityRef, meta ir.JournalMeta, apply func(prev ir.Object) ir.Object) (SaveResult, error) {
	opts, err := r.registry.Options(ref.Type)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save %s: %w", ref, err)
	}

	var res SaveResult
	err = r.store.WithTx(ctx, func(tx *store.Tx) error {
		current, err := tx.ReadEntityForUpdate(ctx, ref)
		if err != nil {
			return err
		}

		next := apply(current.Attributes)
		res.Entity = ir.Entity{Ref: ref, Attributes: next}
		if !Dirty(current.Attributes, next) {
			return nil
		}

		if err := tx.UpdateEntity(ctx, ref, next); err != nil {
			return err
		}
		res.Written = true

		res.Journal, res.Recorded, err = RecordIfChanged(ctx, tx, ref, current.Attributes, next, opts, meta)
		return err
	})
	if err != nil {
		return SaveResult{}, fmt.Errorf("save %s: %w", ref, err)
	}

	r.logResult("save", ref, res)
	return res, nil
}

func (r *Recorder) logResult(op string, ref ir.EntityRef, res SaveResult) {
	if !res.Recorded {
		r.logger.Debug("no tracked changes", "op", op, "entity", ref.String(), "written", res.Written)
		return
	}
	r.logger.Debug("journal recorded",
		"op", op,
		"entity", ref.String(),
		"version", res.Journal.Version,
		"details", res.Journal.DetailKeys(),
	)
}
