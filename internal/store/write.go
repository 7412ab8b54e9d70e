package store

import (
	"context"
	"fmt"

	"github.com/roach88/journalized/internal/ir"
)

// CreateEntity inserts a new entity snapshot.
// Returns ErrEntityExists if the (type, id) pair is already stored.
func (t *Tx) CreateEntity(ctx context.Context, e ir.Entity) error {
	attrs, err := marshalObject(e.Attributes)
	if err != nil {
		return fmt.Errorf("create entity: %w", err)
	}

	_, err = t.tx.ExecContext(ctx, t.dialect.rebind(`
		INSERT INTO entities (entity_type, entity_id, attributes)
		VALUES (?, ?, ?)
	`), e.Ref.Type, e.Ref.ID, attrs)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create entity %s: %w", e.Ref, ErrEntityExists)
		}
		return fmt.Errorf("create entity: %w", err)
	}
	return nil
}

// UpdateEntity replaces the stored attribute snapshot of an existing entity.
// Returns ErrEntityNotFound if no row matched.
func (t *Tx) UpdateEntity(ctx context.Context, ref ir.EntityRef, attributes ir.Object) error {
	attrs, err := marshalObject(attributes)
	if err != nil {
		return fmt.Errorf("update entity: %w", err)
	}

	result, err := t.tx.ExecContext(ctx, t.dialect.rebind(`
		UPDATE entities SET attributes = ?
		WHERE entity_type = ? AND entity_id = ?
	`), attrs, ref.Type, ref.ID)
	if err != nil {
		return fmt.Errorf("update entity: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entity: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update entity %s: %w", ref, ErrEntityNotFound)
	}
	return nil
}

// AppendJournal appends the next journal for ref with the given details.
//
// The version is the entity's current max version + 1 (1 for the first
// journal). A concurrent writer that claimed the same version causes
// ErrVersionConflict; the surrounding transaction must then be retried.
//
// AppendJournal does not decide whether a journal is warranted - callers
// pass non-empty details (see journal.RecordIfChanged).
func (t *Tx) AppendJournal(ctx context.Context, ref ir.EntityRef, details ir.Object, meta ir.JournalMeta) (ir.Journal, error) {
	last, err := lastVersion(ctx, t.tx, t.dialect, ref)
	if err != nil {
		return ir.Journal{}, fmt.Errorf("append journal: %w", err)
	}

	j := ir.Journal{
		EntityType: ref.Type,
		EntityID:   ref.ID,
		Version:    last + 1,
		Details:    details,
		Author:     meta.Author,
		Notes:      meta.Notes,
	}

	j.ID, err = ir.JournalID(ref, j.Version, details)
	if err != nil {
		return ir.Journal{}, fmt.Errorf("append journal: %w", err)
	}

	detailsJSON, err := marshalObject(details)
	if err != nil {
		return ir.Journal{}, fmt.Errorf("append journal: %w", err)
	}

	err = t.tx.QueryRowContext(ctx, t.dialect.rebind(`
		INSERT INTO journals
		(id, entity_type, entity_id, version, details, author, notes, format_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING seq
	`),
		j.ID,
		j.EntityType,
		j.EntityID,
		j.Version,
		detailsJSON,
		j.Author,
		j.Notes,
		ir.FormatVersion,
	).Scan(&j.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return ir.Journal{}, fmt.Errorf("append journal %s v%d: %w", ref, j.Version, ErrVersionConflict)
		}
		return ir.Journal{}, fmt.Errorf("append journal: %w", err)
	}

	return j, nil
}

// Append appends a journal in its own transaction.
func (s *Store) Append(ctx context.Context, ref ir.EntityRef, details ir.Object, meta ir.JournalMeta) (ir.Journal, error) {
	var j ir.Journal
	err := s.WithTx(ctx, func(tx *Tx) error {
		var err error
		j, err = tx.AppendJournal(ctx, ref, details, meta)
		return err
	})
	return j, err
}

// CreateEntity inserts a new entity in its own transaction.
func (s *Store) CreateEntity(ctx context.Context, e ir.Entity) error {
	return s.WithTx(ctx, func(tx *Tx) error {
		return tx.CreateEntity(ctx, e)
	})
}
