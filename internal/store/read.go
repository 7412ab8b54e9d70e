package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/journalized/internal/ir"
)

const journalColumns = `seq, id, entity_type, entity_id, version, details, author, notes`

// ReadEntity returns the stored snapshot for ref.
// Returns ErrEntityNotFound if it does not exist.
func (s *Store) ReadEntity(ctx context.Context, ref ir.EntityRef) (ir.Entity, error) {
	return readEntity(ctx, s.db, s.dialect, ref, false)
}

// ReadEntity reads ref inside the transaction.
func (t *Tx) ReadEntity(ctx context.Context, ref ir.EntityRef) (ir.Entity, error) {
	return readEntity(ctx, t.tx, t.dialect, ref, false)
}

// ReadEntityForUpdate reads ref and, on dialects with row locks, holds the
// row lock until the transaction ends. SQLite transactions already hold the
// database write lock from BEGIN IMMEDIATE.
func (t *Tx) ReadEntityForUpdate(ctx context.Context, ref ir.EntityRef) (ir.Entity, error) {
	return readEntity(ctx, t.tx, t.dialect, ref, true)
}

func readEntity(ctx context.Context, q querier, d dialect, ref ir.EntityRef, lock bool) (ir.Entity, error) {
	query := `
		SELECT attributes FROM entities
		WHERE entity_type = ? AND entity_id = ?`
	if lock {
		query += d.forUpdate
	}

	var attrs string
	err := q.QueryRowContext(ctx, d.rebind(query), ref.Type, ref.ID).Scan(&attrs)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Entity{}, fmt.Errorf("read entity %s: %w", ref, ErrEntityNotFound)
	}
	if err != nil {
		return ir.Entity{}, fmt.Errorf("read entity: %w", err)
	}

	obj, err := unmarshalObject(attrs)
	if err != nil {
		return ir.Entity{}, fmt.Errorf("read entity %s: %w", ref, err)
	}
	return ir.Entity{Ref: ref, Attributes: obj}, nil
}

// ListEntities returns the ids of all stored entities of one type, sorted.
func (s *Store) ListEntities(ctx context.Context, entityType string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
		SELECT entity_id FROM entities
		WHERE entity_type = ?
		ORDER BY entity_id ASC
	`), entityType)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan entity id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return ids, nil
}

// ListFor returns every journal of ref ordered by version ascending.
// Returns an empty slice (not nil) if the entity has no journals.
func (s *Store) ListFor(ctx context.Context, ref ir.EntityRef) ([]ir.Journal, error) {
	return s.ListForAfter(ctx, ref, 0, 0)
}

// ListForAfter returns journals of ref with version > afterVersion, ordered
// by version ascending. limit <= 0 means no limit. Passing the last version
// seen resumes a previous read.
func (s *Store) ListForAfter(ctx context.Context, ref ir.EntityRef, afterVersion int64, limit int) ([]ir.Journal, error) {
	return listFor(ctx, s.db, s.dialect, ref, afterVersion, limit)
}

// ListFor returns every journal of ref as seen inside the transaction.
func (t *Tx) ListFor(ctx context.Context, ref ir.EntityRef) ([]ir.Journal, error) {
	return listFor(ctx, t.tx, t.dialect, ref, 0, 0)
}

func listFor(ctx context.Context, q querier, d dialect, ref ir.EntityRef, afterVersion int64, limit int) ([]ir.Journal, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journals
		WHERE entity_type = ? AND entity_id = ? AND version > ?
		ORDER BY version ASC`
	args := []any{ref.Type, ref.ID, afterVersion}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, d.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query journals: %w", err)
	}
	defer rows.Close()

	journals := []ir.Journal{}
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		journals = append(journals, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journals: %w", err)
	}
	return journals, nil
}

// CountFor returns the number of journals recorded for ref.
func (s *Store) CountFor(ctx context.Context, ref ir.EntityRef) (int, error) {
	return countFor(ctx, s.db, s.dialect, ref)
}

// CountFor counts journals of ref inside the transaction.
func (t *Tx) CountFor(ctx context.Context, ref ir.EntityRef) (int, error) {
	return countFor(ctx, t.tx, t.dialect, ref)
}

func countFor(ctx context.Context, q querier, d dialect, ref ir.EntityRef) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, d.rebind(`
		SELECT COUNT(*) FROM journals
		WHERE entity_type = ? AND entity_id = ?
	`), ref.Type, ref.ID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count journals: %w", err)
	}
	return count, nil
}

// LastFor returns the most recent journal of ref.
// Returns ErrNoJournals if none exist.
func (s *Store) LastFor(ctx context.Context, ref ir.EntityRef) (ir.Journal, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
		SELECT `+journalColumns+`
		FROM journals
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY version DESC
		LIMIT 1
	`), ref.Type, ref.ID)
	if err != nil {
		return ir.Journal{}, fmt.Errorf("query last journal: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return ir.Journal{}, fmt.Errorf("query last journal: %w", err)
		}
		return ir.Journal{}, fmt.Errorf("last journal %s: %w", ref, ErrNoJournals)
	}
	return scanJournal(rows)
}

// ReadJournal retrieves a single journal by its content-addressed id.
// Returns ErrJournalNotFound if it does not exist.
func (s *Store) ReadJournal(ctx context.Context, id string) (ir.Journal, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
		SELECT `+journalColumns+`
		FROM journals
		WHERE id = ?
	`), id)
	if err != nil {
		return ir.Journal{}, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return ir.Journal{}, fmt.Errorf("query journal: %w", err)
		}
		return ir.Journal{}, fmt.Errorf("read journal %s: %w", id, ErrJournalNotFound)
	}
	return scanJournal(rows)
}

// ReadAllJournals returns every journal in store-wide insertion order.
func (s *Store) ReadAllJournals(ctx context.Context) ([]ir.Journal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+journalColumns+`
		FROM journals
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all journals: %w", err)
	}
	defer rows.Close()

	journals := []ir.Journal{}
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		journals = append(journals, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journals: %w", err)
	}
	return journals, nil
}

func lastVersion(ctx context.Context, q querier, d dialect, ref ir.EntityRef) (int64, error) {
	var v int64
	err := q.QueryRowContext(ctx, d.rebind(`
		SELECT COALESCE(MAX(version), 0) FROM journals
		WHERE entity_type = ? AND entity_id = ?
	`), ref.Type, ref.ID).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("last version: %w", err)
	}
	return v, nil
}

// scanJournal scans a row selected with journalColumns.
func scanJournal(rows *sql.Rows) (ir.Journal, error) {
	var j ir.Journal
	var details string

	if err := rows.Scan(
		&j.Seq, &j.ID, &j.EntityType, &j.EntityID, &j.Version,
		&details, &j.Author, &j.Notes,
	); err != nil {
		return ir.Journal{}, fmt.Errorf("scan journal: %w", err)
	}

	obj, err := unmarshalObject(details)
	if err != nil {
		return ir.Journal{}, fmt.Errorf("journal %s: %w", j.ID, err)
	}
	j.Details = obj
	return j, nil
}
