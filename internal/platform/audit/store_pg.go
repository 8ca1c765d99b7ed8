package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medref/medref/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type storePG struct{ pool *pgxpool.Pool }

func NewStorePG(pool *pgxpool.Pool) Store {
	return &storePG{pool: pool}
}

func (s *storePG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

// Each tracked kind has its own history table with an identical shape.
func tableFor(kind Kind) (string, error) {
	switch kind {
	case KindCondition:
		return "condition_history", nil
	case KindMedication:
		return "medication_history", nil
	case KindGuideline:
		return "guideline_history", nil
	}
	return "", fmt.Errorf("unknown history kind: %s", kind)
}

const entryCols = `id, entity_id, version, change_type, changed_by, changed_at, snapshot`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.EntityID, &e.Version, &e.ChangeType, &e.ChangedBy, &e.ChangedAt, &e.Snapshot)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *storePG) Append(ctx context.Context, kind Kind, e *Entry) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	e.ID = uuid.New()
	_, err = s.conn(ctx).Exec(ctx, `
		INSERT INTO `+table+` (id, entity_id, version, change_type, changed_by, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.EntityID, e.Version, e.ChangeType, e.ChangedBy, e.Snapshot)
	if err != nil {
		return fmt.Errorf("append %s history: %w", kind, err)
	}
	return nil
}

func (s *storePG) List(ctx context.Context, kind Kind, entityID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+table+` WHERE entity_id = $1`, entityID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.conn(ctx).Query(ctx, `SELECT `+entryCols+` FROM `+table+`
		WHERE entity_id = $1 ORDER BY version DESC LIMIT $2 OFFSET $3`, entityID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (s *storePG) GetVersion(ctx context.Context, kind Kind, entityID uuid.UUID, version int) (*Entry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	// A delete row shares the final version number; prefer the content row.
	e, err := scanEntry(s.conn(ctx).QueryRow(ctx, `SELECT `+entryCols+` FROM `+table+`
		WHERE entity_id = $1 AND version = $2 ORDER BY changed_at LIMIT 1`, entityID, version))
	if db.NotFound(err) {
		return nil, db.ErrNotFound
	}
	return e, err
}
