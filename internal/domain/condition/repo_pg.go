package condition

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medref/medref/internal/jsonlist"
	"github.com/medref/medref/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cols = `id, name, description, symptoms, treatments, specialty_id, version, created_at, updated_at`

func scanCondition(row pgx.Row) (*Condition, error) {
	var c Condition
	var symptoms, treatments *string
	err := row.Scan(&c.ID, &c.Name, &c.Description, &symptoms, &treatments,
		&c.SpecialtyID, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if db.NotFound(err) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	c.Symptoms = decodeList(symptoms)
	c.Treatments = decodeList(treatments)
	return &c, nil
}

func decodeList(s *string) []string {
	if s == nil {
		return []string{}
	}
	return jsonlist.Decode(*s)
}

func (r *repoPG) Create(ctx context.Context, c *Condition) error {
	c.ID = uuid.New()
	if c.Version == 0 {
		c.Version = 1
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO condition (id, name, description, symptoms, treatments, specialty_id, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Description, jsonlist.Encode(c.Symptoms), jsonlist.Encode(c.Treatments),
		c.SpecialtyID, c.Version)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Condition, error) {
	return scanCondition(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM condition WHERE id = $1`, id))
}

func (r *repoPG) GetByName(ctx context.Context, name string) (*Condition, error) {
	return scanCondition(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM condition WHERE LOWER(name) = LOWER($1)`, name))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Condition, int, error) {
	return r.listWhere(ctx, ``, nil, limit, offset)
}

func (r *repoPG) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, limit, offset int) ([]*Condition, int, error) {
	return r.listWhere(ctx, `WHERE specialty_id = $1`, []interface{}{specialtyID}, limit, offset)
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Condition, int, error) {
	pattern := "%" + query + "%"
	return r.listWhere(ctx, `WHERE name ILIKE $1 OR description ILIKE $1`, []interface{}{pattern}, limit, offset)
}

func (r *repoPG) listWhere(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Condition, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM condition `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM condition %s ORDER BY name LIMIT $%d OFFSET $%d`, cols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Condition
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, c *Condition) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE condition SET name=$2, description=$3, symptoms=$4, treatments=$5,
			specialty_id=$6, version=$7, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Description, jsonlist.Encode(c.Symptoms), jsonlist.Encode(c.Treatments),
		c.SpecialtyID, c.Version)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM condition WHERE id = $1`, id)
	return err
}

func (r *repoPG) LinkMedication(ctx context.Context, conditionID, medicationID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO condition_medications (condition_id, medication_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		conditionID, medicationID)
	return err
}

func (r *repoPG) MedicationIDs(ctx context.Context, conditionID uuid.UUID) ([]uuid.UUID, error) {
	return r.edgeIDs(ctx, `SELECT medication_id FROM condition_medications WHERE condition_id = $1`, conditionID)
}

func (r *repoPG) LinkReference(ctx context.Context, conditionID, referenceID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO condition_references (condition_id, reference_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		conditionID, referenceID)
	return err
}

func (r *repoPG) ReferenceIDs(ctx context.Context, conditionID uuid.UUID) ([]uuid.UUID, error) {
	return r.edgeIDs(ctx, `SELECT reference_id FROM condition_references WHERE condition_id = $1`, conditionID)
}

func (r *repoPG) edgeIDs(ctx context.Context, query string, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var i uuid.UUID
		if err := rows.Scan(&i); err != nil {
			return nil, err
		}
		ids = append(ids, i)
	}
	return ids, rows.Err()
}
