package specialty

import (
	"context"

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

const cols = `id, name, description, created_at, updated_at`

func scanSpecialty(row pgx.Row) (*Specialty, error) {
	var s Specialty
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if db.NotFound(err) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *Specialty) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO specialty (id, name, description)
		VALUES ($1, $2, $3)`,
		s.ID, s.Name, s.Description)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Specialty, error) {
	return scanSpecialty(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM specialty WHERE id = $1`, id))
}

func (r *repoPG) GetByName(ctx context.Context, name string) (*Specialty, error) {
	return scanSpecialty(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM specialty WHERE LOWER(name) = LOWER($1)`, name))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Specialty, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM specialty`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM specialty ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Specialty
	for rows.Next() {
		s, err := scanSpecialty(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, s *Specialty) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE specialty SET name=$2, description=$3, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Description)
	return err
}
