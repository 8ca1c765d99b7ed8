package guideline

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

const cols = `id, title, organization, year, summary, url, specialty_id, version, created_at, updated_at`

func scanGuideline(row pgx.Row) (*Guideline, error) {
	var g Guideline
	err := row.Scan(&g.ID, &g.Title, &g.Organization, &g.Year, &g.Summary, &g.URL,
		&g.SpecialtyID, &g.Version, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if db.NotFound(err) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *repoPG) Create(ctx context.Context, g *Guideline) error {
	g.ID = uuid.New()
	if g.Version == 0 {
		g.Version = 1
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO guideline (id, title, organization, year, summary, url, specialty_id, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		g.ID, g.Title, g.Organization, g.Year, g.Summary, g.URL, g.SpecialtyID, g.Version)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Guideline, error) {
	return scanGuideline(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM guideline WHERE id = $1`, id))
}

func (r *repoPG) GetByTitle(ctx context.Context, title string) (*Guideline, error) {
	return scanGuideline(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM guideline WHERE LOWER(title) = LOWER($1)`, title))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Guideline, int, error) {
	return r.listWhere(ctx, ``, nil, limit, offset)
}

func (r *repoPG) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, limit, offset int) ([]*Guideline, int, error) {
	return r.listWhere(ctx, `WHERE specialty_id = $1`, []interface{}{specialtyID}, limit, offset)
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Guideline, int, error) {
	pattern := "%" + query + "%"
	return r.listWhere(ctx, `WHERE title ILIKE $1 OR organization ILIKE $1 OR summary ILIKE $1`,
		[]interface{}{pattern}, limit, offset)
}

func (r *repoPG) listWhere(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Guideline, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM guideline `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM guideline %s ORDER BY year DESC, title LIMIT $%d OFFSET $%d`, cols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var gs []*Guideline
	for rows.Next() {
		g, err := scanGuideline(rows)
		if err != nil {
			return nil, 0, err
		}
		gs = append(gs, g)
	}
	return gs, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, g *Guideline) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE guideline
		SET title = $2, organization = $3, year = $4, summary = $5, url = $6,
		    specialty_id = $7, version = $8, updated_at = NOW()
		WHERE id = $1`,
		g.ID, g.Title, g.Organization, g.Year, g.Summary, g.URL, g.SpecialtyID, g.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM guideline WHERE id = $1`, id)
	return err
}
