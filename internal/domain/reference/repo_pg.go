package reference

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

const cols = `id, title, url, authors, publication, year, doi, created_at, updated_at`

func scanReference(row pgx.Row) (*Reference, error) {
	var ref Reference
	err := row.Scan(&ref.ID, &ref.Title, &ref.URL, &ref.Authors, &ref.Publication,
		&ref.Year, &ref.DOI, &ref.CreatedAt, &ref.UpdatedAt)
	if err != nil {
		if db.NotFound(err) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}

func (r *repoPG) Create(ctx context.Context, ref *Reference) error {
	ref.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO reference (id, title, url, authors, publication, year, doi)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ref.ID, ref.Title, ref.URL, ref.Authors, ref.Publication, ref.Year, ref.DOI)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Reference, error) {
	return scanReference(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM reference WHERE id = $1`, id))
}

func (r *repoPG) GetByTitle(ctx context.Context, title string) (*Reference, error) {
	return scanReference(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM reference WHERE LOWER(title) = LOWER($1)`, title))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Reference, int, error) {
	return r.listWhere(ctx, ``, nil, limit, offset)
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Reference, int, error) {
	pattern := "%" + query + "%"
	return r.listWhere(ctx, `WHERE title ILIKE $1 OR authors ILIKE $1 OR publication ILIKE $1`,
		[]interface{}{pattern}, limit, offset)
}

func (r *repoPG) listWhere(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Reference, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM reference `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM reference %s ORDER BY title LIMIT $%d OFFSET $%d`, cols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var refs []*Reference
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, 0, err
		}
		refs = append(refs, ref)
	}
	return refs, total, rows.Err()
}

func (r *repoPG) ListByCondition(ctx context.Context, conditionID uuid.UUID) ([]*Reference, error) {
	return r.listJoined(ctx, `
		SELECT `+qualified("r")+` FROM reference r
		JOIN condition_references cr ON cr.reference_id = r.id
		WHERE cr.condition_id = $1
		ORDER BY r.title`, conditionID)
}

func (r *repoPG) ListByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Reference, error) {
	return r.listJoined(ctx, `
		SELECT `+qualified("r")+` FROM reference r
		JOIN medication_references mr ON mr.reference_id = r.id
		WHERE mr.medication_id = $1
		ORDER BY r.title`, medicationID)
}

func (r *repoPG) listJoined(ctx context.Context, query string, id uuid.UUID) ([]*Reference, error) {
	rows, err := r.conn(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []*Reference
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func qualified(prefix string) string {
	return prefix + `.id, ` + prefix + `.title, ` + prefix + `.url, ` + prefix + `.authors, ` +
		prefix + `.publication, ` + prefix + `.year, ` + prefix + `.doi, ` +
		prefix + `.created_at, ` + prefix + `.updated_at`
}

func (r *repoPG) Update(ctx context.Context, ref *Reference) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE reference
		SET title = $2, url = $3, authors = $4, publication = $5, year = $6, doi = $7, updated_at = NOW()
		WHERE id = $1`,
		ref.ID, ref.Title, ref.URL, ref.Authors, ref.Publication, ref.Year, ref.DOI)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM reference WHERE id = $1`, id)
	return err
}
