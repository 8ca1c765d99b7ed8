package medication

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

const cols = `id, name, class_name, description, uses, side_effects, contraindications, dosing, version, created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	var uses, sideEffects, contraindications *string
	err := row.Scan(&m.ID, &m.Name, &m.ClassName, &m.Description,
		&uses, &sideEffects, &contraindications,
		&m.Dosing, &m.Version, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if db.NotFound(err) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	m.Uses = decodeList(uses)
	m.SideEffects = decodeList(sideEffects)
	m.Contraindications = decodeList(contraindications)
	return &m, nil
}

func decodeList(s *string) []string {
	if s == nil {
		return []string{}
	}
	return jsonlist.Decode(*s)
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	if m.Version == 0 {
		m.Version = 1
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication (id, name, class_name, description, uses, side_effects, contraindications, dosing, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.Name, m.ClassName, m.Description,
		jsonlist.Encode(m.Uses), jsonlist.Encode(m.SideEffects), jsonlist.Encode(m.Contraindications),
		m.Dosing, m.Version)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM medication WHERE id = $1`, id))
}

func (r *repoPG) GetByName(ctx context.Context, name string) (*Medication, error) {
	return scanMedication(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM medication WHERE LOWER(name) = LOWER($1)`, name))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return r.listWhere(ctx, `FROM medication`, nil, limit, offset)
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM medication ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) ListByCondition(ctx context.Context, conditionID uuid.UUID) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+qualified(`m.`)+` FROM medication m
		JOIN condition_medications cm ON cm.medication_id = m.id
		WHERE cm.condition_id = $1 ORDER BY m.name`, conditionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM medication_specialties WHERE specialty_id = $1`, specialtyID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+qualified(`m.`)+` FROM medication m
		JOIN medication_specialties ms ON ms.medication_id = m.id
		WHERE ms.specialty_id = $1 ORDER BY m.name LIMIT $2 OFFSET $3`, specialtyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collect(rows)
	return items, total, err
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error) {
	pattern := "%" + query + "%"
	return r.listWhere(ctx, `FROM medication WHERE name ILIKE $1 OR class_name ILIKE $1 OR description ILIKE $1`,
		[]interface{}{pattern}, limit, offset)
}

func (r *repoPG) listWhere(ctx context.Context, fromWhere string, args []interface{}, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) `+fromWhere, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s %s ORDER BY name LIMIT $%d OFFSET $%d`, cols, fromWhere, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collect(rows)
	return items, total, err
}

func collect(rows pgx.Rows) ([]*Medication, error) {
	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// qualified prefixes each column with a table alias for joined queries.
func qualified(prefix string) string {
	out := ""
	for i, c := range []string{"id", "name", "class_name", "description", "uses", "side_effects", "contraindications", "dosing", "version", "created_at", "updated_at"} {
		if i > 0 {
			out += ", "
		}
		out += prefix + c
	}
	return out
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET name=$2, class_name=$3, description=$4, uses=$5,
			side_effects=$6, contraindications=$7, dosing=$8, version=$9, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.ClassName, m.Description,
		jsonlist.Encode(m.Uses), jsonlist.Encode(m.SideEffects), jsonlist.Encode(m.Contraindications),
		m.Dosing, m.Version)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medication WHERE id = $1`, id)
	return err
}

func (r *repoPG) LinkSpecialty(ctx context.Context, medicationID, specialtyID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication_specialties (medication_id, specialty_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		medicationID, specialtyID)
	return err
}

func (r *repoPG) LinkReference(ctx context.Context, medicationID, referenceID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication_references (medication_id, reference_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		medicationID, referenceID)
	return err
}

func (r *repoPG) ClearRelationships(ctx context.Context) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medication_relationships`)
	return err
}

func (r *repoPG) InsertRelationship(ctx context.Context, rel *Relationship) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication_relationships (medication_id, related_medication_id, relationship_type)
		VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		rel.MedicationID, rel.RelatedMedicationID, rel.RelationshipType)
	return err
}

func (r *repoPG) Relationships(ctx context.Context, medicationID uuid.UUID) ([]*Relationship, error) {
	return r.relationshipsWhere(ctx, `WHERE medication_id = $1`, medicationID)
}

func (r *repoPG) AllRelationships(ctx context.Context) ([]*Relationship, error) {
	return r.relationshipsWhere(ctx, ``)
}

func (r *repoPG) relationshipsWhere(ctx context.Context, where string, args ...interface{}) ([]*Relationship, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT medication_id, related_medication_id, relationship_type
		FROM medication_relationships `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rels []*Relationship
	for rows.Next() {
		var rel Relationship
		if err := rows.Scan(&rel.MedicationID, &rel.RelatedMedicationID, &rel.RelationshipType); err != nil {
			return nil, err
		}
		rels = append(rels, &rel)
	}
	return rels, rows.Err()
}
