package medication

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	GetByName(ctx context.Context, name string) (*Medication, error)
	List(ctx context.Context, limit, offset int) ([]*Medication, int, error)
	ListAll(ctx context.Context) ([]*Medication, error)
	ListByCondition(ctx context.Context, conditionID uuid.UUID) ([]*Medication, error)
	ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, limit, offset int) ([]*Medication, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, id uuid.UUID) error

	LinkSpecialty(ctx context.Context, medicationID, specialtyID uuid.UUID) error
	LinkReference(ctx context.Context, medicationID, referenceID uuid.UUID) error

	// Derived relationship edges.
	ClearRelationships(ctx context.Context) error
	InsertRelationship(ctx context.Context, rel *Relationship) error
	Relationships(ctx context.Context, medicationID uuid.UUID) ([]*Relationship, error)
	AllRelationships(ctx context.Context) ([]*Relationship, error)
}
