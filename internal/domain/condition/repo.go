package condition

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Condition) error
	GetByID(ctx context.Context, id uuid.UUID) (*Condition, error)
	GetByName(ctx context.Context, name string) (*Condition, error)
	List(ctx context.Context, limit, offset int) ([]*Condition, int, error)
	ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, limit, offset int) ([]*Condition, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Condition, int, error)
	Update(ctx context.Context, c *Condition) error
	Delete(ctx context.Context, id uuid.UUID) error

	// condition_medications and condition_references edges. Linking an
	// already-linked pair is a no-op.
	LinkMedication(ctx context.Context, conditionID, medicationID uuid.UUID) error
	MedicationIDs(ctx context.Context, conditionID uuid.UUID) ([]uuid.UUID, error)
	LinkReference(ctx context.Context, conditionID, referenceID uuid.UUID) error
	ReferenceIDs(ctx context.Context, conditionID uuid.UUID) ([]uuid.UUID, error)
}
