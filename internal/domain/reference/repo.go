package reference

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, ref *Reference) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reference, error)
	GetByTitle(ctx context.Context, title string) (*Reference, error)
	List(ctx context.Context, limit, offset int) ([]*Reference, int, error)
	ListByCondition(ctx context.Context, conditionID uuid.UUID) ([]*Reference, error)
	ListByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Reference, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Reference, int, error)
	Update(ctx context.Context, ref *Reference) error
	Delete(ctx context.Context, id uuid.UUID) error
}
