package guideline

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, g *Guideline) error
	GetByID(ctx context.Context, id uuid.UUID) (*Guideline, error)
	GetByTitle(ctx context.Context, title string) (*Guideline, error)
	List(ctx context.Context, limit, offset int) ([]*Guideline, int, error)
	ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, limit, offset int) ([]*Guideline, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Guideline, int, error)
	Update(ctx context.Context, g *Guideline) error
	Delete(ctx context.Context, id uuid.UUID) error
}
