package specialty

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Specialty) error
	GetByID(ctx context.Context, id uuid.UUID) (*Specialty, error)
	GetByName(ctx context.Context, name string) (*Specialty, error)
	List(ctx context.Context, limit, offset int) ([]*Specialty, int, error)
	Update(ctx context.Context, s *Specialty) error
}
