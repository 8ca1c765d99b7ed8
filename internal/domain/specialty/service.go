package specialty

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/platform/db"
)

type Service struct {
	specialties Repository
}

func NewService(specialties Repository) *Service {
	return &Service{specialties: specialties}
}

// GetOrCreate returns the specialty with the given name, creating it if
// absent. Idempotent: calling twice with the same name yields the same row.
// A unique-constraint race resolves by re-reading the winner.
func (s *Service) GetOrCreate(ctx context.Context, name, description string) (*Specialty, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("specialty name is required")
	}
	existing, err := s.specialties.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !db.NotFound(err) {
		return nil, err
	}

	sp := &Specialty{Name: name, Description: description}
	if err := s.specialties.Create(ctx, sp); err != nil {
		if db.UniqueViolation(err) {
			return s.specialties.GetByName(ctx, name)
		}
		return nil, err
	}
	return sp, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Specialty, error) {
	return s.specialties.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (*Specialty, error) {
	return s.specialties.GetByName(ctx, name)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Specialty, int, error) {
	return s.specialties.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, sp *Specialty) error {
	if strings.TrimSpace(sp.Name) == "" {
		return fmt.Errorf("specialty name is required")
	}
	return s.specialties.Update(ctx, sp)
}
