package reference

import (
	"context"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/platform/db"
	"github.com/medref/medref/internal/validate"
)

type Service struct {
	references Repository
}

func NewService(references Repository) *Service {
	return &Service{references: references}
}

// Create validates and inserts a reference. An existing reference with the
// same title is returned unchanged, so repeated imports stay idempotent.
func (s *Service) Create(ctx context.Context, ref *Reference) (*Reference, error) {
	existing, err := s.references.GetByTitle(ctx, ref.Title)
	if err == nil {
		return existing, nil
	}
	if !db.NotFound(err) {
		return nil, err
	}

	if err := validate.Reference(ref.Title, ref.URL, ref.Authors, ref.Publication, ref.Year, ref.DOI).Err(); err != nil {
		return nil, err
	}

	if err := s.references.Create(ctx, ref); err != nil {
		if db.UniqueViolation(err) {
			return s.references.GetByTitle(ctx, ref.Title)
		}
		return nil, err
	}
	return ref, nil
}

func (s *Service) Update(ctx context.Context, ref *Reference) error {
	if err := validate.Reference(ref.Title, ref.URL, ref.Authors, ref.Publication, ref.Year, ref.DOI).Err(); err != nil {
		return err
	}
	return s.references.Update(ctx, ref)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.references.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Reference, error) {
	return s.references.GetByID(ctx, id)
}

func (s *Service) GetByTitle(ctx context.Context, title string) (*Reference, error) {
	return s.references.GetByTitle(ctx, title)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Reference, int, error) {
	return s.references.List(ctx, limit, offset)
}

func (s *Service) ListByCondition(ctx context.Context, conditionID uuid.UUID) ([]*Reference, error) {
	return s.references.ListByCondition(ctx, conditionID)
}

func (s *Service) ListByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Reference, error) {
	return s.references.ListByMedication(ctx, medicationID)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Reference, int, error) {
	return s.references.Search(ctx, query, limit, offset)
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.references.GetByID(ctx, id)
	if err != nil {
		if db.NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
