package guideline

import (
	"context"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/platform/audit"
	"github.com/medref/medref/internal/platform/auth"
	"github.com/medref/medref/internal/platform/db"
	"github.com/medref/medref/internal/validate"
)

type Service struct {
	guidelines Repository
	tracker    *audit.Tracker
	runner     db.Runner
}

func NewService(guidelines Repository, tracker *audit.Tracker, runner db.Runner) *Service {
	return &Service{guidelines: guidelines, tracker: tracker, runner: runner}
}

// Create validates and inserts a guideline with its version-1 history row
// in one transaction. An existing guideline with the same title is returned
// unchanged.
func (s *Service) Create(ctx context.Context, g *Guideline) (*Guideline, error) {
	existing, err := s.guidelines.GetByTitle(ctx, g.Title)
	if err == nil {
		return existing, nil
	}
	if !db.NotFound(err) {
		return nil, err
	}

	if err := validate.Guideline(g.Title, g.Organization, g.Year, g.Summary, g.URL).Err(); err != nil {
		return nil, err
	}

	err = s.runner.InTx(ctx, func(ctx context.Context) error {
		g.Version = 1
		if err := s.guidelines.Create(ctx, g); err != nil {
			return err
		}
		return s.tracker.RecordCreate(ctx, audit.KindGuideline, g.ID, g.snapshot(), auth.CurrentUserID(ctx))
	})
	if err != nil {
		if db.UniqueViolation(err) {
			return s.guidelines.GetByTitle(ctx, g.Title)
		}
		return nil, err
	}
	return g, nil
}

func (s *Service) Update(ctx context.Context, g *Guideline) error {
	if err := validate.Guideline(g.Title, g.Organization, g.Year, g.Summary, g.URL).Err(); err != nil {
		return err
	}

	return s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.guidelines.GetByID(ctx, g.ID)
		if err != nil {
			return err
		}
		g.Version = current.Version + 1
		if err := s.guidelines.Update(ctx, g); err != nil {
			return err
		}
		return s.tracker.RecordUpdate(ctx, audit.KindGuideline, g.ID, g.Version, g.snapshot(), auth.CurrentUserID(ctx))
	})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.guidelines.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.tracker.RecordDelete(ctx, audit.KindGuideline, id, current.Version, current.snapshot(), auth.CurrentUserID(ctx)); err != nil {
			return err
		}
		return s.guidelines.Delete(ctx, id)
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Guideline, error) {
	return s.guidelines.GetByID(ctx, id)
}

func (s *Service) GetByTitle(ctx context.Context, title string) (*Guideline, error) {
	return s.guidelines.GetByTitle(ctx, title)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Guideline, int, error) {
	return s.guidelines.List(ctx, limit, offset)
}

func (s *Service) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, limit, offset int) ([]*Guideline, int, error) {
	return s.guidelines.ListBySpecialty(ctx, specialtyID, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Guideline, int, error) {
	return s.guidelines.Search(ctx, query, limit, offset)
}

// History lists the guideline's audit snapshots, newest first.
func (s *Service) History(ctx context.Context, id uuid.UUID, limit, offset int) ([]*audit.Entry, int, error) {
	return s.tracker.History(ctx, audit.KindGuideline, id, limit, offset)
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.guidelines.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if db.NotFound(err) {
		return false, nil
	}
	return false, err
}
