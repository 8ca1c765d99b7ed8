package condition

import (
	"context"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/platform/audit"
	"github.com/medref/medref/internal/platform/auth"
	"github.com/medref/medref/internal/platform/db"
	"github.com/medref/medref/internal/validate"
)

type Service struct {
	conditions Repository
	tracker    *audit.Tracker
	runner     db.Runner
}

func NewService(conditions Repository, tracker *audit.Tracker, runner db.Runner) *Service {
	return &Service{conditions: conditions, tracker: tracker, runner: runner}
}

// Create validates and inserts a condition together with its version-1
// history row in one transaction. If a condition with the same name already
// exists it is returned unchanged, so repeated imports are idempotent.
func (s *Service) Create(ctx context.Context, c *Condition) (*Condition, error) {
	existing, err := s.conditions.GetByName(ctx, c.Name)
	if err == nil {
		return existing, nil
	}
	if !db.NotFound(err) {
		return nil, err
	}

	if err := validate.Condition(c.Name, c.Description, c.Symptoms, c.Treatments, nil).Err(); err != nil {
		return nil, err
	}
	normalize(c)

	err = s.runner.InTx(ctx, func(ctx context.Context) error {
		c.Version = 1
		if err := s.conditions.Create(ctx, c); err != nil {
			return err
		}
		return s.tracker.RecordCreate(ctx, audit.KindCondition, c.ID, c.snapshot(), auth.CurrentUserID(ctx))
	})
	if err != nil {
		if db.UniqueViolation(err) {
			return s.conditions.GetByName(ctx, c.Name)
		}
		return nil, err
	}
	return c, nil
}

// Update persists new field values, bumps the version counter by exactly one
// and appends the matching history row, all in one transaction.
func (s *Service) Update(ctx context.Context, c *Condition) error {
	if err := validate.Condition(c.Name, c.Description, c.Symptoms, c.Treatments, nil).Err(); err != nil {
		return err
	}
	normalize(c)

	return s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.conditions.GetByID(ctx, c.ID)
		if err != nil {
			return err
		}
		c.Version = current.Version + 1
		if err := s.conditions.Update(ctx, c); err != nil {
			return err
		}
		return s.tracker.RecordUpdate(ctx, audit.KindCondition, c.ID, c.Version, c.snapshot(), auth.CurrentUserID(ctx))
	})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.conditions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.tracker.RecordDelete(ctx, audit.KindCondition, id, current.Version, current.snapshot(), auth.CurrentUserID(ctx)); err != nil {
			return err
		}
		return s.conditions.Delete(ctx, id)
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Condition, error) {
	return s.conditions.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (*Condition, error) {
	return s.conditions.GetByName(ctx, name)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Condition, int, error) {
	return s.conditions.List(ctx, limit, offset)
}

func (s *Service) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, limit, offset int) ([]*Condition, int, error) {
	return s.conditions.ListBySpecialty(ctx, specialtyID, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Condition, int, error) {
	return s.conditions.Search(ctx, query, limit, offset)
}

// LinkMedication records the many-to-many edge. Linking a pair twice is a
// no-op success.
func (s *Service) LinkMedication(ctx context.Context, conditionID, medicationID uuid.UUID) error {
	return s.conditions.LinkMedication(ctx, conditionID, medicationID)
}

func (s *Service) MedicationIDs(ctx context.Context, conditionID uuid.UUID) ([]uuid.UUID, error) {
	return s.conditions.MedicationIDs(ctx, conditionID)
}

func (s *Service) LinkReference(ctx context.Context, conditionID, referenceID uuid.UUID) error {
	return s.conditions.LinkReference(ctx, conditionID, referenceID)
}

func (s *Service) ReferenceIDs(ctx context.Context, conditionID uuid.UUID) ([]uuid.UUID, error) {
	return s.conditions.ReferenceIDs(ctx, conditionID)
}

// History lists the condition's audit snapshots, newest first.
func (s *Service) History(ctx context.Context, id uuid.UUID, limit, offset int) ([]*audit.Entry, int, error) {
	return s.tracker.History(ctx, audit.KindCondition, id, limit, offset)
}

// Exists reports whether a condition with the given id is present.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.conditions.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if db.NotFound(err) {
		return false, nil
	}
	return false, err
}

// normalize keeps list fields non-nil so stored JSON is always an array.
func normalize(c *Condition) {
	if c.Symptoms == nil {
		c.Symptoms = []string{}
	}
	if c.Treatments == nil {
		c.Treatments = []string{}
	}
}
