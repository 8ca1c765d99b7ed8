package medication

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/platform/audit"
	"github.com/medref/medref/internal/platform/auth"
	"github.com/medref/medref/internal/platform/db"
	"github.com/medref/medref/internal/validate"
)

type Service struct {
	medications Repository
	tracker     *audit.Tracker
	runner      db.Runner
}

func NewService(medications Repository, tracker *audit.Tracker, runner db.Runner) *Service {
	return &Service{medications: medications, tracker: tracker, runner: runner}
}

// Create validates and inserts a medication with its version-1 history row
// in one transaction. An existing medication with the same name is returned
// unchanged.
func (s *Service) Create(ctx context.Context, m *Medication) (*Medication, error) {
	existing, err := s.medications.GetByName(ctx, m.Name)
	if err == nil {
		return existing, nil
	}
	if !db.NotFound(err) {
		return nil, err
	}

	if err := validate.Medication(m.Name, m.ClassName, validate.UsesList(m.Uses),
		m.SideEffects, m.Dosing, m.Contraindications).Err(); err != nil {
		return nil, err
	}
	normalize(m)

	err = s.runner.InTx(ctx, func(ctx context.Context) error {
		m.Version = 1
		if err := s.medications.Create(ctx, m); err != nil {
			return err
		}
		return s.tracker.RecordCreate(ctx, audit.KindMedication, m.ID, m.snapshot(), auth.CurrentUserID(ctx))
	})
	if err != nil {
		if db.UniqueViolation(err) {
			return s.medications.GetByName(ctx, m.Name)
		}
		return nil, err
	}
	return m, nil
}

// Update bumps the version counter by one and appends the matching history
// row in the same transaction as the field update.
func (s *Service) Update(ctx context.Context, m *Medication) error {
	if err := validate.Medication(m.Name, m.ClassName, validate.UsesList(m.Uses),
		m.SideEffects, m.Dosing, m.Contraindications).Err(); err != nil {
		return err
	}
	normalize(m)

	return s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.medications.GetByID(ctx, m.ID)
		if err != nil {
			return err
		}
		m.Version = current.Version + 1
		if err := s.medications.Update(ctx, m); err != nil {
			return err
		}
		return s.tracker.RecordUpdate(ctx, audit.KindMedication, m.ID, m.Version, m.snapshot(), auth.CurrentUserID(ctx))
	})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.runner.InTx(ctx, func(ctx context.Context) error {
		current, err := s.medications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.tracker.RecordDelete(ctx, audit.KindMedication, id, current.Version, current.snapshot(), auth.CurrentUserID(ctx)); err != nil {
			return err
		}
		return s.medications.Delete(ctx, id)
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.medications.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (*Medication, error) {
	return s.medications.GetByName(ctx, name)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return s.medications.List(ctx, limit, offset)
}

func (s *Service) ListByCondition(ctx context.Context, conditionID uuid.UUID) ([]*Medication, error) {
	return s.medications.ListByCondition(ctx, conditionID)
}

func (s *Service) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	return s.medications.ListBySpecialty(ctx, specialtyID, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Medication, int, error) {
	return s.medications.Search(ctx, query, limit, offset)
}

func (s *Service) LinkSpecialty(ctx context.Context, medicationID, specialtyID uuid.UUID) error {
	return s.medications.LinkSpecialty(ctx, medicationID, specialtyID)
}

func (s *Service) LinkReference(ctx context.Context, medicationID, referenceID uuid.UUID) error {
	return s.medications.LinkReference(ctx, medicationID, referenceID)
}

func (s *Service) Relationships(ctx context.Context, medicationID uuid.UUID) ([]*Relationship, error) {
	return s.medications.Relationships(ctx, medicationID)
}

// History lists the medication's audit snapshots, newest first.
func (s *Service) History(ctx context.Context, id uuid.UUID, limit, offset int) ([]*audit.Entry, int, error) {
	return s.tracker.History(ctx, audit.KindMedication, id, limit, offset)
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.medications.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if db.NotFound(err) {
		return false, nil
	}
	return false, err
}

// RegenerateRelationships clears the derived edge table and recomputes it
// from the current medication set: both-direction same_class edges for each
// pair sharing a class, and both-direction similar_uses edges for each pair
// with overlapping uses that is not already related by class. Deterministic
// up to ordering, so rerunning it reproduces the same edge set.
func (s *Service) RegenerateRelationships(ctx context.Context) (int, error) {
	count := 0
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.medications.ClearRelationships(ctx); err != nil {
			return err
		}
		meds, err := s.medications.ListAll(ctx)
		if err != nil {
			return err
		}

		edges := deriveEdges(meds)
		for _, e := range edges {
			if err := s.medications.InsertRelationship(ctx, e); err != nil {
				return err
			}
		}
		count = len(edges)
		return nil
	})
	return count, err
}

type pairKey struct {
	a, b uuid.UUID
}

func orderedPair(a, b uuid.UUID) pairKey {
	if strings.Compare(a.String(), b.String()) > 0 {
		return pairKey{b, a}
	}
	return pairKey{a, b}
}

func deriveEdges(meds []*Medication) []*Relationship {
	var edges []*Relationship
	sameClass := make(map[pairKey]bool)

	addBoth := func(a, b uuid.UUID, relType string) {
		edges = append(edges,
			&Relationship{MedicationID: a, RelatedMedicationID: b, RelationshipType: relType},
			&Relationship{MedicationID: b, RelatedMedicationID: a, RelationshipType: relType})
	}

	// Same-class pairs.
	byClass := make(map[string][]*Medication)
	for _, m := range meds {
		key := strings.ToLower(strings.TrimSpace(m.ClassName))
		if key == "" {
			continue
		}
		byClass[key] = append(byClass[key], m)
	}
	for _, group := range byClass {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				addBoth(group[i].ID, group[j].ID, RelSameClass)
				sameClass[orderedPair(group[i].ID, group[j].ID)] = true
			}
		}
	}

	// Shared-use pairs, skipping pairs already related by class.
	byUse := make(map[string][]*Medication)
	for _, m := range meds {
		for _, use := range m.Uses {
			key := strings.ToLower(strings.TrimSpace(use))
			if key == "" {
				continue
			}
			byUse[key] = append(byUse[key], m)
		}
	}
	similar := make(map[pairKey]bool)
	for _, group := range byUse {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				key := orderedPair(group[i].ID, group[j].ID)
				if group[i].ID == group[j].ID || sameClass[key] || similar[key] {
					continue
				}
				similar[key] = true
				addBoth(group[i].ID, group[j].ID, RelSimilarUses)
			}
		}
	}

	return edges
}

func normalize(m *Medication) {
	if m.Uses == nil {
		m.Uses = []string{}
	}
	if m.SideEffects == nil {
		m.SideEffects = []string{}
	}
	if m.Contraindications == nil {
		m.Contraindications = []string{}
	}
}
