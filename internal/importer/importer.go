package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medref/medref/internal/domain/condition"
	"github.com/medref/medref/internal/domain/guideline"
	"github.com/medref/medref/internal/domain/medication"
	"github.com/medref/medref/internal/domain/reference"
	"github.com/medref/medref/internal/domain/specialty"
	"github.com/medref/medref/internal/jsonlist"
)

// The importer feeds curated datasets through the same service layer the
// API uses, so every entity passes validation and idempotency checks. A
// record that fails is skipped and reported; the session keeps going.

type conditionStore interface {
	Create(ctx context.Context, c *condition.Condition) (*condition.Condition, error)
	GetByName(ctx context.Context, name string) (*condition.Condition, error)
	LinkMedication(ctx context.Context, conditionID, medicationID uuid.UUID) error
	LinkReference(ctx context.Context, conditionID, referenceID uuid.UUID) error
}

type medicationStore interface {
	Create(ctx context.Context, m *medication.Medication) (*medication.Medication, error)
	GetByName(ctx context.Context, name string) (*medication.Medication, error)
	LinkSpecialty(ctx context.Context, medicationID, specialtyID uuid.UUID) error
}

type referenceStore interface {
	Create(ctx context.Context, r *reference.Reference) (*reference.Reference, error)
}

type guidelineStore interface {
	Create(ctx context.Context, g *guideline.Guideline) (*guideline.Guideline, error)
}

type specialtyStore interface {
	GetOrCreate(ctx context.Context, name, description string) (*specialty.Specialty, error)
}

// Stores bundles the services a session writes through.
type Stores struct {
	Conditions  conditionStore
	Medications medicationStore
	References  referenceStore
	Guidelines  guidelineStore
	Specialties specialtyStore
}

// Session imports one specialty's records. Errors accumulate per record
// instead of aborting the run.
type Session struct {
	stores    Stores
	specialty *specialty.Specialty
	log       zerolog.Logger
	errors    []string
}

// NewSession resolves the specialty up front, creating it when missing.
func NewSession(ctx context.Context, stores Stores, specialtyName, specialtyDescription string, log zerolog.Logger) (*Session, error) {
	sp, err := stores.Specialties.GetOrCreate(ctx, specialtyName, specialtyDescription)
	if err != nil {
		return nil, fmt.Errorf("resolve specialty %q: %w", specialtyName, err)
	}
	return &Session{
		stores:    stores,
		specialty: sp,
		log:       log.With().Str("specialty", sp.Name).Logger(),
	}, nil
}

func (s *Session) Specialty() *specialty.Specialty { return s.specialty }

// Errors lists every record failure seen so far.
func (s *Session) Errors() []string { return s.errors }

func (s *Session) fail(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.log.Warn().Msg(msg)
	s.errors = append(s.errors, msg)
}

// RefLink is an inline citation on a condition record.
type RefLink struct {
	Title string
	URL   string
}

type ConditionRecord struct {
	Name        string
	Description string
	Symptoms    []string
	Treatments  []string
	References  []RefLink
}

// AddCondition inserts a condition under the session's specialty and
// attaches its inline references. Returns nil when the record is rejected.
func (s *Session) AddCondition(ctx context.Context, rec ConditionRecord) *condition.Condition {
	c := &condition.Condition{
		Name:        rec.Name,
		Description: rec.Description,
		Symptoms:    rec.Symptoms,
		Treatments:  rec.Treatments,
		SpecialtyID: &s.specialty.ID,
	}
	created, err := s.stores.Conditions.Create(ctx, c)
	if err != nil {
		s.fail("condition %q: %v", rec.Name, err)
		return nil
	}

	for _, link := range rec.References {
		ref := &reference.Reference{Title: link.Title}
		if link.URL != "" {
			url := link.URL
			ref.URL = &url
		}
		stored, err := s.stores.References.Create(ctx, ref)
		if err != nil {
			s.fail("condition %q reference %q: %v", rec.Name, link.Title, err)
			continue
		}
		if err := s.stores.Conditions.LinkReference(ctx, created.ID, stored.ID); err != nil {
			s.fail("condition %q reference %q: %v", rec.Name, link.Title, err)
		}
	}

	s.log.Info().Str("condition", created.Name).Msg("imported condition")
	return created
}

type MedicationRecord struct {
	Name              string
	ClassName         string
	Description       string
	Uses              []string
	UsesText          string
	SideEffects       []string
	Dosing            string
	Contraindications []string
}

// AddMedication inserts a medication and tags it with the session's
// specialty. UsesText carries either a JSON array or a bare phrase and is
// only consulted when Uses is empty.
func (s *Session) AddMedication(ctx context.Context, rec MedicationRecord) *medication.Medication {
	uses := rec.Uses
	if len(uses) == 0 && rec.UsesText != "" {
		uses = jsonlist.Parse(rec.UsesText)
	}

	m := &medication.Medication{
		Name:              rec.Name,
		ClassName:         rec.ClassName,
		Uses:              uses,
		SideEffects:       rec.SideEffects,
		Dosing:            rec.Dosing,
		Contraindications: rec.Contraindications,
	}
	if rec.Description != "" {
		desc := rec.Description
		m.Description = &desc
	}
	created, err := s.stores.Medications.Create(ctx, m)
	if err != nil {
		s.fail("medication %q: %v", rec.Name, err)
		return nil
	}
	if err := s.stores.Medications.LinkSpecialty(ctx, created.ID, s.specialty.ID); err != nil {
		s.fail("medication %q specialty link: %v", rec.Name, err)
	}

	s.log.Info().Str("medication", created.Name).Msg("imported medication")
	return created
}

type ReferenceRecord struct {
	Title       string
	URL         string
	Authors     string
	Publication string
	Year        int
	DOI         string
}

func (s *Session) AddReference(ctx context.Context, rec ReferenceRecord) *reference.Reference {
	ref := &reference.Reference{Title: rec.Title}
	if rec.URL != "" {
		ref.URL = &rec.URL
	}
	if rec.Authors != "" {
		ref.Authors = &rec.Authors
	}
	if rec.Publication != "" {
		ref.Publication = &rec.Publication
	}
	if rec.Year != 0 {
		ref.Year = &rec.Year
	}
	if rec.DOI != "" {
		ref.DOI = &rec.DOI
	}
	created, err := s.stores.References.Create(ctx, ref)
	if err != nil {
		s.fail("reference %q: %v", rec.Title, err)
		return nil
	}
	return created
}

type GuidelineRecord struct {
	Title        string
	Organization string
	Year         int
	Summary      string
	URL          string
}

func (s *Session) AddGuideline(ctx context.Context, rec GuidelineRecord) *guideline.Guideline {
	g := &guideline.Guideline{
		Title:        rec.Title,
		Organization: rec.Organization,
		Year:         rec.Year,
		SpecialtyID:  &s.specialty.ID,
	}
	if rec.Summary != "" {
		g.Summary = &rec.Summary
	}
	if rec.URL != "" {
		g.URL = &rec.URL
	}
	created, err := s.stores.Guidelines.Create(ctx, g)
	if err != nil {
		s.fail("guideline %q: %v", rec.Title, err)
		return nil
	}
	return created
}

// LinkMedicationToCondition connects two previously imported entities by
// name. Reports false when either side is missing.
func (s *Session) LinkMedicationToCondition(ctx context.Context, medicationName, conditionName string) bool {
	med, err := s.stores.Medications.GetByName(ctx, medicationName)
	if err != nil {
		s.fail("link: medication %q not found", medicationName)
		return false
	}
	cond, err := s.stores.Conditions.GetByName(ctx, conditionName)
	if err != nil {
		s.fail("link: condition %q not found", conditionName)
		return false
	}
	if err := s.stores.Conditions.LinkMedication(ctx, cond.ID, med.ID); err != nil {
		s.fail("link %q to %q: %v", medicationName, conditionName, err)
		return false
	}
	return true
}
