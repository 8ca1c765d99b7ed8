package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medref/medref/internal/domain/condition"
	"github.com/medref/medref/internal/domain/guideline"
	"github.com/medref/medref/internal/domain/medication"
	"github.com/medref/medref/internal/domain/reference"
	"github.com/medref/medref/internal/domain/specialty"
	"github.com/medref/medref/internal/platform/audit"
)

type fakeConditions struct {
	byName map[string]*condition.Condition
	reject map[string]bool
	links  [][2]uuid.UUID
	refs   [][2]uuid.UUID
}

func newFakeConditions() *fakeConditions {
	return &fakeConditions{byName: make(map[string]*condition.Condition), reject: make(map[string]bool)}
}

func (f *fakeConditions) Create(_ context.Context, c *condition.Condition) (*condition.Condition, error) {
	if f.reject[c.Name] {
		return nil, errors.New("name must be at least 2 characters")
	}
	if existing, ok := f.byName[c.Name]; ok {
		return existing, nil
	}
	c.ID = uuid.New()
	f.byName[c.Name] = c
	return c, nil
}

func (f *fakeConditions) GetByName(_ context.Context, name string) (*condition.Condition, error) {
	if c, ok := f.byName[name]; ok {
		return c, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeConditions) LinkMedication(_ context.Context, conditionID, medicationID uuid.UUID) error {
	f.links = append(f.links, [2]uuid.UUID{conditionID, medicationID})
	return nil
}

func (f *fakeConditions) LinkReference(_ context.Context, conditionID, referenceID uuid.UUID) error {
	f.refs = append(f.refs, [2]uuid.UUID{conditionID, referenceID})
	return nil
}

type fakeMedications struct {
	byName     map[string]*medication.Medication
	specialtys [][2]uuid.UUID
}

func newFakeMedications() *fakeMedications {
	return &fakeMedications{byName: make(map[string]*medication.Medication)}
}

func (f *fakeMedications) Create(_ context.Context, m *medication.Medication) (*medication.Medication, error) {
	if existing, ok := f.byName[m.Name]; ok {
		return existing, nil
	}
	m.ID = uuid.New()
	f.byName[m.Name] = m
	return m, nil
}

func (f *fakeMedications) GetByName(_ context.Context, name string) (*medication.Medication, error) {
	if m, ok := f.byName[name]; ok {
		return m, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeMedications) LinkSpecialty(_ context.Context, medicationID, specialtyID uuid.UUID) error {
	f.specialtys = append(f.specialtys, [2]uuid.UUID{medicationID, specialtyID})
	return nil
}

type fakeReferences struct {
	byTitle map[string]*reference.Reference
}

func newFakeReferences() *fakeReferences {
	return &fakeReferences{byTitle: make(map[string]*reference.Reference)}
}

func (f *fakeReferences) Create(_ context.Context, r *reference.Reference) (*reference.Reference, error) {
	if existing, ok := f.byTitle[r.Title]; ok {
		return existing, nil
	}
	r.ID = uuid.New()
	f.byTitle[r.Title] = r
	return r, nil
}

type fakeGuidelines struct {
	byTitle map[string]*guideline.Guideline
}

func newFakeGuidelines() *fakeGuidelines {
	return &fakeGuidelines{byTitle: make(map[string]*guideline.Guideline)}
}

func (f *fakeGuidelines) Create(_ context.Context, g *guideline.Guideline) (*guideline.Guideline, error) {
	if existing, ok := f.byTitle[g.Title]; ok {
		return existing, nil
	}
	g.ID = uuid.New()
	f.byTitle[g.Title] = g
	return g, nil
}

type fakeSpecialties struct {
	byName map[string]*specialty.Specialty
}

func newFakeSpecialties() *fakeSpecialties {
	return &fakeSpecialties{byName: make(map[string]*specialty.Specialty)}
}

func (f *fakeSpecialties) GetOrCreate(_ context.Context, name, description string) (*specialty.Specialty, error) {
	if sp, ok := f.byName[name]; ok {
		return sp, nil
	}
	sp := &specialty.Specialty{ID: uuid.New(), Name: name, Description: description}
	f.byName[name] = sp
	return sp, nil
}

type testFixture struct {
	stores      Stores
	conditions  *fakeConditions
	medications *fakeMedications
	references  *fakeReferences
	guidelines  *fakeGuidelines
	specialties *fakeSpecialties
}

func newFixture() *testFixture {
	f := &testFixture{
		conditions:  newFakeConditions(),
		medications: newFakeMedications(),
		references:  newFakeReferences(),
		guidelines:  newFakeGuidelines(),
		specialties: newFakeSpecialties(),
	}
	f.stores = Stores{
		Conditions:  f.conditions,
		Medications: f.medications,
		References:  f.references,
		Guidelines:  f.guidelines,
		Specialties: f.specialties,
	}
	return f
}

func newTestSession(t *testing.T, f *testFixture) *Session {
	t.Helper()
	session, err := NewSession(context.Background(), f.stores, "Cardiology", "Heart and vessels.", zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return session
}

func TestSession_ResolvesSpecialtyOnce(t *testing.T) {
	f := newFixture()
	first := newTestSession(t, f)
	second := newTestSession(t, f)
	if first.Specialty().ID != second.Specialty().ID {
		t.Error("expected both sessions to share the specialty row")
	}
}

func TestAddCondition_AttachesReferences(t *testing.T) {
	f := newFixture()
	session := newTestSession(t, f)

	c := session.AddCondition(context.Background(), ConditionRecord{
		Name:        "Hypertension",
		Description: "Persistently elevated arterial blood pressure.",
		Symptoms:    []string{"Headache"},
		Treatments:  []string{"Medication"},
		References: []RefLink{
			{Title: "JNC 8 Hypertension Guidelines", URL: "https://example.org/jnc8"},
		},
	})
	if c == nil {
		t.Fatalf("unexpected failure: %v", session.Errors())
	}
	if c.SpecialtyID == nil || *c.SpecialtyID != session.Specialty().ID {
		t.Error("condition must carry the session specialty")
	}
	if len(f.conditions.refs) != 1 {
		t.Errorf("expected one reference link, got %d", len(f.conditions.refs))
	}
	if len(f.references.byTitle) != 1 {
		t.Errorf("expected the inline reference stored, got %d", len(f.references.byTitle))
	}
}

func TestAddCondition_ErrorAccumulates(t *testing.T) {
	f := newFixture()
	f.conditions.reject["X"] = true
	session := newTestSession(t, f)
	ctx := context.Background()

	if got := session.AddCondition(ctx, ConditionRecord{Name: "X", Description: "too short name"}); got != nil {
		t.Error("rejected record must return nil")
	}
	// The session keeps accepting records after a failure.
	if got := session.AddCondition(ctx, ConditionRecord{
		Name:        "Migraine",
		Description: "Recurrent moderate to severe headache.",
		Symptoms:    []string{"Headache"},
		Treatments:  []string{"Triptans"},
	}); got == nil {
		t.Fatalf("valid record after a failure must import: %v", session.Errors())
	}

	errs := session.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected one recorded error, got %d", len(errs))
	}
	if !strings.Contains(errs[0], `"X"`) {
		t.Errorf("error should name the failed record: %s", errs[0])
	}
}

func TestAddMedication_ParsesUsesText(t *testing.T) {
	f := newFixture()
	session := newTestSession(t, f)

	m := session.AddMedication(context.Background(), MedicationRecord{
		Name:        "Atorvastatin",
		ClassName:   "Statin",
		UsesText:    `["Hyperlipidemia", "Coronary Artery Disease"]`,
		SideEffects: []string{"Muscle aches"},
		Dosing:      "10-80mg once daily",
	})
	if m == nil {
		t.Fatalf("unexpected failure: %v", session.Errors())
	}
	if len(m.Uses) != 2 || m.Uses[0] != "Hyperlipidemia" {
		t.Errorf("expected parsed uses list, got %v", m.Uses)
	}

	// A bare phrase becomes a single-item list.
	m2 := session.AddMedication(context.Background(), MedicationRecord{
		Name:        "Aspirin",
		ClassName:   "Antiplatelet",
		UsesText:    "Secondary prevention",
		SideEffects: []string{"Bleeding"},
		Dosing:      "81mg once daily",
	})
	if m2 == nil {
		t.Fatalf("unexpected failure: %v", session.Errors())
	}
	if len(m2.Uses) != 1 || m2.Uses[0] != "Secondary prevention" {
		t.Errorf("expected single-item uses list, got %v", m2.Uses)
	}
	if len(f.medications.specialtys) != 2 {
		t.Errorf("each medication gets a specialty link, got %d", len(f.medications.specialtys))
	}
}

func TestLinkMedicationToCondition(t *testing.T) {
	f := newFixture()
	session := newTestSession(t, f)
	ctx := context.Background()

	session.AddCondition(ctx, ConditionRecord{
		Name: "Hypertension", Description: "Elevated blood pressure.",
		Symptoms: []string{"Headache"}, Treatments: []string{"Medication"},
	})
	session.AddMedication(ctx, MedicationRecord{
		Name: "Lisinopril", ClassName: "ACE Inhibitor",
		Uses: []string{"Hypertension"}, SideEffects: []string{"Cough"}, Dosing: "10mg daily",
	})

	if !session.LinkMedicationToCondition(ctx, "Lisinopril", "Hypertension") {
		t.Fatalf("link failed: %v", session.Errors())
	}
	if len(f.conditions.links) != 1 {
		t.Errorf("expected one link, got %d", len(f.conditions.links))
	}

	if session.LinkMedicationToCondition(ctx, "Nonexistent", "Hypertension") {
		t.Error("link with missing medication must fail")
	}
	if len(session.Errors()) != 1 {
		t.Errorf("expected one recorded error, got %d", len(session.Errors()))
	}
}

type fakeRelationships struct {
	called          bool
	trackingEnabled bool
}

func (f *fakeRelationships) RegenerateRelationships(ctx context.Context) (int, error) {
	f.called = true
	f.trackingEnabled = audit.Enabled(ctx)
	return 4, nil
}

func TestSeeder_Run(t *testing.T) {
	f := newFixture()
	rels := &fakeRelationships{}
	seeder := NewSeeder(f.stores, rels, zerolog.Nop())

	if err := seeder.Run(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rels.called {
		t.Error("seeder must rebuild relationships")
	}
	if rels.trackingEnabled {
		t.Error("seed runs with history tracking off by default")
	}
	if len(f.specialties.byName) != len(Datasets()) {
		t.Errorf("expected one specialty per dataset, got %d", len(f.specialties.byName))
	}
	if len(f.conditions.byName) == 0 || len(f.medications.byName) == 0 {
		t.Error("expected seeded conditions and medications")
	}
}

func TestSeeder_KeepHistory(t *testing.T) {
	f := newFixture()
	rels := &fakeRelationships{}
	seeder := NewSeeder(f.stores, rels, zerolog.Nop())

	if err := seeder.Run(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rels.trackingEnabled {
		t.Error("keepHistory must leave tracking on")
	}
}
