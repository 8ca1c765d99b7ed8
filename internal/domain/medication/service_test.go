package medication

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/platform/audit"
	"github.com/medref/medref/internal/platform/db"
)

// -- Mock Repository --

type mockRepo struct {
	store       map[uuid.UUID]*Medication
	rels        []*Relationship
	specialties map[uuid.UUID][]uuid.UUID
	refs        map[uuid.UUID][]uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		store:       make(map[uuid.UUID]*Medication),
		specialties: make(map[uuid.UUID][]uuid.UUID),
		refs:        make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockRepo) Create(_ context.Context, med *Medication) error {
	med.ID = uuid.New()
	cp := *med
	m.store[med.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Medication, error) {
	med, ok := m.store[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *med
	return &cp, nil
}

func (m *mockRepo) GetByName(_ context.Context, name string) (*Medication, error) {
	for _, med := range m.store {
		if strings.EqualFold(med.Name, name) {
			cp := *med
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Medication, int, error) {
	var r []*Medication
	for _, med := range m.store {
		r = append(r, med)
	}
	return r, len(r), nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Medication, error) {
	var r []*Medication
	for _, med := range m.store {
		r = append(r, med)
	}
	return r, nil
}

func (m *mockRepo) ListByCondition(_ context.Context, _ uuid.UUID) ([]*Medication, error) {
	return nil, nil
}

func (m *mockRepo) ListBySpecialty(_ context.Context, _ uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Medication, int, error) {
	var r []*Medication
	for _, med := range m.store {
		if strings.Contains(strings.ToLower(med.Name), strings.ToLower(query)) {
			r = append(r, med)
		}
	}
	return r, len(r), nil
}

func (m *mockRepo) Update(_ context.Context, med *Medication) error {
	if _, ok := m.store[med.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *med
	m.store[med.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

func (m *mockRepo) LinkSpecialty(_ context.Context, medicationID, specialtyID uuid.UUID) error {
	for _, id := range m.specialties[medicationID] {
		if id == specialtyID {
			return nil
		}
	}
	m.specialties[medicationID] = append(m.specialties[medicationID], specialtyID)
	return nil
}

func (m *mockRepo) LinkReference(_ context.Context, medicationID, referenceID uuid.UUID) error {
	for _, id := range m.refs[medicationID] {
		if id == referenceID {
			return nil
		}
	}
	m.refs[medicationID] = append(m.refs[medicationID], referenceID)
	return nil
}

func (m *mockRepo) ClearRelationships(_ context.Context) error {
	m.rels = nil
	return nil
}

func (m *mockRepo) InsertRelationship(_ context.Context, rel *Relationship) error {
	m.rels = append(m.rels, rel)
	return nil
}

func (m *mockRepo) Relationships(_ context.Context, medicationID uuid.UUID) ([]*Relationship, error) {
	var r []*Relationship
	for _, rel := range m.rels {
		if rel.MedicationID == medicationID {
			r = append(r, rel)
		}
	}
	return r, nil
}

func (m *mockRepo) AllRelationships(_ context.Context) ([]*Relationship, error) {
	return m.rels, nil
}

// -- Mock history store --

type mockHistory struct {
	entries []*audit.Entry
}

func (m *mockHistory) Append(_ context.Context, kind audit.Kind, e *audit.Entry) error {
	e.ID = uuid.New()
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockHistory) List(_ context.Context, kind audit.Kind, entityID uuid.UUID, limit, offset int) ([]*audit.Entry, int, error) {
	var r []*audit.Entry
	for _, e := range m.entries {
		if e.EntityID == entityID {
			r = append(r, e)
		}
	}
	return r, len(r), nil
}

func (m *mockHistory) GetVersion(_ context.Context, kind audit.Kind, entityID uuid.UUID, version int) (*audit.Entry, error) {
	for _, e := range m.entries {
		if e.EntityID == entityID && e.Version == version {
			return e, nil
		}
	}
	return nil, db.ErrNotFound
}

func newTestService() (*Service, *mockRepo, *mockHistory) {
	repo := newMockRepo()
	hist := &mockHistory{}
	svc := NewService(repo, audit.NewTracker(hist), db.PassthroughRunner{})
	return svc, repo, hist
}

func validMedication(name, class string, uses ...string) *Medication {
	return &Medication{
		Name:        name,
		ClassName:   class,
		Uses:        uses,
		SideEffects: []string{"Dizziness"},
		Dosing:      "10mg once daily",
	}
}

// -- Service tests --

func TestCreate_VersionAndHistory(t *testing.T) {
	svc, _, hist := newTestService()
	med, err := svc.Create(context.Background(), validMedication("Lisinopril", "ACE Inhibitor", "Hypertension"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if med.Version != 1 {
		t.Errorf("expected version 1, got %d", med.Version)
	}
	if len(hist.entries) != 1 {
		t.Fatalf("expected one history row, got %d", len(hist.entries))
	}
	if hist.entries[0].ChangeType != audit.ChangeCreate {
		t.Errorf("expected create entry, got %s", hist.entries[0].ChangeType)
	}
}

func TestCreate_IdempotentByName(t *testing.T) {
	svc, repo, hist := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, validMedication("Lisinopril", "ACE Inhibitor", "Hypertension"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Create(ctx, validMedication("lisinopril", "ACE Inhibitor", "Hypertension"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same medication both times, got %s and %s", first.ID, second.ID)
	}
	if len(repo.store) != 1 || len(hist.entries) != 1 {
		t.Errorf("duplicate create must not add rows: %d stored, %d history", len(repo.store), len(hist.entries))
	}
}

func TestCreate_Invalid(t *testing.T) {
	svc, repo, hist := newTestService()
	_, err := svc.Create(context.Background(), &Medication{Name: "X", ClassName: "", Dosing: "1mg"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(repo.store) != 0 || len(hist.entries) != 0 {
		t.Error("invalid create must not persist anything")
	}
}

func TestUpdate_VersionMonotonic(t *testing.T) {
	svc, _, hist := newTestService()
	ctx := context.Background()

	med, err := svc.Create(ctx, validMedication("Metoprolol", "Beta Blocker", "Hypertension"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		med.Dosing = "25mg twice daily"
		if err := svc.Update(ctx, med); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	got, err := svc.Get(ctx, med.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != 4 {
		t.Errorf("expected version 4 after create and 3 updates, got %d", got.Version)
	}
	if len(hist.entries) != 4 {
		t.Fatalf("expected 4 history rows, got %d", len(hist.entries))
	}
	for i, e := range hist.entries {
		if e.Version != i+1 {
			t.Errorf("entry %d: expected version %d, got %d", i, i+1, e.Version)
		}
	}
}

func TestUpdate_TrackingDisabled(t *testing.T) {
	svc, _, hist := newTestService()
	ctx := context.Background()

	med, err := svc.Create(ctx, validMedication("Amlodipine", "Calcium Channel Blocker", "Hypertension"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := len(hist.entries)

	quiet := audit.WithTracking(ctx, false)
	med.Dosing = "5mg once daily"
	if err := svc.Update(quiet, med); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist.entries) != before {
		t.Errorf("disabled tracking must not append history, got %d new rows", len(hist.entries)-before)
	}

	got, err := svc.Get(ctx, med.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("version still advances with tracking off, got %d", got.Version)
	}

	// Tracking resumes outside the disabled context.
	got.Dosing = "10mg once daily"
	if err := svc.Update(ctx, got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist.entries) != before+1 {
		t.Errorf("expected tracking to resume, got %d rows", len(hist.entries))
	}
}

func TestDelete_RecordsFinalSnapshot(t *testing.T) {
	svc, repo, hist := newTestService()
	ctx := context.Background()

	med, err := svc.Create(ctx, validMedication("Atorvastatin", "Statin", "Hyperlipidemia"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, med.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.store) != 0 {
		t.Error("expected medication removed")
	}
	last := hist.entries[len(hist.entries)-1]
	if last.ChangeType != audit.ChangeDelete {
		t.Errorf("expected delete entry, got %s", last.ChangeType)
	}
}

// -- Relationship derivation --

func TestRegenerateRelationships_SameClass(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, validMedication("Lisinopril", "ACE Inhibitor", "Hypertension"))
	b, _ := svc.Create(ctx, validMedication("Enalapril", "ace inhibitor", "Heart Failure"))

	count, err := svc.RegenerateRelationships(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected both directions of one same-class pair, got %d edges", count)
	}
	for _, rel := range repo.rels {
		if rel.RelationshipType != RelSameClass {
			t.Errorf("expected same_class, got %s", rel.RelationshipType)
		}
	}
	fromA, _ := svc.Relationships(ctx, a.ID)
	if len(fromA) != 1 || fromA[0].RelatedMedicationID != b.ID {
		t.Errorf("expected edge from %s to %s, got %v", a.Name, b.Name, fromA)
	}
	fromB, _ := svc.Relationships(ctx, b.ID)
	if len(fromB) != 1 || fromB[0].RelatedMedicationID != a.ID {
		t.Errorf("expected reverse edge, got %v", fromB)
	}
}

func TestRegenerateRelationships_SimilarUsesSkipsSameClass(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	// Same class and shared use: only the same_class edge pair survives.
	svc.Create(ctx, validMedication("Lisinopril", "ACE Inhibitor", "Hypertension"))
	svc.Create(ctx, validMedication("Enalapril", "ACE Inhibitor", "Hypertension"))
	// Different class, shared use: similar_uses edge pair.
	c, _ := svc.Create(ctx, validMedication("Metoprolol", "Beta Blocker", "hypertension"))

	count, err := svc.RegenerateRelationships(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One same-class pair plus two similar-uses pairs, both directions each.
	if count != 6 {
		t.Fatalf("expected 6 edges, got %d", count)
	}
	var similar int
	for _, rel := range repo.rels {
		if rel.RelationshipType == RelSimilarUses {
			similar++
			if rel.MedicationID != c.ID && rel.RelatedMedicationID != c.ID {
				t.Errorf("similar_uses edge between same-class pair: %v", rel)
			}
		}
	}
	if similar != 4 {
		t.Errorf("expected 4 similar_uses edges, got %d", similar)
	}
}

func TestRegenerateRelationships_Deterministic(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	svc.Create(ctx, validMedication("Sertraline", "SSRI", "Depression", "Anxiety"))
	svc.Create(ctx, validMedication("Fluoxetine", "SSRI", "Depression"))
	svc.Create(ctx, validMedication("Venlafaxine", "SNRI", "Depression", "Anxiety"))

	first, err := svc.RegenerateRelationships(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstSet := edgeSet(repo.rels)

	second, err := svc.RegenerateRelationships(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("rerun produced %d edges, first run %d", second, first)
	}
	if len(repo.rels) != first {
		t.Errorf("rerun must replace, not accumulate: %d rows", len(repo.rels))
	}
	secondSet := edgeSet(repo.rels)
	for k := range firstSet {
		if !secondSet[k] {
			t.Errorf("edge %s missing after rerun", k)
		}
	}
}

func TestRegenerateRelationships_SharedUseDedupe(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	// Two shared uses must still yield a single similar_uses pair.
	svc.Create(ctx, validMedication("Sertraline", "SSRI", "Depression", "Anxiety"))
	svc.Create(ctx, validMedication("Venlafaxine", "SNRI", "Depression", "Anxiety"))

	count, err := svc.RegenerateRelationships(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected one deduped pair in both directions, got %d edges", count)
	}
	for _, rel := range repo.rels {
		if rel.RelationshipType != RelSimilarUses {
			t.Errorf("expected similar_uses, got %s", rel.RelationshipType)
		}
	}
}

func edgeSet(rels []*Relationship) map[string]bool {
	set := make(map[string]bool, len(rels))
	for _, r := range rels {
		set[r.MedicationID.String()+"|"+r.RelatedMedicationID.String()+"|"+r.RelationshipType] = true
	}
	return set
}
