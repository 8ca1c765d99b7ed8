package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/platform/db"
)

// -- Mock Store --

type mockStore struct {
	entries map[Kind][]*Entry
}

func newMockStore() *mockStore {
	return &mockStore{entries: make(map[Kind][]*Entry)}
}

func (m *mockStore) Append(_ context.Context, kind Kind, e *Entry) error {
	e.ID = uuid.New()
	m.entries[kind] = append(m.entries[kind], e)
	return nil
}

func (m *mockStore) List(_ context.Context, kind Kind, entityID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	var r []*Entry
	for _, e := range m.entries[kind] {
		if e.EntityID == entityID {
			r = append(r, e)
		}
	}
	return r, len(r), nil
}

func (m *mockStore) GetVersion(_ context.Context, kind Kind, entityID uuid.UUID, version int) (*Entry, error) {
	for _, e := range m.entries[kind] {
		if e.EntityID == entityID && e.Version == version {
			return e, nil
		}
	}
	return nil, db.ErrNotFound
}

type fakeCondition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func TestRecordCreate(t *testing.T) {
	store := newMockStore()
	tr := NewTracker(store)
	id := uuid.New()

	err := tr.RecordCreate(context.Background(), KindCondition, id,
		fakeCondition{Name: "Hypertension", Description: "elevated blood pressure"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, total, err := tr.History(context.Background(), KindCondition, id, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("expected exactly one history row, got %d", total)
	}
	if entries[0].Version != 1 {
		t.Errorf("expected version 1, got %d", entries[0].Version)
	}
	if entries[0].ChangeType != ChangeCreate {
		t.Errorf("expected change_type %q, got %q", ChangeCreate, entries[0].ChangeType)
	}
}

func TestRecordUpdate_VersionSequence(t *testing.T) {
	store := newMockStore()
	tr := NewTracker(store)
	id := uuid.New()
	ctx := context.Background()

	if err := tr.RecordCreate(ctx, KindMedication, id, fakeCondition{Name: "Lisinopril"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for v := 2; v <= 4; v++ {
		if err := tr.RecordUpdate(ctx, KindMedication, id, v, fakeCondition{Name: "Lisinopril"}, nil); err != nil {
			t.Fatalf("update to version %d: %v", v, err)
		}
	}

	entries, total, _ := tr.History(ctx, KindMedication, id, 20, 0)
	if total != 4 {
		t.Fatalf("expected 4 history rows, got %d", total)
	}
	seen := make(map[int]string)
	for _, e := range entries {
		seen[e.Version] = e.ChangeType
	}
	if seen[1] != ChangeCreate {
		t.Errorf("version 1 should be a create, got %q", seen[1])
	}
	for v := 2; v <= 4; v++ {
		if seen[v] != ChangeUpdate {
			t.Errorf("version %d should be an update, got %q", v, seen[v])
		}
	}
}

func TestRecordUpdate_RejectsBadVersion(t *testing.T) {
	tr := NewTracker(newMockStore())
	err := tr.RecordUpdate(context.Background(), KindCondition, uuid.New(), 1, fakeCondition{}, nil)
	if err == nil {
		t.Fatal("expected error for update at version 1")
	}
}

func TestTrackingDisabled(t *testing.T) {
	store := newMockStore()
	tr := NewTracker(store)
	id := uuid.New()
	off := WithTracking(context.Background(), false)

	if err := tr.RecordCreate(off, KindGuideline, id, fakeCondition{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.RecordUpdate(off, KindGuideline, id, 2, fakeCondition{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, total, _ := tr.History(context.Background(), KindGuideline, id, 20, 0); total != 0 {
		t.Fatalf("expected zero history rows with tracking disabled, got %d", total)
	}

	// Tracking resumes on a context without the override.
	if err := tr.RecordCreate(context.Background(), KindGuideline, id, fakeCondition{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, total, _ := tr.History(context.Background(), KindGuideline, id, 20, 0); total != 1 {
		t.Fatalf("expected tracking to resume, got %d rows", total)
	}
}

func TestTrackingScopedToContext(t *testing.T) {
	base := context.Background()
	off := WithTracking(base, false)
	if !Enabled(base) {
		t.Error("base context should have tracking enabled")
	}
	if Enabled(off) {
		t.Error("derived context should have tracking disabled")
	}
	// Re-enabling on a child of the disabled context works too.
	on := WithTracking(off, true)
	if !Enabled(on) {
		t.Error("re-enabled child context should have tracking enabled")
	}
}

func TestRecordChangedBy(t *testing.T) {
	store := newMockStore()
	tr := NewTracker(store)
	id := uuid.New()
	user := uuid.New()

	if err := tr.RecordCreate(context.Background(), KindCondition, id, fakeCondition{}, &user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, _, _ := tr.History(context.Background(), KindCondition, id, 20, 0)
	if entries[0].ChangedBy == nil || *entries[0].ChangedBy != user {
		t.Errorf("expected changed_by %s, got %v", user, entries[0].ChangedBy)
	}
}

func TestGetVersion(t *testing.T) {
	store := newMockStore()
	tr := NewTracker(store)
	id := uuid.New()
	ctx := context.Background()

	_ = tr.RecordCreate(ctx, KindCondition, id, fakeCondition{Name: "v1"}, nil)
	_ = tr.RecordUpdate(ctx, KindCondition, id, 2, fakeCondition{Name: "v2"}, nil)

	e, err := tr.Version(ctx, KindCondition, id, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Version != 2 {
		t.Errorf("expected version 2, got %d", e.Version)
	}
	if _, err := tr.Version(ctx, KindCondition, id, 9); !db.NotFound(err) {
		t.Errorf("expected not found for missing version, got %v", err)
	}
}
