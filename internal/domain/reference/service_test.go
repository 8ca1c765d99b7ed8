package reference

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/platform/db"
)

type mockRepo struct {
	store  map[uuid.UUID]*Reference
	byCond map[uuid.UUID][]uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		store:  make(map[uuid.UUID]*Reference),
		byCond: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockRepo) Create(_ context.Context, ref *Reference) error {
	ref.ID = uuid.New()
	cp := *ref
	m.store[ref.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Reference, error) {
	ref, ok := m.store[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *ref
	return &cp, nil
}

func (m *mockRepo) GetByTitle(_ context.Context, title string) (*Reference, error) {
	for _, ref := range m.store {
		if strings.EqualFold(ref.Title, title) {
			cp := *ref
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Reference, int, error) {
	var r []*Reference
	for _, ref := range m.store {
		r = append(r, ref)
	}
	return r, len(r), nil
}

func (m *mockRepo) ListByCondition(_ context.Context, conditionID uuid.UUID) ([]*Reference, error) {
	var r []*Reference
	for _, id := range m.byCond[conditionID] {
		if ref, ok := m.store[id]; ok {
			r = append(r, ref)
		}
	}
	return r, nil
}

func (m *mockRepo) ListByMedication(_ context.Context, _ uuid.UUID) ([]*Reference, error) {
	return nil, nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Reference, int, error) {
	var r []*Reference
	for _, ref := range m.store {
		if strings.Contains(strings.ToLower(ref.Title), strings.ToLower(query)) {
			r = append(r, ref)
		}
	}
	return r, len(r), nil
}

func (m *mockRepo) Update(_ context.Context, ref *Reference) error {
	if _, ok := m.store[ref.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *ref
	m.store[ref.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

func validReference() *Reference {
	return &Reference{
		Title:       "2024 Guideline for the Management of Hypertension",
		Authors:     strptr("Whelton PK, Carey RM"),
		Publication: strptr("Journal of the American College of Cardiology"),
		Year:        intptr(2024),
		DOI:         strptr("10.1016/j.jacc.2024.01.001"),
		URL:         strptr("https://doi.org/10.1016/j.jacc.2024.01.001"),
	}
}

func TestCreate_IdempotentByTitle(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	first, err := svc.Create(ctx, validReference())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Create(ctx, validReference())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same reference both times, got %s and %s", first.ID, second.ID)
	}
}

func TestCreate_InvalidYear(t *testing.T) {
	svc := NewService(newMockRepo())
	ref := validReference()
	ref.Year = intptr(1750)
	_, err := svc.Create(context.Background(), ref)
	if err == nil {
		t.Fatal("expected validation error for out-of-range year")
	}
}

func TestCreate_ShortTitle(t *testing.T) {
	svc := NewService(newMockRepo())
	ref := validReference()
	ref.Title = "AB"
	_, err := svc.Create(context.Background(), ref)
	if err == nil {
		t.Fatal("expected validation error for short title")
	}
	if !strings.Contains(err.Error(), "title") {
		t.Errorf("error should name the title field: %v", err)
	}
}

func TestCreate_BadDOI(t *testing.T) {
	svc := NewService(newMockRepo())
	ref := validReference()
	ref.DOI = strptr("not-a-doi")
	_, err := svc.Create(context.Background(), ref)
	if err == nil {
		t.Fatal("expected validation error for malformed DOI")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	ref := validReference()
	ref.ID = uuid.New()
	err := svc.Update(context.Background(), ref)
	if !db.NotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestExists(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	ref, err := svc.Create(ctx, validReference())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := svc.Exists(ctx, ref.ID)
	if err != nil || !ok {
		t.Errorf("expected reference to exist, got ok=%v err=%v", ok, err)
	}
	ok, err = svc.Exists(ctx, uuid.New())
	if err != nil || ok {
		t.Errorf("expected missing id to report false, got ok=%v err=%v", ok, err)
	}
}
