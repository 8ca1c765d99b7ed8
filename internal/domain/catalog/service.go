package catalog

import (
	"context"
	"fmt"

	"github.com/medref/medref/internal/domain/condition"
	"github.com/medref/medref/internal/domain/guideline"
	"github.com/medref/medref/internal/domain/medication"
	"github.com/medref/medref/internal/domain/reference"
)

// The catalog service composes the per-entity services into cross-entity
// operations. It depends on narrow views of them so tests can stub each
// entity type independently.

type conditionSearcher interface {
	Search(ctx context.Context, query string, limit, offset int) ([]*condition.Condition, int, error)
	List(ctx context.Context, limit, offset int) ([]*condition.Condition, int, error)
}

type medicationSearcher interface {
	Search(ctx context.Context, query string, limit, offset int) ([]*medication.Medication, int, error)
	List(ctx context.Context, limit, offset int) ([]*medication.Medication, int, error)
}

type referenceSearcher interface {
	Search(ctx context.Context, query string, limit, offset int) ([]*reference.Reference, int, error)
	List(ctx context.Context, limit, offset int) ([]*reference.Reference, int, error)
}

type guidelineSearcher interface {
	Search(ctx context.Context, query string, limit, offset int) ([]*guideline.Guideline, int, error)
	List(ctx context.Context, limit, offset int) ([]*guideline.Guideline, int, error)
}

// Entity type names accepted by the type/entity query filters.
const (
	TypeCondition  = "condition"
	TypeMedication = "medication"
	TypeReference  = "reference"
	TypeGuideline  = "guideline"
)

// ValidType reports whether typ names a searchable entity type. The empty
// string means all types.
func ValidType(typ string) bool {
	switch typ {
	case "", TypeCondition, TypeMedication, TypeReference, TypeGuideline:
		return true
	}
	return false
}

type Service struct {
	conditions  conditionSearcher
	medications medicationSearcher
	references  referenceSearcher
	guidelines  guidelineSearcher
}

func NewService(conditions conditionSearcher, medications medicationSearcher,
	references referenceSearcher, guidelines guidelineSearcher) *Service {
	return &Service{
		conditions:  conditions,
		medications: medications,
		references:  references,
		guidelines:  guidelines,
	}
}

// SearchResults groups case-insensitive substring matches by entity type.
type SearchResults struct {
	Query       string                   `json:"query"`
	Conditions  []*condition.Condition   `json:"conditions"`
	Medications []*medication.Medication `json:"medications"`
	References  []*reference.Reference   `json:"references"`
	Guidelines  []*guideline.Guideline   `json:"guidelines"`
	Total       int                      `json:"total"`
}

// Search runs the query against every entity type, or against a single one
// when typ is non-empty. A failing entity search fails the whole request
// rather than returning partial results.
func (s *Service) Search(ctx context.Context, query, typ string, limit int) (*SearchResults, error) {
	if !ValidType(typ) {
		return nil, fmt.Errorf("unknown entity type %q", typ)
	}
	res := &SearchResults{
		Query:       query,
		Conditions:  []*condition.Condition{},
		Medications: []*medication.Medication{},
		References:  []*reference.Reference{},
		Guidelines:  []*guideline.Guideline{},
	}

	if typ == "" || typ == TypeCondition {
		conds, n, err := s.conditions.Search(ctx, query, limit, 0)
		if err != nil {
			return nil, err
		}
		if conds != nil {
			res.Conditions = conds
		}
		res.Total += n
	}

	if typ == "" || typ == TypeMedication {
		meds, n, err := s.medications.Search(ctx, query, limit, 0)
		if err != nil {
			return nil, err
		}
		if meds != nil {
			res.Medications = meds
		}
		res.Total += n
	}

	if typ == "" || typ == TypeReference {
		refs, n, err := s.references.Search(ctx, query, limit, 0)
		if err != nil {
			return nil, err
		}
		if refs != nil {
			res.References = refs
		}
		res.Total += n
	}

	if typ == "" || typ == TypeGuideline {
		guides, n, err := s.guidelines.Search(ctx, query, limit, 0)
		if err != nil {
			return nil, err
		}
		if guides != nil {
			res.Guidelines = guides
		}
		res.Total += n
	}

	return res, nil
}

// Snapshot is a full dump of the catalog's content entities.
type Snapshot struct {
	Conditions  []*condition.Condition   `json:"conditions"`
	Medications []*medication.Medication `json:"medications"`
	References  []*reference.Reference   `json:"references"`
	Guidelines  []*guideline.Guideline   `json:"guidelines"`
}

// exportLimit caps a single export pass. The catalog is reference data and
// stays far below this.
const exportLimit = 10000

// Export dumps all content entities, or a single type when typ is non-empty.
func (s *Service) Export(ctx context.Context, typ string) (*Snapshot, error) {
	if !ValidType(typ) {
		return nil, fmt.Errorf("unknown entity type %q", typ)
	}
	snap := &Snapshot{
		Conditions:  []*condition.Condition{},
		Medications: []*medication.Medication{},
		References:  []*reference.Reference{},
		Guidelines:  []*guideline.Guideline{},
	}

	if typ == "" || typ == TypeCondition {
		conds, _, err := s.conditions.List(ctx, exportLimit, 0)
		if err != nil {
			return nil, err
		}
		if conds != nil {
			snap.Conditions = conds
		}
	}

	if typ == "" || typ == TypeMedication {
		meds, _, err := s.medications.List(ctx, exportLimit, 0)
		if err != nil {
			return nil, err
		}
		if meds != nil {
			snap.Medications = meds
		}
	}

	if typ == "" || typ == TypeReference {
		refs, _, err := s.references.List(ctx, exportLimit, 0)
		if err != nil {
			return nil, err
		}
		if refs != nil {
			snap.References = refs
		}
	}

	if typ == "" || typ == TypeGuideline {
		guides, _, err := s.guidelines.List(ctx, exportLimit, 0)
		if err != nil {
			return nil, err
		}
		if guides != nil {
			snap.Guidelines = guides
		}
	}

	return snap, nil
}
