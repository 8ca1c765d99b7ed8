package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medication table. The list fields are stored as
// JSON text columns and normalized to empty lists on read.
type Medication struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	ClassName         string    `db:"class_name" json:"class_name"`
	Description       *string   `db:"description" json:"description,omitempty"`
	Uses              []string  `db:"uses" json:"uses"`
	SideEffects       []string  `db:"side_effects" json:"side_effects"`
	Contraindications []string  `db:"contraindications" json:"contraindications"`
	Dosing            string    `db:"dosing" json:"dosing"`
	Version           int       `db:"version" json:"version"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Relationship is a derived directed edge between two medications. The full
// edge set is regenerable from medication contents at any time.
type Relationship struct {
	MedicationID        uuid.UUID `db:"medication_id" json:"medication_id"`
	RelatedMedicationID uuid.UUID `db:"related_medication_id" json:"related_medication_id"`
	RelationshipType    string    `db:"relationship_type" json:"relationship_type"`
}

// Relationship types emitted by the derivation pass.
const (
	RelSameClass   = "same_class"
	RelSimilarUses = "similar_uses"
)

type snapshot struct {
	Name              string   `json:"name"`
	ClassName         string   `json:"class_name"`
	Description       *string  `json:"description,omitempty"`
	Uses              []string `json:"uses"`
	SideEffects       []string `json:"side_effects"`
	Contraindications []string `json:"contraindications"`
	Dosing            string   `json:"dosing"`
}

func (m *Medication) snapshot() snapshot {
	return snapshot{
		Name:              m.Name,
		ClassName:         m.ClassName,
		Description:       m.Description,
		Uses:              m.Uses,
		SideEffects:       m.SideEffects,
		Contraindications: m.Contraindications,
		Dosing:            m.Dosing,
	}
}
