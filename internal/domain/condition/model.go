package condition

import (
	"time"

	"github.com/google/uuid"
)

// Condition maps to the condition table. Symptoms and treatments are stored
// as JSON text columns and normalized to empty lists on read.
type Condition struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Symptoms    []string   `db:"symptoms" json:"symptoms"`
	Treatments  []string   `db:"treatments" json:"treatments"`
	SpecialtyID *uuid.UUID `db:"specialty_id" json:"specialty_id,omitempty"`
	Version     int        `db:"version" json:"version"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// snapshot holds the content fields copied into a history row. Identity and
// timestamps stay out; the row's own version column tracks the mutation.
type snapshot struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Symptoms    []string   `json:"symptoms"`
	Treatments  []string   `json:"treatments"`
	SpecialtyID *uuid.UUID `json:"specialty_id,omitempty"`
}

func (c *Condition) snapshot() snapshot {
	return snapshot{
		Name:        c.Name,
		Description: c.Description,
		Symptoms:    c.Symptoms,
		Treatments:  c.Treatments,
		SpecialtyID: c.SpecialtyID,
	}
}
