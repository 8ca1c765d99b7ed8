package guideline

import (
	"time"

	"github.com/google/uuid"
)

// Guideline is a published clinical practice recommendation. Guidelines are
// version-tracked the same way conditions and medications are.
type Guideline struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Organization string     `db:"organization" json:"organization"`
	Year         int        `db:"year" json:"year"`
	Summary      *string    `db:"summary" json:"summary,omitempty"`
	URL          *string    `db:"url" json:"url,omitempty"`
	SpecialtyID  *uuid.UUID `db:"specialty_id" json:"specialty_id,omitempty"`
	Version      int        `db:"version" json:"version"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type snapshot struct {
	Title        string     `json:"title"`
	Organization string     `json:"organization"`
	Year         int        `json:"year"`
	Summary      *string    `json:"summary,omitempty"`
	URL          *string    `json:"url,omitempty"`
	SpecialtyID  *uuid.UUID `json:"specialty_id,omitempty"`
}

func (g *Guideline) snapshot() snapshot {
	return snapshot{
		Title:        g.Title,
		Organization: g.Organization,
		Year:         g.Year,
		Summary:      g.Summary,
		URL:          g.URL,
		SpecialtyID:  g.SpecialtyID,
	}
}
