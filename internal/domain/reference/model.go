package reference

import (
	"time"

	"github.com/google/uuid"
)

// Reference is a citation attached to conditions and medications via link
// tables. References are not version-tracked.
type Reference struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	URL         *string   `db:"url" json:"url,omitempty"`
	Authors     *string   `db:"authors" json:"authors,omitempty"`
	Publication *string   `db:"publication" json:"publication,omitempty"`
	Year        *int      `db:"year" json:"year,omitempty"`
	DOI         *string   `db:"doi" json:"doi,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
