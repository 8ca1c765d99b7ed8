package specialty

import (
	"time"

	"github.com/google/uuid"
)

// Specialty maps to the specialty table. Conditions, medications and
// guidelines hang off it.
type Specialty struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
