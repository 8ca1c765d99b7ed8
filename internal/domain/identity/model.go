package identity

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user account can carry. Admins pass every role check.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        *string    `db:"email" json:"email,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	IsAdmin      bool       `db:"is_admin" json:"is_admin"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ItemRef points at one catalog entity by kind and id. The kind tag decides
// which table the id refers to.
type ItemRef struct {
	Kind string    `db:"item_kind" json:"kind"`
	ID   uuid.UUID `db:"item_id" json:"id"`
}

// Item kinds a favorite may reference.
const (
	ItemCondition  = "condition"
	ItemMedication = "medication"
	ItemReference  = "reference"
	ItemGuideline  = "guideline"
)

func ValidItemKind(kind string) bool {
	switch kind {
	case ItemCondition, ItemMedication, ItemReference, ItemGuideline:
		return true
	}
	return false
}

type Favorite struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Item      ItemRef   `json:"item"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
