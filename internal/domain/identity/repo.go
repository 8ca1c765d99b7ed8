package identity

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, f *Favorite) error
	Remove(ctx context.Context, userID uuid.UUID, item ItemRef) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Favorite, error)
	RemoveByItem(ctx context.Context, item ItemRef) error
}

// ReferentChecker reports whether a favorited entity still exists. Each item
// kind gets its own checker so the identity package stays decoupled from the
// catalog packages.
type ReferentChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
