package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medref/medref/internal/platform/auth"
	"github.com/medref/medref/internal/platform/db"
)

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrEmailTaken     = errors.New("email already registered")
	ErrUnknownItem    = errors.New("favorited item does not exist")
)

type Service struct {
	users     UserRepository
	favorites FavoriteRepository
	checkers  map[string]ReferentChecker
	secret    []byte
	tokenTTL  time.Duration
}

func NewService(users UserRepository, favorites FavoriteRepository, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		users:     users,
		favorites: favorites,
		checkers:  make(map[string]ReferentChecker),
		secret:    secret,
		tokenTTL:  tokenTTL,
	}
}

// RegisterChecker wires the existence check for one item kind. Favorites of
// a kind with no checker are rejected.
func (s *Service) RegisterChecker(kind string, checker ReferentChecker) {
	s.checkers[kind] = checker
}

// Register creates a user account with a bcrypt password hash. The role
// defaults to viewer.
func (s *Service) Register(ctx context.Context, username, email, password, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, errors.New("username must be at least 3 characters")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if role == "" {
		role = RoleViewer
	}
	switch role {
	case RoleViewer, RoleEditor, RoleAdmin:
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsAdmin:      role == RoleAdmin,
	}
	if email != "" {
		u.Email = &email
	}
	if err := s.users.Create(ctx, u); err != nil {
		if db.UniqueViolation(err) {
			if db.ConstraintName(err) == "app_user_email_key" {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies credentials and issues a signed token. Last login is
// stamped on success.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, *User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if db.NotFound(err) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}

	token, err := auth.IssueToken(s.secret, u.ID, u.Username, u.Role, u.IsAdmin, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

// AddFavorite records a favorite after verifying the referenced entity
// exists. Favoriting the same item twice is a no-op success.
func (s *Service) AddFavorite(ctx context.Context, userID uuid.UUID, item ItemRef) (*Favorite, error) {
	if !ValidItemKind(item.Kind) {
		return nil, fmt.Errorf("unknown item kind %q", item.Kind)
	}
	checker, ok := s.checkers[item.Kind]
	if !ok {
		return nil, fmt.Errorf("no existence check registered for kind %q", item.Kind)
	}
	exists, err := checker.Exists(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownItem
	}

	f := &Favorite{UserID: userID, Item: item}
	if err := s.favorites.Add(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) RemoveFavorite(ctx context.Context, userID uuid.UUID, item ItemRef) error {
	if !ValidItemKind(item.Kind) {
		return fmt.Errorf("unknown item kind %q", item.Kind)
	}
	return s.favorites.Remove(ctx, userID, item)
}

// Favorites lists a user's favorites, pruning entries whose referent has
// been deleted since they were added. Pruning removes the stale item for
// every user, not just the caller.
func (s *Service) Favorites(ctx context.Context, userID uuid.UUID) ([]*Favorite, error) {
	all, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	live := make([]*Favorite, 0, len(all))
	for _, f := range all {
		checker, ok := s.checkers[f.Item.Kind]
		if !ok {
			live = append(live, f)
			continue
		}
		exists, err := checker.Exists(ctx, f.Item.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			if err := s.favorites.RemoveByItem(ctx, f.Item); err != nil {
				return nil, err
			}
			continue
		}
		live = append(live, f)
	}
	return live, nil
}
