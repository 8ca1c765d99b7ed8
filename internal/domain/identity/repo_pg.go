package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medref/medref/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

func (r *userRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const userCols = `id, username, email, password_hash, role, is_admin, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsAdmin, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if db.NotFound(err) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO app_user (id, username, email, password_hash, role, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.IsAdmin)
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE id = $1`, id))
}

func (r *userRepoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE LOWER(username) = LOWER($1)`, username))
}

func (r *userRepoPG) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM app_user`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+userCols+` FROM app_user ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *userRepoPG) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE app_user SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
	return err
}

type favoriteRepoPG struct{ pool *pgxpool.Pool }

func NewFavoriteRepoPG(pool *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepoPG{pool: pool}
}

func (r *favoriteRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *favoriteRepoPG) Add(ctx context.Context, f *Favorite) error {
	f.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO favorite (id, user_id, item_kind, item_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, item_kind, item_id) DO NOTHING`,
		f.ID, f.UserID, f.Item.Kind, f.Item.ID)
	return err
}

func (r *favoriteRepoPG) Remove(ctx context.Context, userID uuid.UUID, item ItemRef) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM favorite WHERE user_id = $1 AND item_kind = $2 AND item_id = $3`,
		userID, item.Kind, item.ID)
	return err
}

func (r *favoriteRepoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Favorite, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, user_id, item_kind, item_id, created_at
		FROM favorite WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []*Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.Item.Kind, &f.Item.ID, &f.CreatedAt); err != nil {
			return nil, err
		}
		favs = append(favs, &f)
	}
	return favs, rows.Err()
}

// RemoveByItem drops every user's favorite of a deleted entity.
func (r *favoriteRepoPG) RemoveByItem(ctx context.Context, item ItemRef) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM favorite WHERE item_kind = $1 AND item_id = $2`, item.Kind, item.ID)
	return err
}
