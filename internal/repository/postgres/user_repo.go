package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/flexiride/backend/internal/domain/user"
)

var _ user.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const (
	qUserInsert = `
INSERT INTO users (name, email, password_hash, avatar_url, bio, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at;`

	qUserByID = `
SELECT id, name, email, avatar_url, bio, role, created_at, updated_at
FROM users
WHERE id = $1;`

	qUserByEmail = `
SELECT id, name, email, avatar_url, bio, role, created_at, updated_at
FROM users
WHERE email = $1;`

	qUserByEmailWithHash = `
SELECT id, name, email, password_hash, avatar_url, bio, role, created_at, updated_at
FROM users
WHERE email = $1;`

	qUserUpdate = `
UPDATE users
SET name       = $2,
    avatar_url = $3,
    bio        = $4,
    updated_at = NOW()
WHERE id = $1
RETURNING updated_at;`

	qUserUpdatePassword = `
UPDATE users
SET password_hash = $2,
    updated_at    = NOW()
WHERE id = $1;`
)

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.Pool.QueryRow(ctx, qUserInsert,
		u.Name, u.Email, u.PasswordHash, u.AvatarURL, u.Bio, u.Role).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user.ErrEmailExists
		}
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	err := r.db.Pool.QueryRow(ctx, qUserByID, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.Bio, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("user by id: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	err := r.db.Pool.QueryRow(ctx, qUserByEmail, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.Bio, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return &u, nil
}

// GetByEmailWithHash is the only read that returns password_hash.
func (r *UserRepo) GetByEmailWithHash(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	err := r.db.Pool.QueryRow(ctx, qUserByEmailWithHash, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.AvatarURL, &u.Bio, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("user by email with hash: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.Pool.QueryRow(ctx, qUserUpdate, u.ID, u.Name, u.AvatarURL, u.Bio).
		Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrNotFound
		}
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, newHash string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, qUserUpdatePassword, id, newHash)
	if err != nil {
		return fmt.Errorf("user update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}
