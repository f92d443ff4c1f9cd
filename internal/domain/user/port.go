package user

import "context"

// Repo is the user directory. GetByEmail leaves PasswordHash empty; only
// GetByEmailWithHash returns it, for credential checks.
type Repo interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailWithHash(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id int64, newHash string) error
}
