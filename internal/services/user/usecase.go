package user

import (
	"context"
	"errors"
	"fmt"

	domainuser "github.com/flexiride/backend/internal/domain/user"
)

var ErrNoFields = errors.New("no fields to update")

type Usecase struct {
	users domainuser.Repo
}

func NewUsecase(users domainuser.Repo) *Usecase {
	return &Usecase{users: users}
}

func (u *Usecase) Get(ctx context.Context, id int64) (*domainuser.User, error) {
	rec, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, domainuser.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return rec, nil
}

// UpdateProfileInput carries the only fields a user may change about
// themselves. Email and role are not here on purpose.
type UpdateProfileInput struct {
	Name      *string
	Bio       *string
	AvatarURL *string
}

func (u *Usecase) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*domainuser.User, error) {
	if in.Name == nil && in.Bio == nil && in.AvatarURL == nil {
		return nil, ErrNoFields
	}
	rec, err := u.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		rec.Name = *in.Name
	}
	if in.Bio != nil {
		rec.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		rec.AvatarURL = *in.AvatarURL
	}
	if err := u.users.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return rec, nil
}
