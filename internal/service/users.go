package service

import (
	"context"
	"errors"

	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/model"
	"github.com/and161185/goph-feed/internal/repository"
)

// UserService exposes public profile lookups.
type UserService interface {
	// ByUsername returns the public identity of a user.
	ByUsername(ctx context.Context, username string) (model.Identity, error)
}

// UserServiceImpl implements UserService.
type UserServiceImpl struct {
	users repository.UserRepository
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

// ByUsername maps a missing user to errs.ErrUserNotFound.
func (s *UserServiceImpl) ByUsername(ctx context.Context, username string) (model.Identity, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Identity{}, errs.ErrUserNotFound
		}
		return model.Identity{}, storageErr(err)
	}
	return u.Identity(), nil
}
