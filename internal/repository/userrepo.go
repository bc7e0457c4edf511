// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/goph-feed/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository provides access to user accounts.
type UserRepository interface {
	// CreateWithToken inserts a new user together with its first auth token in one transaction.
	// Returns errs.ErrAlreadyExists when the username is taken.
	CreateWithToken(ctx context.Context, u *model.User, tok *model.AuthToken) error
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// TokenResolver resolves an opaque bearer token to the identity that owns it.
type TokenResolver interface {
	// Resolve returns errs.ErrNotFound when no user owns the token.
	Resolve(ctx context.Context, token string) (*model.Identity, error)
}

// TokenRepository stores opaque auth tokens.
type TokenRepository interface {
	TokenResolver
	// Create inserts a token.
	Create(ctx context.Context, tok *model.AuthToken) error
	// FirstForUser returns the oldest token of a user.
	FirstForUser(ctx context.Context, userID uuid.UUID) (*model.AuthToken, error)
	// Delete removes a token by value. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
