// Package service contains application services for accounts, follows, events and timelines.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	pkgcrypto "github.com/and161185/goph-feed/internal/crypto"
	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/model"
	"github.com/and161185/goph-feed/internal/repository"
	"github.com/gofrs/uuid/v5"
)

var bearerRe = regexp.MustCompile(`^Bearer (.*)$`)

// PasswordHasher derives and verifies secret-bound password hashes.
type PasswordHasher interface {
	HashPassword(password, salt []byte) []byte
	VerifyPassword(password, salt, expected []byte) bool
}

// AuthService defines credential and token operations.
type AuthService interface {
	// Register creates a user and its first token.
	Register(ctx context.Context, username, password string) (userID uuid.UUID, token string, err error)
	// VerifyLogin checks the password and returns the user's token.
	VerifyLogin(ctx context.Context, username, password string) (token string, err error)
	// Revoke deletes a token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
	// Authenticate resolves an Authorization header value to an identity.
	Authenticate(ctx context.Context, header string) (model.Identity, error)
}

// AuthServiceImpl implements AuthService over user and token repositories.
type AuthServiceImpl struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	hasher   PasswordHasher
	newToken func() (string, error)
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, hasher PasswordHasher) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, hasher: hasher, newToken: pkgcrypto.NewToken}
}

// Register hashes the password and stores the user with a fresh token in one transaction.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (uuid.UUID, string, error) {
	if username == "" || password == "" {
		return uuid.Nil, "", fmt.Errorf("%w: empty username/password", errs.ErrInvalidArgument)
	}

	// fast path; the unique index is the real guard
	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return uuid.Nil, "", errs.ErrUsernameTaken
	case !errors.Is(err, errs.ErrNotFound):
		return uuid.Nil, "", storageErr(err)
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, "", err
	}
	saltAuth, err := pkgcrypto.RandBytes(pkgcrypto.SaltLen)
	if err != nil {
		return uuid.Nil, "", err
	}
	tok, err := s.mintToken(uid)
	if err != nil {
		return uuid.Nil, "", err
	}

	u := &model.User{
		ID:       uid,
		Username: username,
		PwdHash:  s.hasher.HashPassword([]byte(password), saltAuth),
		SaltAuth: saltAuth,
	}
	if err := s.users.CreateWithToken(ctx, u, tok); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return uuid.Nil, "", errs.ErrUsernameTaken
		}
		return uuid.Nil, "", storageErr(err)
	}
	return uid, tok.Token, nil
}

// VerifyLogin returns the oldest token of the user, minting one if all were revoked.
func (s *AuthServiceImpl) VerifyLogin(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.ErrUserNotFound
		}
		return "", storageErr(err)
	}
	if !s.hasher.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		return "", errs.ErrInvalidCredentials
	}

	tok, err := s.tokens.FirstForUser(ctx, u.ID)
	if err == nil {
		return tok.Token, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return "", storageErr(err)
	}

	tok, err = s.mintToken(u.ID)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Create(ctx, tok); err != nil {
		return "", storageErr(err)
	}
	return tok.Token, nil
}

// Revoke deletes the token row.
func (s *AuthServiceImpl) Revoke(ctx context.Context, token string) error {
	return storageErr(s.tokens.Delete(ctx, token))
}

// Authenticate parses "Bearer <token>" and resolves the token owner.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, header string) (model.Identity, error) {
	if header == "" {
		return model.Identity{}, errs.ErrHeaderMissing
	}
	m := bearerRe.FindStringSubmatch(header)
	if m == nil {
		return model.Identity{}, errs.ErrMalformedHeader
	}
	token := m[1]
	if token == "" {
		return model.Identity{}, errs.ErrUnauthenticated
	}

	id, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Identity{}, errs.ErrUnauthenticated
		}
		return model.Identity{}, storageErr(err)
	}
	return *id, nil
}

func (s *AuthServiceImpl) mintToken(userID uuid.UUID) (*model.AuthToken, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	value, err := s.newToken()
	if err != nil {
		return nil, err
	}
	return &model.AuthToken{ID: id, UserID: userID, Token: value}, nil
}
