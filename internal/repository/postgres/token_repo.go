package postgres

import (
	"context"
	"errors"

	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// TokenRepo implements TokenRepository using PostgreSQL.
type TokenRepo struct{ db *DB }

// NewTokenRepo constructs a token repository.
func NewTokenRepo(db *DB) *TokenRepo { return &TokenRepo{db: db} }

// Create inserts a token row.
func (r *TokenRepo) Create(ctx context.Context, tok *model.AuthToken) error {
	const q = `
INSERT INTO auth_tokens (id, user_id, token)
VALUES ($1, $2, $3)
RETURNING created_at`
	err := r.db.Pool.QueryRow(ctx, q, tok.ID, tok.UserID, tok.Token).Scan(&tok.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// FirstForUser returns the oldest token owned by userID.
func (r *TokenRepo) FirstForUser(ctx context.Context, userID uuid.UUID) (*model.AuthToken, error) {
	const q = `
SELECT id, user_id, token, created_at
FROM auth_tokens WHERE user_id=$1
ORDER BY created_at ASC, id ASC
LIMIT 1`
	var t model.AuthToken
	if err := r.db.Pool.QueryRow(ctx, q, userID).Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Resolve joins the token with its owner.
func (r *TokenRepo) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	const q = `
SELECT u.id, u.username
FROM auth_tokens t JOIN users u ON u.id = t.user_id
WHERE t.token=$1`
	var id model.Identity
	if err := r.db.Pool.QueryRow(ctx, q, token).Scan(&id.ID, &id.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &id, nil
}

// Delete removes the token row if present.
func (r *TokenRepo) Delete(ctx context.Context, token string) error {
	const q = `DELETE FROM auth_tokens WHERE token=$1`
	_, err := r.db.Pool.Exec(ctx, q, token)
	return err
}
