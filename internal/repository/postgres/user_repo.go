package postgres

import (
	"context"
	"errors"

	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/model"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// CreateWithToken inserts the user row and its first token atomically.
func (r *UserRepo) CreateWithToken(ctx context.Context, u *model.User, tok *model.AuthToken) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const insUser = `
INSERT INTO users (id, username, pwd_hash, salt_auth)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	const insToken = `
INSERT INTO auth_tokens (id, user_id, token)
VALUES ($1, $2, $3)
RETURNING created_at`

	if err = tx.QueryRow(ctx, insUser, u.ID, u.Username, u.PwdHash, u.SaltAuth).Scan(&u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}
	if err = tx.QueryRow(ctx, insToken, tok.ID, tok.UserID, tok.Token).Scan(&tok.CreatedAt); err != nil {
		return err
	}
	return nil
}

// GetByUsername selects a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `
SELECT id, username, pwd_hash, salt_auth, created_at
FROM users WHERE username=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, username))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.PwdHash, &u.SaltAuth, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
