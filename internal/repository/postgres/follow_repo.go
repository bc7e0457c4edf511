package postgres

import (
	"context"

	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/model"
	"github.com/gofrs/uuid/v5"
)

// FollowRepo implements FollowRepository using PostgreSQL.
type FollowRepo struct{ db *DB }

// NewFollowRepo constructs a follow repository.
func NewFollowRepo(db *DB) *FollowRepo { return &FollowRepo{db: db} }

// Exists reports whether the edge follower -> followed is stored.
func (r *FollowRepo) Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id=$1 AND followed_id=$2)`
	var ok bool
	if err := r.db.Pool.QueryRow(ctx, q, followerID, followedID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Create inserts the edge; the table constraints reject duplicates and self-edges.
func (r *FollowRepo) Create(ctx context.Context, f *model.Follow) error {
	const q = `
INSERT INTO follows (id, follower_id, followed_id)
VALUES ($1, $2, $3)
RETURNING created_at`
	err := r.db.Pool.QueryRow(ctx, q, f.ID, f.FollowerID, f.FollowedID).Scan(&f.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return errs.ErrAlreadyExists
	case isCheckViolation(err):
		return errs.ErrConstraint
	}
	return err
}

// Following lists users followed by userID.
func (r *FollowRepo) Following(ctx context.Context, userID uuid.UUID) ([]model.Identity, error) {
	const q = `
SELECT u.id, u.username
FROM follows f JOIN users u ON u.id = f.followed_id
WHERE f.follower_id=$1
ORDER BY u.username ASC, u.id ASC`
	return r.identities(ctx, q, userID)
}

// Followers lists users following userID.
func (r *FollowRepo) Followers(ctx context.Context, userID uuid.UUID) ([]model.Identity, error) {
	const q = `
SELECT u.id, u.username
FROM follows f JOIN users u ON u.id = f.follower_id
WHERE f.followed_id=$1
ORDER BY u.username ASC, u.id ASC`
	return r.identities(ctx, q, userID)
}

func (r *FollowRepo) identities(ctx context.Context, q string, userID uuid.UUID) ([]model.Identity, error) {
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Identity, 0)
	for rows.Next() {
		var id model.Identity
		if err := rows.Scan(&id.ID, &id.Username); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
