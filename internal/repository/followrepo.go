package repository

import (
	"context"

	"github.com/and161185/goph-feed/internal/model"
	"github.com/gofrs/uuid/v5"
)

// FollowRepository stores directed follow edges.
type FollowRepository interface {
	// Exists reports whether followerID follows followedID.
	Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	// Create inserts an edge. Returns errs.ErrAlreadyExists for a duplicate pair
	// and errs.ErrConstraint for a self-edge.
	Create(ctx context.Context, f *model.Follow) error
	// Following lists users that userID follows.
	Following(ctx context.Context, userID uuid.UUID) ([]model.Identity, error)
	// Followers lists users that follow userID.
	Followers(ctx context.Context, userID uuid.UUID) ([]model.Identity, error)
}
