package service

import (
	"context"
	"errors"

	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/model"
	"github.com/and161185/goph-feed/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// FollowService manages the follow graph.
type FollowService interface {
	// IsFollowing reports whether followerID follows followedID.
	IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	// Follow creates the edge followerID -> followedID.
	Follow(ctx context.Context, followerID, followedID uuid.UUID) error
	// FollowingOf lists users that userID follows.
	FollowingOf(ctx context.Context, userID uuid.UUID) ([]model.Identity, error)
	// FollowersOf lists users following userID.
	FollowersOf(ctx context.Context, userID uuid.UUID) ([]model.Identity, error)
}

// FollowServiceImpl implements FollowService.
type FollowServiceImpl struct {
	follows repository.FollowRepository
}

// NewFollowService constructs FollowService.
func NewFollowService(follows repository.FollowRepository) *FollowServiceImpl {
	return &FollowServiceImpl{follows: follows}
}

// IsFollowing is a pure lookup.
func (s *FollowServiceImpl) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	ok, err := s.follows.Exists(ctx, followerID, followedID)
	if err != nil {
		return false, storageErr(err)
	}
	return ok, nil
}

// Follow rejects self-edges before touching storage. The pre-check only
// produces a friendlier error; concurrent duplicates are caught by the
// unique constraint.
func (s *FollowServiceImpl) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return errs.ErrSelfFollow
	}

	exists, err := s.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if exists {
		return errs.ErrAlreadyFollowing
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	err = s.follows.Create(ctx, &model.Follow{ID: id, FollowerID: followerID, FollowedID: followedID})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrAlreadyExists):
		return errs.ErrAlreadyFollowing
	case errors.Is(err, errs.ErrConstraint):
		return errs.ErrSelfFollow
	default:
		return storageErr(err)
	}
}

// FollowingOf lists followed users ordered by username.
func (s *FollowServiceImpl) FollowingOf(ctx context.Context, userID uuid.UUID) ([]model.Identity, error) {
	out, err := s.follows.Following(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// FollowersOf lists followers ordered by username.
func (s *FollowServiceImpl) FollowersOf(ctx context.Context, userID uuid.UUID) ([]model.Identity, error) {
	out, err := s.follows.Followers(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}
