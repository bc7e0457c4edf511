package service

import (
	"context"

	"github.com/and161185/goph-feed/internal/model"
	"github.com/and161185/goph-feed/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// FeedService assembles timelines.
type FeedService interface {
	// Timeline returns one page of the viewer's merged feed, newest first.
	Timeline(ctx context.Context, viewerID uuid.UUID, page, pageSize int) ([]model.FeedItem, error)
}

// FeedServiceImpl implements FeedService over a FeedRepository.
type FeedServiceImpl struct {
	feed repository.FeedRepository
}

// NewFeedService constructs FeedService.
func NewFeedService(feed repository.FeedRepository) *FeedServiceImpl {
	return &FeedServiceImpl{feed: feed}
}

// Timeline clamps the page request and delegates to the single feed query.
func (s *FeedServiceImpl) Timeline(ctx context.Context, viewerID uuid.UUID, page, pageSize int) ([]model.FeedItem, error) {
	p := model.NewPage(page, pageSize)
	items, err := s.feed.Timeline(ctx, viewerID, p.Size, p.Offset())
	if err != nil {
		return nil, storageErr(err)
	}
	if items == nil {
		items = []model.FeedItem{}
	}
	return items, nil
}
