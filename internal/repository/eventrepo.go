package repository

import (
	"context"

	"github.com/and161185/goph-feed/internal/model"
	"github.com/gofrs/uuid/v5"
)

// EventRepository stores authored events.
type EventRepository interface {
	// Create inserts an event.
	Create(ctx context.Context, e *model.Event) error
}

// FeedRepository assembles timelines.
type FeedRepository interface {
	// Timeline returns events authored by viewerID or anyone viewerID follows,
	// newest first with event id as the tie-break, in a single snapshot.
	Timeline(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]model.FeedItem, error)
}
