package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/model"
	"github.com/and161185/goph-feed/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// EventService validates and stores new events.
type EventService interface {
	// Post stores content authored by authorID.
	Post(ctx context.Context, authorID uuid.UUID, content string) (model.Event, error)
}

// EventServiceImpl implements EventService.
type EventServiceImpl struct {
	events repository.EventRepository
	now    func() time.Time
}

// NewEventService constructs EventService. A nil clock defaults to time.Now.
func NewEventService(events repository.EventRepository, now func() time.Time) *EventServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &EventServiceImpl{events: events, now: now}
}

// Post checks the length in characters, then inserts the event with a time-ordered id.
func (s *EventServiceImpl) Post(ctx context.Context, authorID uuid.UUID, content string) (model.Event, error) {
	if n := utf8.RuneCountInString(content); n > model.MaxContentLen {
		return model.Event{}, fmt.Errorf("%w: %d > %d", errs.ErrContentTooLong, n, model.MaxContentLen)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Event{}, err
	}
	e := model.Event{
		ID:        id,
		UserID:    authorID,
		Content:   content,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond), // postgres precision
	}
	if err := s.events.Create(ctx, &e); err != nil {
		return model.Event{}, storageErr(err)
	}
	return e, nil
}
