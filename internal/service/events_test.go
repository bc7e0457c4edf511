package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/and161185/goph-feed/internal/errs"
	"github.com/gofrs/uuid/v5"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestEventService_ContentBoundary(t *testing.T) {
	t.Parallel()
	repo := &fakeEvents{}
	s := NewEventService(repo, nil)
	author := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	cases := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", nil},
		{"200 ascii", strings.Repeat("a", 200), nil},
		{"201 ascii", strings.Repeat("a", 201), errs.ErrContentTooLong},
		{"200 multibyte", strings.Repeat("я", 200), nil},
		{"201 multibyte", strings.Repeat("я", 201), errs.ErrContentTooLong},
		{"far over", strings.Repeat("x", 5000), errs.ErrContentTooLong},
	}
	for _, tc := range cases {
		_, err := s.Post(ctx, author, tc.content)
		if tc.wantErr == nil && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.wantErr)
		}
	}
	// only the three valid posts reached storage
	if len(repo.rows) != 3 {
		t.Fatalf("stored %d events, want 3", len(repo.rows))
	}
}

func TestEventService_Post_FieldsAndClock(t *testing.T) {
	t.Parallel()
	repo := &fakeEvents{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.FixedZone("X", 3600))
	s := NewEventService(repo, fixedClock(now))
	author := uuid.Must(uuid.NewV4())

	e, err := s.Post(context.Background(), author, "hello")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if e.ID.Version() != uuid.V7 {
		t.Fatalf("event id version=%d, want 7", e.ID.Version())
	}
	if e.UserID != author || e.Content != "hello" {
		t.Fatalf("unexpected event %+v", e)
	}
	want := now.UTC().Truncate(time.Microsecond)
	if !e.CreatedAt.Equal(want) || e.CreatedAt.Location() != time.UTC {
		t.Fatalf("CreatedAt=%v, want %v", e.CreatedAt, want)
	}
	if repo.rows[0] != e {
		t.Fatalf("stored %+v, returned %+v", repo.rows[0], e)
	}
}

func TestEventService_Post_DistinctIDs(t *testing.T) {
	t.Parallel()
	s := NewEventService(&fakeEvents{}, nil)
	author := uuid.Must(uuid.NewV4())

	seen := map[uuid.UUID]bool{}
	for i := 0; i < 100; i++ {
		e, err := s.Post(context.Background(), author, "x")
		if err != nil {
			t.Fatalf("Post: %v", err)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestEventService_Post_StorageError(t *testing.T) {
	t.Parallel()
	s := NewEventService(&fakeEvents{createErr: errors.New("disk full")}, nil)

	_, err := s.Post(context.Background(), uuid.Must(uuid.NewV4()), "x")
	if !errors.Is(err, errs.ErrStorageUnavailable) {
		t.Fatalf("want ErrStorageUnavailable, got %v", err)
	}
}
