package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/and161185/goph-feed/internal/model"
	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

const timelineRe = `SELECT e.id, e.content, e.created_at, u.id, u.username FROM events e JOIN users u ON u.id = e.user_id ` +
	`WHERE e.user_id = \$1 OR e.user_id IN \(SELECT followed_id FROM follows WHERE follower_id = \$1\) ` +
	`ORDER BY e.created_at DESC, e.id DESC LIMIT \$2 OFFSET \$3`

func TestEventRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)
	e := &model.Event{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    uuid.Must(uuid.NewV4()),
		Content:   "hello",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec(`INSERT INTO events \(id, user_id, content, created_at, updated_at\) VALUES \(\$1, \$2, \$3, \$4, \$4\)`).
		WithArgs(e.ID, e.UserID, e.Content, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(context.Background(), e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_Timeline(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)
	viewer := uuid.Must(uuid.NewV4())
	other := uuid.Must(uuid.NewV4())
	e1, e2 := uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())
	t1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(-time.Minute)

	mock.ExpectQuery(timelineRe).
		WithArgs(viewer, 2, 4).
		WillReturnRows(pgxmock.NewRows([]string{"id", "content", "created_at", "id", "username"}).
			AddRow(e1, "y", t1, other, "bob").
			AddRow(e2, "mine", t2, viewer, "alice"))

	items, err := r.Timeline(context.Background(), viewer, 2, 4)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, model.FeedItem{ID: e1, Content: "y", CreatedAt: t1, Author: model.Identity{ID: other, Username: "bob"}}, items[0])
	require.Equal(t, "alice", items[1].Author.Username)
}

func TestEventRepo_Timeline_EmptyIsNotNil(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewEventRepo(db)
	viewer := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(timelineRe).
		WithArgs(viewer, 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "content", "created_at", "id", "username"}))

	items, err := r.Timeline(context.Background(), viewer, 20, 0)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}
