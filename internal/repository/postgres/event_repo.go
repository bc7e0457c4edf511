package postgres

import (
	"context"

	"github.com/and161185/goph-feed/internal/model"
	"github.com/gofrs/uuid/v5"
)

// EventRepo implements EventRepository and FeedRepository using PostgreSQL.
type EventRepo struct{ db *DB }

// NewEventRepo constructs an event repository.
func NewEventRepo(db *DB) *EventRepo { return &EventRepo{db: db} }

// Create inserts an event; created_at and updated_at share the event timestamp.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `
INSERT INTO events (id, user_id, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)`
	_, err := r.db.Pool.Exec(ctx, q, e.ID, e.UserID, e.Content, e.CreatedAt)
	return err
}

// Timeline runs the fan-out-on-read union as one statement.
func (r *EventRepo) Timeline(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]model.FeedItem, error) {
	const q = `
SELECT e.id, e.content, e.created_at, u.id, u.username
FROM events e JOIN users u ON u.id = e.user_id
WHERE e.user_id = $1
   OR e.user_id IN (SELECT followed_id FROM follows WHERE follower_id = $1)
ORDER BY e.created_at DESC, e.id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, q, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FeedItem, 0, limit)
	for rows.Next() {
		var it model.FeedItem
		if err := rows.Scan(&it.ID, &it.Content, &it.CreatedAt, &it.Author.ID, &it.Author.Username); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
