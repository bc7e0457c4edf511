// Package convert maps domain models to API responses.
package convert

import (
	"github.com/and161185/goph-feed/internal/api"
	"github.com/and161185/goph-feed/internal/model"
)

// ToUser converts an identity.
func ToUser(id model.Identity) api.UserResponse {
	return api.UserResponse{ID: id.ID, Username: id.Username}
}

// ToUsers converts a list of identities; nil input gives an empty, non-nil slice.
func ToUsers(ids []model.Identity) []api.UserResponse {
	out := make([]api.UserResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, ToUser(id))
	}
	return out
}

// ToPostedEvent converts a freshly stored event to its acknowledgement.
func ToPostedEvent(e model.Event) api.PostEventResponse {
	return api.PostEventResponse{ID: e.ID, Content: e.Content}
}

// ToTimeline converts feed items, normalizing timestamps to UTC.
func ToTimeline(items []model.FeedItem) []api.EventResponse {
	out := make([]api.EventResponse, 0, len(items))
	for _, it := range items {
		out = append(out, api.EventResponse{
			ID:        it.ID,
			Content:   it.Content,
			CreatedAt: it.CreatedAt.UTC(),
			User:      ToUser(it.Author),
		})
	}
	return out
}
