// Package api defines the JSON payloads and responses shared by the server and the CLI.
package api

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// CreateUserPayload is the body of POST /users.
type CreateUserPayload struct {
	Username string `json:"username" validate:"required,max=50,excludesall=/"`
	Password string `json:"password" validate:"required"`
}

// LoginPayload is the body of POST /users/{username}/session.
type LoginPayload struct {
	Password string `json:"password" validate:"required"`
}

// CreateEventPayload is the body of POST /events. Content is a pointer so
// that an absent field is rejected while an empty string is accepted.
type CreateEventPayload struct {
	Content *string `json:"content" validate:"required"`
}

// Response wraps every successful response body.
type Response[T any] struct {
	Data T `json:"data"`
}

// ErrorResponse wraps every error response body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the HTTP status code as a string and a user-facing message.
type ErrorBody struct {
	StatusCode string            `json:"status_code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// TokenResponse carries an auth token.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse is a public user profile.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// PostEventResponse acknowledges a stored event.
type PostEventResponse struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
}

// EventResponse is one timeline item.
type EventResponse struct {
	ID        uuid.UUID    `json:"id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	User      UserResponse `json:"user"`
}
