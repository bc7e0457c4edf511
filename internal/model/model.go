// Package model defines domain entities used by services and repositories.
package model

import (
	"math"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Feed page limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 20

	// MaxContentLen is the maximum event length in characters.
	MaxContentLen = 200

	// maxPageNumber keeps Offset within int32 range.
	maxPageNumber = math.MaxInt32 / MaxPageSize
)

// User represents an account stored on the server. The password is never stored in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique, immutable
	PwdHash   []byte    // Argon2id(HMAC(secret, password), SaltAuth)
	SaltAuth  []byte    // per-user auth salt
	CreatedAt time.Time
}

// Identity returns the public part of the user.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}

// Identity is an authenticated or publicly visible user reference.
type Identity struct {
	ID       uuid.UUID
	Username string
}

// AuthToken is an opaque bearer token owned by exactly one user.
type AuthToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID // FK -> users.id
	Token     string    // unique
	CreatedAt time.Time
}

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	ID         uuid.UUID
	FollowerID uuid.UUID
	FollowedID uuid.UUID
	CreatedAt  time.Time
}

// Event is a short immutable text post.
type Event struct {
	ID        uuid.UUID // UUIDv7, doubles as the timeline tie-break
	UserID    uuid.UUID // author
	Content   string
	CreatedAt time.Time
}

// FeedItem is a timeline row: the event joined with its author at read time.
type FeedItem struct {
	ID        uuid.UUID
	Content   string
	CreatedAt time.Time
	Author    Identity
}

// Page is a normalized 1-indexed timeline page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps a raw page request: page < 1 becomes 1 and size above
// MaxPageSize is capped. A size of 0 is honored and yields an empty page;
// callers substitute DefaultPageSize when the size was not given.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if number > maxPageNumber {
		number = maxPageNumber
	}
	switch {
	case size < 0:
		size = 0
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
