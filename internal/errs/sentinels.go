// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Storage-level sentinels returned by repositories.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConstraint indicates a check constraint violation.
	ErrConstraint = errors.New("constraint violation")
)

// Domain sentinels returned by services.
var (
	// ErrMalformedHeader indicates an absent or unparseable Authorization header.
	ErrMalformedHeader = errors.New("malformed authorization header")

	// ErrUnauthenticated indicates that no user owns the presented token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUsernameTaken indicates registration with an existing username.
	ErrUsernameTaken = errors.New("username taken")

	// ErrUserNotFound indicates that no user has the given username or id.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates a failed password verification.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSelfFollow indicates an attempt to follow oneself.
	ErrSelfFollow = errors.New("self follow")

	// ErrAlreadyFollowing indicates a duplicate follow edge.
	ErrAlreadyFollowing = errors.New("already following")

	// ErrContentTooLong indicates event content over the length limit.
	ErrContentTooLong = errors.New("content too long")

	// ErrStorageUnavailable indicates a durable store failure.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidArgument indicates a malformed request argument.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrHeaderMissing is the absent-header flavour of ErrMalformedHeader.
var ErrHeaderMissing = fmt.Errorf("%w: header is missing", ErrMalformedHeader)
