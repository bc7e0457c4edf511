package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/and161185/goph-feed/internal/api"
	"github.com/and161185/goph-feed/internal/errs"
	"go.uber.org/zap"
)

// User-facing messages.
const (
	msgGeneric          = "Something went wrong"
	msgHeaderMissing    = "Missing value for 'Authorization' header"
	msgHeaderMalformed  = "Unable to parse Authorization header value"
	msgInvalidToken     = "Invalid auth token"
	msgUsernameTaken    = "Submitted username already taken"
	msgUserNotFound     = "User not found"
	msgUserDoesNotExist = "User does not exist"
	msgSelfFollow       = "You cannot follow yourself"
	msgAlreadyFollowing = "You cannot follow the same user twice"
	msgContentTooLong   = "content too long"
	msgInvalidQuery     = "Invalid query parameter"
	msgBodyTooLarge     = "Request body too large"
	msgNotFound         = "Not found"
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidRequest   = "Invalid request"
)

func respondJSON(log *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn("encode response", zap.Error(err))
	}
}

func respondData[T any](log *zap.Logger, w http.ResponseWriter, status int, data T) {
	respondJSON(log, w, status, api.Response[T]{Data: data})
}

func respondError(log *zap.Logger, w http.ResponseWriter, status int, message string) {
	respondFields(log, w, status, message, nil)
}

func respondFields(log *zap.Logger, w http.ResponseWriter, status int, message string, fields map[string]string) {
	respondJSON(log, w, status, api.ErrorResponse{Error: api.ErrorBody{
		StatusCode: strconv.Itoa(status),
		Message:    message,
		Fields:     fields,
	}})
}

// errorStatus maps a service error to an HTTP status and message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrHeaderMissing):
		return http.StatusBadRequest, msgHeaderMissing
	case errors.Is(err, errs.ErrMalformedHeader):
		return http.StatusBadRequest, msgHeaderMalformed
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, errs.ErrUsernameTaken):
		return http.StatusConflict, msgUsernameTaken
	case errors.Is(err, errs.ErrUserNotFound):
		return http.StatusNotFound, msgUserNotFound
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusForbidden, msgGeneric
	case errors.Is(err, errs.ErrSelfFollow):
		return http.StatusConflict, msgSelfFollow
	case errors.Is(err, errs.ErrAlreadyFollowing):
		return http.StatusConflict, msgAlreadyFollowing
	case errors.Is(err, errs.ErrContentTooLong):
		return http.StatusConflict, msgContentTooLong
	case errors.Is(err, errs.ErrInvalidArgument):
		return http.StatusUnprocessableEntity, msgInvalidRequest
	case errors.Is(err, errs.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, msgGeneric
	default:
		return http.StatusInternalServerError, msgGeneric
	}
}

// respondServiceError writes the error envelope and logs server-side failures.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	respondError(s.log, w, status, msg)
}
