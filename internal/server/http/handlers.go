package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/and161185/goph-feed/internal/api"
	"github.com/and161185/goph-feed/internal/convert"
	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/metrics"
	"github.com/and161185/goph-feed/internal/model"
)

// --- Users ---

// CreateUser registers an account and returns its first token.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var p api.CreateUserPayload
	if !s.decodeAndValidate(w, r, &p) {
		return
	}
	_, token, err := s.auth.Register(r.Context(), p.Username, p.Password)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	metrics.Registrations.Inc()
	respondData(s.log, w, http.StatusCreated, api.TokenResponse{Token: token})
}

// GetUser returns a public profile.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userByPath(w, r)
	if !ok {
		return
	}
	respondData(s.log, w, http.StatusOK, convert.ToUser(id))
}

// Login verifies the password and returns the user's token.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var p api.LoginPayload
	if !s.decodeAndValidate(w, r, &p) {
		return
	}
	token, err := s.auth.VerifyLogin(r.Context(), chi.URLParam(r, "username"), p.Password)
	metrics.Logins.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondData(s.log, w, http.StatusCreated, api.TokenResponse{Token: token})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, errs.ErrUserNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, errs.ErrInvalidCredentials):
		return metrics.ResultDenied
	default:
		return metrics.ResultError
	}
}

// Logout revokes the token that authenticated this request. The username
// segment is not consulted.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenFromCtx(r.Context())
	if !ok {
		respondError(s.log, w, http.StatusUnauthorized, msgInvalidToken)
		return
	}
	if err := s.auth.Revoke(r.Context(), token); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondData[any](s.log, w, http.StatusOK, nil)
}

// --- Follows ---

// Follow makes the caller follow the user in the path.
func (s *Server) Follow(w http.ResponseWriter, r *http.Request) {
	me, _ := IdentityFromCtx(r.Context())
	target, ok := s.userByPath(w, r)
	if !ok {
		return
	}
	if err := s.follows.Follow(r.Context(), me.ID, target.ID); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	metrics.Follows.Inc()
	respondData[any](s.log, w, http.StatusCreated, nil)
}

// Following lists users followed by the user in the path.
func (s *Server) Following(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userByPath(w, r)
	if !ok {
		return
	}
	list, err := s.follows.FollowingOf(r.Context(), id.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondData(s.log, w, http.StatusOK, convert.ToUsers(list))
}

// Followers lists users following the user in the path.
func (s *Server) Followers(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userByPath(w, r)
	if !ok {
		return
	}
	list, err := s.follows.FollowersOf(r.Context(), id.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondData(s.log, w, http.StatusOK, convert.ToUsers(list))
}

// --- Me ---

// Me returns the caller's identity.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	me, _ := IdentityFromCtx(r.Context())
	respondData(s.log, w, http.StatusOK, convert.ToUser(me))
}

// Timeline returns one page of the caller's feed.
func (s *Server) Timeline(w http.ResponseWriter, r *http.Request) {
	me, _ := IdentityFromCtx(r.Context())

	page, err := queryInt(r, "page", 1)
	if err != nil {
		respondError(s.log, w, http.StatusBadRequest, msgInvalidQuery)
		return
	}
	size, err := queryInt(r, "page_size", model.DefaultPageSize)
	if err != nil {
		respondError(s.log, w, http.StatusBadRequest, msgInvalidQuery)
		return
	}

	items, err := s.feed.Timeline(r.Context(), me.ID, page, size)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	metrics.TimelineItems.Observe(float64(len(items)))
	respondData(s.log, w, http.StatusOK, convert.ToTimeline(items))
}

// queryInt returns def for an absent parameter. An explicit 0 is kept;
// negative values are rejected.
func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: negative value %d", key, n)
	}
	return n, nil
}

// --- Events ---

// PostEvent stores a new event authored by the caller.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	me, _ := IdentityFromCtx(r.Context())

	var p api.CreateEventPayload
	if !s.decodeAndValidate(w, r, &p) {
		return
	}
	e, err := s.events.Post(r.Context(), me.ID, *p.Content)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	metrics.EventsPosted.Inc()
	respondData(s.log, w, http.StatusCreated, convert.ToPostedEvent(e))
}

// userByPath resolves {username}; it answers 404 "User does not exist" itself.
func (s *Server) userByPath(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	id, err := s.users.ByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			respondError(s.log, w, http.StatusNotFound, msgUserDoesNotExist)
			return model.Identity{}, false
		}
		s.respondServiceError(w, r, err)
		return model.Identity{}, false
	}
	return id, true
}
