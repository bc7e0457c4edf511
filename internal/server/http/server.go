// Package httpserver exposes the feed HTTP API.
package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/and161185/goph-feed/internal/metrics"
	"github.com/and161185/goph-feed/internal/service"
)

// Pinger reports storage reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the application services used by handlers.
type Services struct {
	Auth    service.AuthService
	Users   service.UserService
	Follows service.FollowService
	Events  service.EventService
	Feed    service.FeedService
}

// Server wires services into HTTP handlers.
type Server struct {
	auth    service.AuthService
	users   service.UserService
	follows service.FollowService
	events  service.EventService
	feed    service.FeedService
	db      Pinger
	log     *zap.Logger
	maxBody int64
}

// New constructs a Server with injected services.
func New(svc Services, db Pinger, log *zap.Logger, maxBody int64) *Server {
	return &Server{
		auth:    svc.Auth,
		users:   svc.Users,
		follows: svc.Follows,
		events:  svc.Events,
		feed:    svc.Feed,
		db:      db,
		log:     log,
		maxBody: maxBody,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(Recover(s.log))
	r.Use(metrics.Middleware)
	r.Use(Logging(s.log))
	r.Use(BodyLimit(s.maxBody))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(s.log, w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(s.log, w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	r.Get("/healthz", s.Healthz)
	r.Get("/readyz", s.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := s.RequireAuth(s.auth)

	r.Post("/users", s.CreateUser)
	r.Route("/users/{username}", func(r chi.Router) {
		r.Get("/", s.GetUser)
		r.Post("/session", s.Login)
		r.With(requireAuth).Delete("/session", s.Logout)
		r.With(requireAuth).Post("/follow", s.Follow)
		r.Get("/following", s.Following)
		r.Get("/followers", s.Followers)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", s.Me)
		r.Get("/me/timeline", s.Timeline)
		r.Post("/events", s.PostEvent)
	})

	return r
}
