package httpserver

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type healthResponse struct {
	Status string `json:"status"`
}

// Healthz is a liveness probe.
func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(s.log, w, http.StatusOK, healthResponse{Status: "ok"})
}

// Readyz pings the database.
func (s *Server) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn("readiness check failed", zap.Error(err))
		respondJSON(s.log, w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	respondJSON(s.log, w, http.StatusOK, healthResponse{Status: "ok"})
}
