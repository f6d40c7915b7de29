package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/ilibrarian/librarian/internal/platform/httpx"
	"github.com/ilibrarian/librarian/internal/platform/requestctx"
)

const readinessTimeout = 2 * time.Second

// healthz reports liveness with the process uptime.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"started":    humanize.RelTime(s.startedAt, now, "ago", "from now"),
		"uptime_sec": int64(now.Sub(s.startedAt).Seconds()),
		"timestamp":  now.UTC().Format(time.RFC3339),
	})
}

// readyz reports whether the store answers.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		requestctx.Logger(r.Context()).Warn("store not ready", zap.Error(err))
		httpx.WriteError(r.Context(), w, httpx.NewError("store_unavailable", "library store is unavailable", http.StatusServiceUnavailable))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
