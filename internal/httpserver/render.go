package httpserver

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/ilibrarian/librarian/internal/library"
	"github.com/ilibrarian/librarian/internal/platform/httpx"
	"github.com/ilibrarian/librarian/internal/platform/pagination"
	"github.com/ilibrarian/librarian/internal/platform/requestctx"
	"github.com/ilibrarian/librarian/internal/views"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pages = []string{"items", "catalog", "index", "item", "error"}

// parseTemplates builds one template set per page, each sharing the base layout.
func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).ParseFS(templateFS, "templates/base.tmpl", "templates/"+page+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		out[page] = t
	}
	return out, nil
}

// render executes page into a buffer first so template failures never leave a
// half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, status int, data any) {
	t, ok := s.templates[page]
	if !ok {
		s.renderFallback(w, r, fmt.Errorf("unknown template %q", page))
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		s.renderFallback(w, r, fmt.Errorf("execute %s template: %w", page, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	s.metrics.rendered(page)
}

func (s *Server) renderFallback(w http.ResponseWriter, r *http.Request, err error) {
	requestctx.Logger(r.Context()).Error("template render failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// classify maps handler errors onto a status, an API error code and the detail
// safe to show to the client.
func (s *Server) classify(r *http.Request, err error) (int, string, string) {
	logger := requestctx.Logger(r.Context())
	switch {
	case errors.Is(err, pagination.ErrValidation):
		s.metrics.paginationError("validation")
		logger.Info("rejected listing request", zap.Error(err))
		return http.StatusBadRequest, "invalid_request", err.Error()
	case errors.Is(err, pagination.ErrConfiguration):
		s.metrics.paginationError("configuration")
		logger.Error("listing misconfigured", zap.Error(err))
		return http.StatusInternalServerError, "configuration_error", ""
	case errors.Is(err, library.ErrNotFound):
		return http.StatusNotFound, "not_found", ""
	default:
		logger.Error("request failed", zap.Error(err))
		return http.StatusInternalServerError, "internal_error", ""
	}
}

// fail renders the error page for err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _, detail := s.classify(r, err)
	s.renderError(w, r, status, detail)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	s.render(w, r, "error", status, views.BuildErrorView(s.env(r), status, detail))
}

// failJSON writes err as the JSON error envelope.
func (s *Server) failJSON(w http.ResponseWriter, r *http.Request, err error) {
	status, code, detail := s.classify(r, err)
	message := detail
	if message == "" {
		message = http.StatusText(status)
	}
	envelope := httpx.NewError(code, message, status)
	var invalid *pagination.ValidationError
	if errors.As(err, &invalid) {
		envelope = envelope.WithField(invalid.Field)
	}
	httpx.WriteError(r.Context(), w, envelope)
}
