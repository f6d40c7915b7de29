// Package httpserver exposes the library over HTTP: HTML pages, a small JSON API,
// health checks and metrics.
package httpserver

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ilibrarian/librarian/internal/i18n"
	"github.com/ilibrarian/librarian/internal/library"
	"github.com/ilibrarian/librarian/internal/platform/config"
	"github.com/ilibrarian/librarian/internal/platform/httpx"
	"github.com/ilibrarian/librarian/internal/platform/observability"
	"github.com/ilibrarian/librarian/internal/platform/requestctx"
	"github.com/ilibrarian/librarian/internal/views"
)

const (
	apiPrefix      = "/api"
	defaultTimeout = 60 * time.Second
)

// Store is the read side of the library used by the handlers.
type Store interface {
	CountItems(ctx context.Context, f library.Filter) (int, error)
	ListItems(ctx context.Context, f library.Filter, sort library.Sort, offset, limit int) ([]library.Item, error)
	MaxItemID(ctx context.Context) (int, error)
	ItemsInRange(ctx context.Context, start, end int) ([]library.Item, error)
	Item(ctx context.Context, id int) (library.Item, error)
	Author(ctx context.Context, id int) (library.Author, error)
	Tags(ctx context.Context) ([]library.Tag, error)
	Authors(ctx context.Context) ([]library.AuthorCount, error)
	Ping(ctx context.Context) error
}

// Server wires the store, translations and settings into HTTP handlers.
type Server struct {
	store     Store
	bundle    *i18n.Bundle
	library   config.LibraryConfig
	logger    *zap.Logger
	metrics   *Metrics
	templates map[string]*template.Template
	startedAt time.Time
	now       func() time.Time
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the base logger attached to every request.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics replaces the default metrics registry.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the time source used by health reports.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Server. Listing settings are taken as given; invalid ones surface
// as configuration errors when a page is requested.
func New(store Store, bundle *i18n.Bundle, lib config.LibraryConfig, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("httpserver: store is required")
	}
	if bundle == nil {
		return nil, errors.New("httpserver: translation bundle is required")
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:     store,
		bundle:    bundle,
		library:   lib,
		logger:    zap.NewNop(),
		templates: templates,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.startedAt = s.now()
	return s, nil
}

// Handler returns the chi router serving every route.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		observability.InjectLoggerMiddleware(s.logger),
		observability.RequestLoggerMiddleware(),
		observability.RecoveryMiddleware(s.logger, apiPrefix),
		s.metrics.middleware,
		middleware.Timeout(defaultTimeout),
		localeMiddleware(s.bundle),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if isAPI(req) {
			httpx.WriteError(req.Context(), w, httpx.NewError("route_not_found", "no route for "+req.URL.Path, http.StatusNotFound))
			return
		}
		s.renderError(w, req, http.StatusNotFound, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", "method "+req.Method+" not allowed on "+req.URL.Path, http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/items", http.StatusFound)
	})
	r.Route("/items", func(items chi.Router) {
		items.Get("/", s.listItems)
		items.Get("/catalog", s.catalogPage)
		items.Get("/{id:[0-9]+}", s.itemPage)
	})
	r.Get("/tags", s.tagIndex)
	r.Get("/authors", s.authorIndex)

	r.Route(apiPrefix, func(api chi.Router) {
		api.Get("/items", s.apiItems)
	})
	return r
}

func isAPI(r *http.Request) bool {
	return r.URL.Path == apiPrefix || strings.HasPrefix(r.URL.Path, apiPrefix+"/")
}

// env collects the per-request view inputs.
func (s *Server) env(r *http.Request) views.Env {
	return views.Env{
		Bundle:  s.bundle,
		Lang:    requestctx.Lang(r.Context(), s.bundle.Fallback()),
		Theme:   s.library.Theme,
		BaseURL: s.library.BaseURL,
		URL:     *r.URL,
	}
}
