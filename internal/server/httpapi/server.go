// Package httpapi serves the authentication API over HTTP with JSON bodies.
// Routes declare the roles they require; a bearer token middleware resolves
// the caller and the role gate decides before any handler runs.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
	"github.com/gorilla/mux"
)

type CredentialService interface {
	Register(ctx context.Context, email, password, fullName string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	CheckStatus(ctx context.Context, account *models.Account) (*services.Session, error)
}

type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.Account, error)
}

type AccountAdmin interface {
	SetRoles(ctx context.Context, id string, roles []models.Role) (*models.Account, error)
	SetActive(ctx context.Context, id string, active bool) (*models.Account, error)
}

const defaultShutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address         string
	prefix          string
	shutdownTimeout time.Duration
	credentials     CredentialService
	identity        IdentityResolver
	admin           AccountAdmin
	metrics         *metrics.Metrics
	logger          logging.Logger
}

// Option customizes an HTTPServer.
type Option func(*HTTPServer)

// WithPrefix mounts every API route under prefix, e.g. "/api".
func WithPrefix(prefix string) Option {
	return func(s *HTTPServer) {
		s.prefix = prefix
	}
}

// WithMetrics instruments requests, records role gate decisions and serves
// GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *HTTPServer) {
		s.metrics = m
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *HTTPServer) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

func NewHTTPServer(a string, l logging.Logger, cs CredentialService, ir IdentityResolver, aa AccountAdmin, opts ...Option) *HTTPServer {
	s := &HTTPServer{
		address:         a,
		shutdownTimeout: defaultShutdownTimeout,
		credentials:     cs,
		identity:        ir,
		admin:           aa,
		logger:          l.With("module", "http_server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// route is one API endpoint. Authenticated routes run the bearer middleware
// and then the role gate with roles; an empty roles list admits any
// authenticated account.
type route struct {
	method        string
	path          string
	authenticated bool
	roles         []models.Role
	handler       http.HandlerFunc
}

func (s *HTTPServer) routes() []route {
	return []route{
		{method: http.MethodPost, path: "/auth/register", handler: s.register},
		{method: http.MethodPost, path: "/auth/login", handler: s.login},
		{method: http.MethodGet, path: "/auth/check-status", authenticated: true, handler: s.checkStatus},
		{method: http.MethodGet, path: "/auth/private", authenticated: true, handler: s.private},
		{method: http.MethodGet, path: "/auth/private2", authenticated: true,
			roles: []models.Role{models.RoleSuperUser, models.RoleAdmin}, handler: s.privateWithRoles},
		{method: http.MethodGet, path: "/auth/private3", authenticated: true,
			roles: []models.Role{models.RoleAdmin}, handler: s.privateWithRoles},
		{method: http.MethodPatch, path: "/auth/users/{id}/roles", authenticated: true,
			roles: []models.Role{models.RoleAdmin}, handler: s.setRoles},
		{method: http.MethodPatch, path: "/auth/users/{id}/active", authenticated: true,
			roles: []models.Role{models.RoleAdmin}, handler: s.setActive},
	}
}

// Router builds the request multiplexer.
func (s *HTTPServer) Router() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(notFound)
	r.Use(s.recoverer, s.requestLogger)

	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := r
	if s.prefix != "" {
		api = r.PathPrefix(s.prefix).Subrouter()
	}

	for _, rt := range s.routes() {
		var h http.Handler = rt.handler
		if rt.authenticated {
			h = s.authenticate(s.requireRoles(rt.roles, h))
		}
		api.Handle(rt.path, h).Methods(rt.method)
	}

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeErrorBody(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
}

func (s *HTTPServer) observeDecision(d auth.Decision) {
	if s.metrics != nil {
		s.metrics.ObserveDecision(d)
	}
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
