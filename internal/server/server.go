package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/config"
	"github.com/hongminglow/ets-hub/internal/http/handlers"
	"github.com/hongminglow/ets-hub/internal/middleware"
	"github.com/hongminglow/ets-hub/internal/observability"
	"github.com/hongminglow/ets-hub/internal/session"
	"github.com/hongminglow/ets-hub/internal/storage"
	"github.com/hongminglow/ets-hub/internal/view"
)

// Deps carries the collaborators built in main.
type Deps struct {
	Storage storage.KV
	Metrics *observability.Metrics
	Views   *view.Engine
	Logger  *zap.Logger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// NewRouter builds the route tree. Exposed for tests.
func NewRouter(cfg config.Config, deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	var recorder session.Recorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}
	manager := session.NewManager(deps.Storage, logger.Named("session"), recorder)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(logger.Named("http")))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(middleware.SecureHeaders(cfg.IsProduction()))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.NewHealthHandler(time.Now(), cfg.StorageDriver).Register(r)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	var limit func(http.Handler) http.Handler
	if cfg.LoginRateLimit > 0 {
		limit = httprate.LimitByIP(cfg.LoginRateLimit, time.Minute)
	}
	var views handlers.ViewRecorder
	if deps.Metrics != nil {
		views = deps.Metrics
	}

	gate := auth.NewAccessGate(cfg.AdminAccessHash)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(middleware.SessionConfig{
			Manager:    manager,
			Tokens:     tokens,
			CookieName: cfg.DeviceCookie,
			CookieTTL:  cfg.SessionTTL,
			Secure:     cfg.IsProduction(),
			Logger:     logger,
		}))
		handlers.NewAuthHandler(tokens, gate, logger.Named("auth"), limit).Register(r)
		handlers.NewMeHandler(gate, logger.Named("me")).Register(r)
		handlers.NewDashboardHandler(deps.Views, views, logger.Named("dashboard")).Register(r)
	})
	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
