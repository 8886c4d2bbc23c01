// Package httptransport assembles the public HTTP router.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"universitas/internal/platform/health"
	"universitas/pkg/platform/middleware/auth"
	"universitas/pkg/platform/middleware/request"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultMaxBodyBytes   = 1 << 20
)

// RouteRegistrar mounts a module's routes on a chi router.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Config carries everything the router needs. Auth and Students are
// mounted under /api; Students sits behind bearer authentication.
type Config struct {
	Logger *slog.Logger

	Auth     RouteRegistrar
	Students RouteRegistrar
	Health   *health.Handler

	TokenValidator auth.JWTValidator
	Revocations    auth.TokenRevocationChecker
	Latency        request.LatencyObserver

	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// NewRouter wires the middleware chain and every public endpoint.
func NewRouter(cfg Config) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.ClientMetadata)
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.Latency(cfg.Latency))
	r.Use(request.Timeout(timeout))
	r.Use(request.BodyLimit(maxBody))
	r.Use(request.ContentTypeJSON)

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.Auth != nil {
			cfg.Auth.Register(api)
		}
		if cfg.Students != nil {
			api.Group(func(protected chi.Router) {
				protected.Use(auth.RequireAuth(cfg.TokenValidator, cfg.Revocations, cfg.Logger))
				cfg.Students.Register(protected)
			})
		}
	})

	return r
}
