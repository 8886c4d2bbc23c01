// Package service implements account registration and session token flows.
package service

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"universitas/internal/auth/metrics"
	"universitas/internal/auth/models"
	"universitas/internal/auth/policy"
)

// Config holds the per-deployment settings of the auth service.
type Config struct {
	// InstitutionDomain is the bare instructor domain, e.g. prasetiyamulya.ac.id.
	InstitutionDomain string
	// Majors is the ordered table of selectable majors.
	Majors models.Majors
}

type Service struct {
	accounts AccountStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	trl      TokenRevocationList
	policy   *policy.RegistrationPolicy
	majors   models.Majors
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(accounts AccountStore, hasher PasswordHasher, tokens TokenIssuer, trl TokenRevocationList, cfg *Config, opts ...Option) (*Service, error) {
	if accounts == nil || hasher == nil || tokens == nil || trl == nil {
		return nil, errors.New("auth service: accounts, hasher, tokens and trl are required")
	}
	if cfg == nil || cfg.InstitutionDomain == "" {
		return nil, errors.New("auth service: institution domain is required")
	}
	majors := cfg.Majors
	if len(majors) == 0 {
		majors = models.DefaultMajors()
	}

	svc := &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		trl:      trl,
		policy:   policy.NewRegistrationPolicy(cfg.InstitutionDomain, accounts, majors),
		majors:   majors,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer("universitas/auth")
	}
	return svc, nil
}

// ListMajors returns the selectable majors in table order.
func (s *Service) ListMajors() models.Majors {
	out := make(models.Majors, len(s.majors))
	copy(out, s.majors)
	return out
}
