// Package cleanup purges expired entries from persistent revocation lists.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RevocationPurger removes revocations whose tokens can no longer be presented.
type RevocationPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Result summarizes the deletions performed by a cleanup run.
type Result struct {
	PurgedRevocations int64
}

// Service periodically purges expired revocations.
type Service struct {
	purger   RevocationPurger
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures Service.
type Option func(*Service)

// WithInterval overrides the cleanup interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger overrides the logger used for cleanup errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with options applied.
func New(purger RevocationPurger, opts ...Option) (*Service, error) {
	if purger == nil {
		return nil, errors.New("revocation purger is required")
	}
	svc := &Service{
		purger:   purger,
		interval: 10 * time.Minute,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs cleanup periodically until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "revocation cleanup failed", "error", err)
				continue
			}
			if res.PurgedRevocations > 0 {
				s.logger.DebugContext(ctx, "revocation cleanup",
					"purged", res.PurgedRevocations,
				)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single purge.
func (s *Service) RunOnce(ctx context.Context) (Result, error) {
	purged, err := s.purger.PurgeExpired(ctx, s.now())
	if err != nil {
		return Result{}, fmt.Errorf("purge expired revocations: %w", err)
	}
	return Result{PurgedRevocations: purged}, nil
}
