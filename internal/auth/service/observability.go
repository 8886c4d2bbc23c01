package service

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"universitas/pkg/requestcontext"
)

// Observability helpers for logging, auditing, metrics and tracing.

const eventAuthFailed = "auth_failed"

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

// authFailure logs a rejected login, refresh or logout. Internal failures are
// logged at error level; caller mistakes at warn.
func (s *Service) authFailure(ctx context.Context, reason string, isError bool, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", eventAuthFailed, "reason", reason, "log_type", "audit")
	if isError {
		s.logger.ErrorContext(ctx, eventAuthFailed, args...)
	} else {
		s.logger.WarnContext(ctx, eventAuthFailed, args...)
	}
	if s.metrics != nil {
		s.metrics.IncrementAuthFailures()
	}
}

func (s *Service) incrementUsersRegistered(role string) {
	if s.metrics != nil {
		s.metrics.IncrementUsersRegistered(role)
	}
}

func (s *Service) incrementRegistrationRejections(code string) {
	if s.metrics != nil {
		s.metrics.IncrementRegistrationRejections(code)
	}
}

func (s *Service) incrementLoginAttempts(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementLoginAttempts(outcome)
	}
}

func (s *Service) incrementTokenRefreshes() {
	if s.metrics != nil {
		s.metrics.IncrementTokenRefreshes()
	}
}

func (s *Service) incrementLogouts() {
	if s.metrics != nil {
		s.metrics.IncrementLogouts()
	}
}

func (s *Service) incrementTRLWriteFailures() {
	if s.metrics != nil {
		s.metrics.IncrementTRLWriteFailures()
	}
}

func (s *Service) observeRegisterDuration(durationMs float64) {
	if s.metrics != nil {
		s.metrics.ObserveRegisterDuration(durationMs)
	}
}

func (s *Service) observeLoginDuration(durationMs float64) {
	if s.metrics != nil {
		s.metrics.ObserveLoginDuration(durationMs)
	}
}

// endSpan completes span, recording err when set.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
