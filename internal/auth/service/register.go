package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"universitas/internal/auth/models"
	"universitas/internal/auth/password"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/platform/sentinel"
	"universitas/pkg/requestcontext"
)

// Register validates a registration request, hashes the password and stores
// the new account. The stored role is the one derived from the email domain.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (result *models.RegistrationResult, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "auth.Register")
	defer func() {
		s.observeRegisterDuration(float64(time.Since(start).Milliseconds()))
		endSpan(span, err)
	}()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	validated, err := s.policy.ValidateRegistration(ctx, req)
	if err != nil {
		s.rejectRegistration(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("account.role", validated.Role.String()))

	hash, err := s.hasher.Hash(validated.Password)
	if errors.Is(err, password.ErrTooLong) {
		tooLong := dErrors.NewField(dErrors.CodePasswordTooLong, "password", "Password is too long.")
		s.rejectRegistration(ctx, tooLong)
		return nil, tooLong
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	account := models.NewAccount(validated, hash, requestcontext.Now(ctx))
	if err := s.accounts.Create(ctx, account); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			dup := dErrors.NewField(dErrors.CodeEmailAlreadyRegistered, "email", "Email is already registered.")
			s.rejectRegistration(ctx, dup)
			return nil, dup
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	s.logAudit(ctx, "user_registered",
		"user_id", account.ID.String(),
		"role", account.Role.String(),
		"major", account.Major,
	)
	s.incrementUsersRegistered(account.Role.String())
	span.AddEvent("account_created")

	return models.NewRegistrationResult(account), nil
}

func (s *Service) rejectRegistration(ctx context.Context, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) || !de.Code.IsValidation() {
		return
	}
	s.logger.InfoContext(ctx, "registration rejected",
		"code", string(de.Code),
		"field", de.Field,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.incrementRegistrationRejections(string(de.Code))
}
