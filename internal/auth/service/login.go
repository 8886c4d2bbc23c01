package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"universitas/internal/auth/device"
	"universitas/internal/auth/models"
	"universitas/internal/auth/password"
	"universitas/internal/auth/policy"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/platform/privacy"
	"universitas/pkg/platform/sentinel"
	"universitas/pkg/requestcontext"
)

const invalidCredentialsMessage = "No active account found with the given credentials."

// Login authenticates by email and password and issues a token pair.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (pair *models.TokenPair, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer func() {
		s.observeLoginDuration(float64(time.Since(start).Milliseconds()))
		endSpan(span, err)
	}()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.incrementLoginAttempts("unknown_email")
			s.authFailure(ctx, "unknown_email", false)
			return nil, dErrors.New(dErrors.CodeAuthenticationFailed, invalidCredentialsMessage)
		}
		s.incrementLoginAttempts("error")
		s.authFailure(ctx, "account_lookup_failed", true, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}

	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.incrementLoginAttempts("wrong_password")
			s.authFailure(ctx, "wrong_password", false, "user_id", account.ID.String())
			return nil, dErrors.New(dErrors.CodeAuthenticationFailed, invalidCredentialsMessage)
		}
		s.incrementLoginAttempts("error")
		s.authFailure(ctx, "password_compare_failed", true, "user_id", account.ID.String(), "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}

	access, refresh, err := s.tokens.GenerateTokenPair(ctx, account.ID, policy.BuildClaims(account))
	if err != nil {
		s.incrementLoginAttempts("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue tokens")
	}

	s.incrementLoginAttempts("success")
	s.logAudit(ctx, "login_succeeded",
		"user_id", account.ID.String(),
		"role", account.Role.String(),
		"device", device.Label(requestcontext.UserAgent(ctx)),
		"client_ip", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
	)
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}
