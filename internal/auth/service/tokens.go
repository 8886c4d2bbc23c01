package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"

	"universitas/internal/auth/models"
	"universitas/internal/auth/policy"
	id "universitas/pkg/domain"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/platform/sentinel"
	"universitas/pkg/requestcontext"
)

const invalidRefreshMessage = "Token is invalid or expired."

// Refresh exchanges a refresh token for a new access token. Claims are
// rebuilt from the stored account so the token reflects the current grade.
func (s *Service) Refresh(ctx context.Context, req *models.RefreshRequest) (result *models.AccessTokenResult, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.Refresh")
	defer func() { endSpan(span, err) }()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	claims, err := s.tokens.ValidateRefreshToken(req.Refresh)
	if err != nil {
		s.authFailure(ctx, "invalid_refresh_token", false)
		return nil, dErrors.New(dErrors.CodeAuthenticationFailed, invalidRefreshMessage)
	}

	revoked, err := s.trl.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.authFailure(ctx, "revocation_check_failed", true, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check token revocation")
	}
	if revoked {
		s.authFailure(ctx, "refresh_token_revoked", false, "user_id", claims.UserID)
		return nil, dErrors.New(dErrors.CodeAuthenticationFailed, invalidRefreshMessage)
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		s.authFailure(ctx, "malformed_user_id", false)
		return nil, dErrors.New(dErrors.CodeAuthenticationFailed, invalidRefreshMessage)
	}
	span.SetAttributes(attribute.String("account.id", userID.String()))

	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.authFailure(ctx, "account_not_found", false, "user_id", claims.UserID)
			return nil, dErrors.New(dErrors.CodeAuthenticationFailed, invalidRefreshMessage)
		}
		s.authFailure(ctx, "account_lookup_failed", true, "user_id", claims.UserID, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}

	access, err := s.tokens.GenerateAccessToken(ctx, account.ID, policy.BuildClaims(account))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}

	s.incrementTokenRefreshes()
	return &models.AccessTokenResult{Access: access}, nil
}

// Logout revokes the refresh token until it would have expired. When the
// caller also presents a valid access token, that token is revoked too.
// Revoking an already revoked token succeeds.
func (s *Service) Logout(ctx context.Context, req *models.RefreshRequest, accessToken string) (err error) {
	ctx, span := s.tracer.Start(ctx, "auth.Logout")
	defer func() { endSpan(span, err) }()

	if req == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	claims, err := s.tokens.ValidateRefreshToken(req.Refresh)
	if err != nil {
		s.authFailure(ctx, "invalid_refresh_token", false)
		return dErrors.New(dErrors.CodeAuthenticationFailed, invalidRefreshMessage)
	}

	now := requestcontext.Now(ctx)
	if err := s.trl.RevokeToken(ctx, claims.ID, remaining(claims.ExpiresAt, now)); err != nil {
		s.incrementTRLWriteFailures()
		s.authFailure(ctx, "revocation_write_failed", true, "user_id", claims.UserID, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke refresh token")
	}

	if accessToken != "" {
		s.revokeAccessToken(ctx, accessToken, claims.UserID, now)
	}

	s.incrementLogouts()
	s.logAudit(ctx, "logged_out", "user_id", claims.UserID)
	return nil
}

// revokeAccessToken is best effort: the refresh token is already revoked and
// the access token expires on its own.
func (s *Service) revokeAccessToken(ctx context.Context, accessToken, userID string, now time.Time) {
	access, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil || access.UserID != userID || access.ID == "" {
		return
	}
	if err := s.trl.RevokeToken(ctx, access.ID, remaining(access.ExpiresAt, now)); err != nil {
		s.incrementTRLWriteFailures()
		s.logger.WarnContext(ctx, "failed to revoke access token",
			"error", err,
			"user_id", userID,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// remaining is how long a token stays valid after now, never negative.
func remaining(expiresAt *jwt.NumericDate, now time.Time) time.Duration {
	if expiresAt == nil {
		return 0
	}
	if d := expiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
