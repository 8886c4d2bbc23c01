package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/mock/gomock"

	"universitas/internal/auth/models"
	"universitas/internal/auth/policy"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/platform/sentinel"
	"universitas/pkg/requestcontext"
)

func (s *ServiceSuite) TestRefresh() {
	s.Run("rebuilds claims from the stored account", func() {
		account := s.studentAccount()
		claims := refreshClaims(account.ID, "refresh-jti", testNow().Add(time.Hour))

		s.mockTokens.EXPECT().ValidateRefreshToken("refresh-token").Return(claims, nil)
		s.mockTRL.EXPECT().IsRevoked(gomock.Any(), "refresh-jti").Return(false, nil)
		s.mockAccounts.EXPECT().FindByID(gomock.Any(), account.ID).Return(account, nil)
		s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), account.ID, policy.BuildClaims(account)).Return("new-access", nil)

		result, err := s.service.Refresh(context.Background(), &models.RefreshRequest{Refresh: "refresh-token"})
		s.Require().NoError(err)
		s.Equal("new-access", result.Access)
	})

	s.Run("invalid token", func() {
		s.mockTokens.EXPECT().ValidateRefreshToken("garbage").
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))

		_, err := s.service.Refresh(context.Background(), &models.RefreshRequest{Refresh: "garbage"})
		s.True(dErrors.HasCode(err, dErrors.CodeAuthenticationFailed))
	})

	s.Run("revoked token", func() {
		account := s.studentAccount()
		s.mockTokens.EXPECT().ValidateRefreshToken("revoked").
			Return(refreshClaims(account.ID, "gone", testNow().Add(time.Hour)), nil)
		s.mockTRL.EXPECT().IsRevoked(gomock.Any(), "gone").Return(true, nil)

		_, err := s.service.Refresh(context.Background(), &models.RefreshRequest{Refresh: "revoked"})
		s.True(dErrors.HasCode(err, dErrors.CodeAuthenticationFailed))
	})

	s.Run("revocation backend failure is internal", func() {
		account := s.studentAccount()
		s.mockTokens.EXPECT().ValidateRefreshToken("tok").
			Return(refreshClaims(account.ID, "jti", testNow().Add(time.Hour)), nil)
		s.mockTRL.EXPECT().IsRevoked(gomock.Any(), "jti").Return(false, errors.New("redis down"))

		_, err := s.service.Refresh(context.Background(), &models.RefreshRequest{Refresh: "tok"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("deleted account", func() {
		account := s.studentAccount()
		s.mockTokens.EXPECT().ValidateRefreshToken("tok").
			Return(refreshClaims(account.ID, "jti", testNow().Add(time.Hour)), nil)
		s.mockTRL.EXPECT().IsRevoked(gomock.Any(), "jti").Return(false, nil)
		s.mockAccounts.EXPECT().FindByID(gomock.Any(), account.ID).
			Return(nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound))

		_, err := s.service.Refresh(context.Background(), &models.RefreshRequest{Refresh: "tok"})
		s.True(dErrors.HasCode(err, dErrors.CodeAuthenticationFailed))
	})

	s.Run("malformed user id claim", func() {
		claims := refreshClaims(s.studentAccount().ID, "jti", testNow().Add(time.Hour))
		claims.UserID = "not-a-uuid"
		s.mockTokens.EXPECT().ValidateRefreshToken("tok").Return(claims, nil)
		s.mockTRL.EXPECT().IsRevoked(gomock.Any(), "jti").Return(false, nil)

		_, err := s.service.Refresh(context.Background(), &models.RefreshRequest{Refresh: "tok"})
		s.True(dErrors.HasCode(err, dErrors.CodeAuthenticationFailed))
	})
}

func (s *ServiceSuite) TestLogout() {
	now := testNow()
	ctx := requestcontext.WithTime(context.Background(), now)

	s.Run("revokes refresh token for its remaining lifetime", func() {
		account := s.studentAccount()
		s.mockTokens.EXPECT().ValidateRefreshToken("refresh").
			Return(refreshClaims(account.ID, "r-jti", now.Add(2*time.Hour)), nil)
		s.mockTRL.EXPECT().RevokeToken(gomock.Any(), "r-jti", 2*time.Hour).Return(nil)

		err := s.service.Logout(ctx, &models.RefreshRequest{Refresh: "refresh"}, "")
		s.Require().NoError(err)
	})

	s.Run("also revokes the caller's access token", func() {
		account := s.studentAccount()
		s.mockTokens.EXPECT().ValidateRefreshToken("refresh").
			Return(refreshClaims(account.ID, "r-jti", now.Add(time.Hour)), nil)
		s.mockTRL.EXPECT().RevokeToken(gomock.Any(), "r-jti", time.Hour).Return(nil)
		s.mockTokens.EXPECT().ValidateAccessToken("access").
			Return(accessClaims(account.ID, "a-jti", now.Add(5*time.Minute)), nil)
		s.mockTRL.EXPECT().RevokeToken(gomock.Any(), "a-jti", 5*time.Minute).Return(nil)

		err := s.service.Logout(ctx, &models.RefreshRequest{Refresh: "refresh"}, "access")
		s.Require().NoError(err)
	})

	s.Run("access token of another account is ignored", func() {
		account := s.studentAccount()
		other := s.studentAccount()
		s.mockTokens.EXPECT().ValidateRefreshToken("refresh").
			Return(refreshClaims(account.ID, "r-jti", now.Add(time.Hour)), nil)
		s.mockTRL.EXPECT().RevokeToken(gomock.Any(), "r-jti", time.Hour).Return(nil)
		s.mockTokens.EXPECT().ValidateAccessToken("access").
			Return(accessClaims(other.ID, "a-jti", now.Add(5*time.Minute)), nil)

		err := s.service.Logout(ctx, &models.RefreshRequest{Refresh: "refresh"}, "access")
		s.Require().NoError(err)
	})

	s.Run("access revocation failure does not fail logout", func() {
		account := s.studentAccount()
		s.mockTokens.EXPECT().ValidateRefreshToken("refresh").
			Return(refreshClaims(account.ID, "r-jti", now.Add(time.Hour)), nil)
		s.mockTRL.EXPECT().RevokeToken(gomock.Any(), "r-jti", time.Hour).Return(nil)
		s.mockTokens.EXPECT().ValidateAccessToken("access").
			Return(accessClaims(account.ID, "a-jti", now.Add(time.Minute)), nil)
		s.mockTRL.EXPECT().RevokeToken(gomock.Any(), "a-jti", time.Minute).Return(errors.New("redis down"))

		err := s.service.Logout(ctx, &models.RefreshRequest{Refresh: "refresh"}, "access")
		s.Require().NoError(err)
	})

	s.Run("invalid refresh token", func() {
		s.mockTokens.EXPECT().ValidateRefreshToken("bad").
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "token expired"))

		err := s.service.Logout(ctx, &models.RefreshRequest{Refresh: "bad"}, "")
		s.True(dErrors.HasCode(err, dErrors.CodeAuthenticationFailed))
	})

	s.Run("refresh revocation failure is internal", func() {
		account := s.studentAccount()
		s.mockTokens.EXPECT().ValidateRefreshToken("refresh").
			Return(refreshClaims(account.ID, "r-jti", now.Add(time.Hour)), nil)
		s.mockTRL.EXPECT().RevokeToken(gomock.Any(), "r-jti", time.Hour).Return(errors.New("redis down"))

		err := s.service.Logout(ctx, &models.RefreshRequest{Refresh: "refresh"}, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestRemaining() {
	now := testNow()
	s.Equal(time.Duration(0), remaining(nil, now))
	s.Equal(time.Duration(0), remaining(refreshClaims(s.studentAccount().ID, "j", now.Add(-time.Minute)).ExpiresAt, now))
	s.Equal(time.Minute, remaining(refreshClaims(s.studentAccount().ID, "j", now.Add(time.Minute)).ExpiresAt, now))
}
