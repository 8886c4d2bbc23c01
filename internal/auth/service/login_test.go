package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"universitas/internal/auth/models"
	"universitas/internal/auth/password"
	jwttoken "universitas/internal/jwt_token"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/platform/sentinel"
	"universitas/pkg/requestcontext"
)

func testNow() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) TestLogin() {
	s.Run("issues pair carrying profile claims", func() {
		account := s.studentAccount()
		ctx := requestcontext.WithClientMetadata(context.Background(), "203.0.113.7", "Mozilla/5.0")

		s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil)
		s.mockHasher.EXPECT().Compare("bcrypt-hash", "pw").Return(nil)
		s.mockTokens.EXPECT().GenerateTokenPair(gomock.Any(), account.ID, jwttoken.ProfileClaims{
			Role:     "student",
			Username: "budi",
			FullName: "Budi Santoso",
			Grade:    account.Grade,
		}).Return("access-token", "refresh-token", nil)

		pair, err := s.service.Login(ctx, &models.LoginRequest{Email: " BUDI@student.prasetiyamulya.ac.id", Password: "pw"})
		s.Require().NoError(err)
		s.Equal(&models.TokenPair{Access: "access-token", Refresh: "refresh-token"}, pair)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.LoginAttempts.WithLabelValues("success")))
	})

	s.Run("unknown email and wrong password look the same", func() {
		account := s.studentAccount()

		s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), "ghost@student.prasetiyamulya.ac.id").
			Return(nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound))
		_, unknownErr := s.service.Login(context.Background(), &models.LoginRequest{
			Email: "ghost@student.prasetiyamulya.ac.id", Password: "pw",
		})

		s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil)
		s.mockHasher.EXPECT().Compare(account.PasswordHash, "bad").Return(password.ErrMismatch)
		_, wrongErr := s.service.Login(context.Background(), &models.LoginRequest{
			Email: account.Email, Password: "bad",
		})

		s.True(dErrors.HasCode(unknownErr, dErrors.CodeAuthenticationFailed))
		s.True(dErrors.HasCode(wrongErr, dErrors.CodeAuthenticationFailed))
		s.Equal(unknownErr.Error(), wrongErr.Error())
		s.Equal(2.0, testutil.ToFloat64(s.metrics.AuthFailures))
	})

	s.Run("store failure is internal", func() {
		s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		_, err := s.service.Login(context.Background(), &models.LoginRequest{Email: "a@prasetiyamulya.ac.id", Password: "pw"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("malformed stored hash is internal", func() {
		account := s.studentAccount()
		s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil)
		s.mockHasher.EXPECT().Compare(gomock.Any(), gomock.Any()).Return(errors.New("hash too short"))

		_, err := s.service.Login(context.Background(), &models.LoginRequest{Email: account.Email, Password: "pw"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("token issuance failure is internal", func() {
		account := s.studentAccount()
		s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil)
		s.mockHasher.EXPECT().Compare(gomock.Any(), gomock.Any()).Return(nil)
		s.mockTokens.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return("", "", errors.New("sign"))

		_, err := s.service.Login(context.Background(), &models.LoginRequest{Email: account.Email, Password: "pw"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
