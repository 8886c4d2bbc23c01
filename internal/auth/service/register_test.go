package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"universitas/internal/auth/models"
	"universitas/internal/auth/password"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/platform/sentinel"
	"universitas/pkg/requestcontext"
)

func validRegistration() *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:                "  Ann.Lee@Student.Prasetiyamulya.ac.id ",
		Username:             "ignored",
		FullName:             "Ann Lee",
		Major:                "SDE",
		Role:                 "student",
		Password:             "s3cret-pass",
		PasswordConfirmation: "s3cret-pass",
	}
}

func (s *ServiceSuite) TestRegister() {
	const email = "ann.lee@student.prasetiyamulya.ac.id"

	s.Run("stores account with derived role and username", func() {
		now := testNow()
		ctx := requestcontext.WithTime(context.Background(), now)

		s.mockAccounts.EXPECT().ExistsByEmail(gomock.Any(), email).Return(false, nil)
		s.mockHasher.EXPECT().Hash("s3cret-pass").Return("hashed", nil)
		s.mockAccounts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, a *models.Account) error {
				s.Equal(email, a.Email)
				s.Equal("ann.lee", a.Username)
				s.Equal(models.RoleStudent, a.Role)
				s.Equal("hashed", a.PasswordHash)
				s.Nil(a.Grade)
				s.Equal(now, a.CreatedAt)
				s.False(a.ID.IsNil())
				return nil
			})

		result, err := s.service.Register(ctx, validRegistration())
		s.Require().NoError(err)
		s.Equal(&models.RegistrationResult{
			Email:    email,
			Username: "ann.lee",
			FullName: "Ann Lee",
			Major:    "SDE",
			Role:     models.RoleStudent,
		}, result)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.UsersRegistered.WithLabelValues("student")))
	})

	s.Run("instructor email registers as instructor", func() {
		req := validRegistration()
		req.Email = "dosen@prasetiyamulya.ac.id"
		req.Role = "instructor"

		s.mockAccounts.EXPECT().ExistsByEmail(gomock.Any(), "dosen@prasetiyamulya.ac.id").Return(false, nil)
		s.mockHasher.EXPECT().Hash(gomock.Any()).Return("hashed", nil)
		s.mockAccounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.service.Register(context.Background(), req)
		s.Require().NoError(err)
		s.Equal(models.RoleInstructor, result.Role)
		s.Equal("dosen", result.Username)
	})

	s.Run("policy rejection is returned unchanged and nothing is stored", func() {
		req := validRegistration()
		req.Role = "instructor"
		s.mockAccounts.EXPECT().ExistsByEmail(gomock.Any(), email).Return(false, nil)

		_, err := s.service.Register(context.Background(), req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeRoleDomainMismatch))
		s.Equal("role", dErrors.FieldOf(err))
		s.Equal("Email @student.prasetiyamulya.ac.id can only register as 'Student'.", err.Error())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RegistrationRejections.WithLabelValues("role_domain_mismatch")))
	})

	s.Run("invalid email never reaches the store", func() {
		req := validRegistration()
		req.Email = "ann@gmail.com"

		_, err := s.service.Register(context.Background(), req)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidEmailFormat))
	})

	s.Run("duplicate at create time maps to email already registered", func() {
		s.mockAccounts.EXPECT().ExistsByEmail(gomock.Any(), email).Return(false, nil)
		s.mockHasher.EXPECT().Hash(gomock.Any()).Return("hashed", nil)
		s.mockAccounts.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("account already exists: %w", sentinel.ErrAlreadyUsed))

		_, err := s.service.Register(context.Background(), validRegistration())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeEmailAlreadyRegistered))
		s.Equal("email", dErrors.FieldOf(err))
	})

	s.Run("hasher failure is internal", func() {
		s.mockAccounts.EXPECT().ExistsByEmail(gomock.Any(), email).Return(false, nil)
		s.mockHasher.EXPECT().Hash(gomock.Any()).Return("", errors.New("cost too high"))

		_, err := s.service.Register(context.Background(), validRegistration())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("hasher length refusal is a password field error", func() {
		s.mockAccounts.EXPECT().ExistsByEmail(gomock.Any(), email).Return(false, nil)
		s.mockHasher.EXPECT().Hash(gomock.Any()).Return("", password.ErrTooLong)

		_, err := s.service.Register(context.Background(), validRegistration())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodePasswordTooLong))
		s.Equal("password", dErrors.FieldOf(err))
	})

	s.Run("store failure is internal", func() {
		s.mockAccounts.EXPECT().ExistsByEmail(gomock.Any(), email).Return(false, nil)
		s.mockHasher.EXPECT().Hash(gomock.Any()).Return("hashed", nil)
		s.mockAccounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := s.service.Register(context.Background(), validRegistration())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("nil request", func() {
		_, err := s.service.Register(context.Background(), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestListMajors() {
	majors := s.service.ListMajors()
	s.Require().Equal(models.DefaultMajors(), majors)

	majors[0].Label = "changed"
	s.Equal(models.DefaultMajors()[0], s.service.ListMajors()[0])
}
