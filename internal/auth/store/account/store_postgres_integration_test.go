//go:build integration

package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"universitas/internal/auth/models"
	"universitas/internal/auth/store/account"
	id "universitas/pkg/domain"
	"universitas/pkg/platform/sentinel"
	"universitas/pkg/testutil"
	"universitas/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *account.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = account.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "accounts"))
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	student := testutil.NewStudent("ann")
	student.Grade = testutil.Grade(91.5)
	s.Require().NoError(s.store.Create(ctx, student))

	found, err := s.store.FindByEmail(ctx, student.Email)
	s.Require().NoError(err)
	s.Equal(student.ID, found.ID)
	s.Equal(student.Username, found.Username)
	s.Equal(models.RoleStudent, found.Role)
	s.Require().NotNil(found.Grade)
	s.Equal(91.5, *found.Grade)
	s.WithinDuration(student.CreatedAt, found.CreatedAt, time.Millisecond)

	byID, err := s.store.FindByID(ctx, student.ID)
	s.Require().NoError(err)
	s.Equal(student.Email, byID.Email)

	exists, err := s.store.ExistsByEmail(ctx, student.Email)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *PostgresStoreSuite) TestNotFound() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByEmail(ctx, "ghost@prasetiyamulya.ac.id")
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.UpdateGrade(ctx, id.NewUserID(), nil, time.Now())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDuplicateEmailViolatesUniqueKey() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, testutil.NewStudent("dup")))

	err := s.store.Create(ctx, testutil.NewStudent("dup"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestConcurrentCreateSameEmail() {
	ctx := context.Background()

	result := testutil.RunConcurrent(10, func(int) error {
		return s.store.Create(ctx, testutil.NewStudent("race"))
	})

	s.Equal(int32(1), result.Successes)
	s.Equal(int32(9), result.Conflicts)
	s.Zero(result.Errors)
}

func (s *PostgresStoreSuite) TestListByRoleOrdersByCreation() {
	ctx := context.Background()
	for i, name := range []string{"second", "first"} {
		student := testutil.NewStudent(name)
		student.CreatedAt = testutil.FixedTime.Add(-time.Duration(i) * time.Hour)
		s.Require().NoError(s.store.Create(ctx, student))
	}
	s.Require().NoError(s.store.Create(ctx, testutil.NewInstructor("dosen")))

	students, err := s.store.ListByRole(ctx, models.RoleStudent)
	s.Require().NoError(err)
	s.Require().Len(students, 2)
	s.Equal("first", students[0].Username)
	s.Equal("second", students[1].Username)
}

func (s *PostgresStoreSuite) TestUpdateGrade() {
	ctx := context.Background()
	student := testutil.NewStudent("graded")
	s.Require().NoError(s.store.Create(ctx, student))

	updated, err := s.store.UpdateGrade(ctx, student.ID, testutil.Grade(77), testutil.FixedTime.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().NotNil(updated.Grade)
	s.Equal(77.0, *updated.Grade)

	cleared, err := s.store.UpdateGrade(ctx, student.ID, nil, testutil.FixedTime.Add(2*time.Hour))
	s.Require().NoError(err)
	s.Nil(cleared.Grade)
}

func (s *PostgresStoreSuite) TestGradeCheckConstraint() {
	ctx := context.Background()
	student := testutil.NewStudent("bounded")
	s.Require().NoError(s.store.Create(ctx, student))

	_, err := s.store.UpdateGrade(ctx, student.ID, testutil.Grade(101), time.Now())
	s.Error(err)
}
