// Package service exposes student records to instructors.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"universitas/internal/auth/metrics"
	"universitas/internal/auth/models"
	"universitas/internal/auth/policy"
	id "universitas/pkg/domain"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/platform/sentinel"
	"universitas/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AccountStore

// AccountStore is the subset of account persistence the record service needs.
// Error Contract: FindByID and UpdateGrade return sentinel.ErrNotFound when
// the account doesn't exist.
type AccountStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*models.Account, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.Account, error)
	UpdateGrade(ctx context.Context, userID id.UserID, grade *float64, at time.Time) (*models.Account, error)
}

type Service struct {
	accounts AccountStore
	majors   models.Majors
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

// New builds the record service. Majors resolve codes to display labels.
func New(accounts AccountStore, majors models.Majors, opts ...Option) *Service {
	if len(majors) == 0 {
		majors = models.DefaultMajors()
	}
	svc := &Service{
		accounts: accounts,
		majors:   majors,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// ListStudents returns every student record, oldest account first.
func (s *Service) ListStudents(ctx context.Context) ([]models.StudentRecord, error) {
	if err := s.Authorize(ctx); err != nil {
		return nil, err
	}

	accounts, err := s.accounts.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list students")
	}

	records := make([]models.StudentRecord, 0, len(accounts))
	for _, a := range accounts {
		records = append(records, models.NewStudentRecord(a, s.majors))
	}
	return records, nil
}

// GetStudent returns one student record.
func (s *Service) GetStudent(ctx context.Context, studentID id.UserID) (*models.StudentRecord, error) {
	if err := s.Authorize(ctx); err != nil {
		return nil, err
	}

	account, err := s.findStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	record := models.NewStudentRecord(account, s.majors)
	return &record, nil
}

// UpdateStudentGrade sets or clears a student's grade.
func (s *Service) UpdateStudentGrade(ctx context.Context, studentID id.UserID, req *models.GradeUpdateRequest) (*models.StudentRecord, error) {
	if err := s.Authorize(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	grade, err := policy.ParseGrade(req.Grade)
	if err != nil {
		return nil, err
	}

	if _, err := s.findStudent(ctx, studentID); err != nil {
		return nil, err
	}

	updated, err := s.accounts.UpdateGrade(ctx, studentID, grade, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, studentNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update grade")
	}

	s.logGradeUpdated(ctx, updated)
	if s.metrics != nil {
		s.metrics.IncrementGradeUpdates()
	}

	record := models.NewStudentRecord(updated, s.majors)
	return &record, nil
}

// Authorize is the guard in front of every student record operation: only
// instructors pass. Denials are logged and counted.
func (s *Service) Authorize(ctx context.Context) error {
	err := requireInstructor(requestcontext.Role(ctx))
	if err == nil {
		return nil
	}
	s.logger.WarnContext(ctx, "student record access denied",
		"user_id", requestcontext.UserID(ctx).String(),
		"role", requestcontext.Role(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementPermissionDenials()
	}
	return err
}

// findStudent loads an account and hides non-student accounts.
func (s *Service) findStudent(ctx context.Context, studentID id.UserID) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, studentNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load student")
	}
	if !account.IsStudent() {
		return nil, studentNotFound()
	}
	return account, nil
}

func (s *Service) logGradeUpdated(ctx context.Context, a *models.Account) {
	args := []any{
		"event", "grade_updated",
		"log_type", "audit",
		"student_id", a.ID.String(),
		"instructor_id", requestcontext.UserID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	}
	if a.Grade != nil {
		args = append(args, "grade", *a.Grade)
	} else {
		args = append(args, "grade", nil)
	}
	s.logger.InfoContext(ctx, "grade_updated", args...)
}

func studentNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "No student matches the given query.")
}

func requireInstructor(role string) error {
	if models.Role(role) != models.RoleInstructor {
		return dErrors.New(dErrors.CodeForbidden, "You do not have permission to perform this action.")
	}
	return nil
}
