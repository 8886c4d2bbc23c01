package policy

import (
	"context"
	"fmt"

	"universitas/internal/auth/models"
	dErrors "universitas/pkg/domain-errors"
)

//go:generate mockgen -source=registration.go -destination=mocks/mocks.go -package=mocks EmailLookup

// EmailLookup answers whether an email already belongs to an account.
type EmailLookup interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RegistrationPolicy validates registration requests for one institution.
type RegistrationPolicy struct {
	classifier Classifier
	lookup     EmailLookup
	majors     models.Majors
}

func NewRegistrationPolicy(institutionDomain string, lookup EmailLookup, majors models.Majors) *RegistrationPolicy {
	return &RegistrationPolicy{
		classifier: NewClassifier(institutionDomain),
		lookup:     lookup,
		majors:     majors,
	}
}

// Classifier exposes the email classifier the policy validates with.
func (p *RegistrationPolicy) Classifier() Classifier {
	return p.classifier
}

// ValidateRegistration applies the registration rules in a fixed order so
// the same input always reports the same error:
// required fields, email format, email uniqueness, password confirmation,
// password length, role/domain agreement, then major.
// The only side effect is the read-only uniqueness lookup.
func (p *RegistrationPolicy) ValidateRegistration(ctx context.Context, req *models.RegisterRequest) (*models.ValidatedAccount, error) {
	req.Sanitize()
	if err := req.CheckRequired(); err != nil {
		return nil, err
	}

	class, err := p.classifier.ClassifyEmail(req.Email)
	if err != nil {
		return nil, err
	}

	exists, err := p.lookup.ExistsByEmail(ctx, class.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
	}
	if exists {
		return nil, dErrors.NewField(dErrors.CodeEmailAlreadyRegistered, "email", "Email is already registered.")
	}

	if req.Password != req.PasswordConfirmation {
		return nil, dErrors.NewField(dErrors.CodePasswordMismatch, "password", "Password fields didn't match.")
	}

	if len(req.Password) > models.MaxPasswordBytes {
		return nil, dErrors.NewField(dErrors.CodePasswordTooLong, "password",
			fmt.Sprintf("Ensure this field has no more than %d bytes.", models.MaxPasswordBytes))
	}

	if models.Role(req.Role) != class.Role {
		return nil, dErrors.NewField(dErrors.CodeRoleDomainMismatch, "role", p.roleMismatchMessage(class))
	}

	if !p.majors.Contains(req.Major) {
		return nil, dErrors.NewField(dErrors.CodeInvalidMajor, "major",
			fmt.Sprintf("%q is not a valid choice.", req.Major))
	}

	return &models.ValidatedAccount{
		Email:    class.Email,
		Username: class.Username,
		FullName: req.FullName,
		Major:    req.Major,
		Role:     class.Role,
		Password: req.Password,
	}, nil
}

func (p *RegistrationPolicy) roleMismatchMessage(class EmailClass) string {
	return fmt.Sprintf("Email @%s can only register as '%s'.", class.Domain, class.Role.Label())
}
