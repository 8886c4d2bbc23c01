// Package policy holds the registration and record rules of the auth
// domain: email classification, role derivation, registration validation,
// token claim assembly and grade parsing. Nothing here performs I/O except
// through the EmailLookup handed to a RegistrationPolicy.
package policy

import (
	"regexp"
	"strings"

	"universitas/internal/auth/models"
	dErrors "universitas/pkg/domain-errors"
)

// DefaultInstitutionDomain is the institution served when no other is configured.
const DefaultInstitutionDomain = "prasetiyamulya.ac.id"

const studentSubdomain = "student."

var localPartPattern = regexp.MustCompile(`^[a-z0-9._%+-]+$`)

const msgInvalidEmail = "Email must be a valid student or instructor email address."

// EmailClass is the result of classifying a normalized institutional email.
type EmailClass struct {
	Email    string // lowercased
	Username string // local part
	Domain   string
	Role     models.Role
}

// Classifier recognises the two email shapes of one institution:
// local@student.<domain> for students and local@<domain> for instructors.
type Classifier struct {
	instructorDomain string
	studentDomain    string
}

func NewClassifier(institutionDomain string) Classifier {
	d := strings.ToLower(strings.TrimSpace(institutionDomain))
	if d == "" {
		d = DefaultInstitutionDomain
	}
	return Classifier{instructorDomain: d, studentDomain: studentSubdomain + d}
}

// InstructorDomain returns the bare institutional domain.
func (c Classifier) InstructorDomain() string { return c.instructorDomain }

// StudentDomain returns the student subdomain of the institution.
func (c Classifier) StudentDomain() string { return c.studentDomain }

// ClassifyEmail is the only place the email domain is mapped to a role.
// Matching is case-insensitive and covers the full string.
func (c Classifier) ClassifyEmail(email string) (EmailClass, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := strings.Cut(normalized, "@")
	if !ok || !localPartPattern.MatchString(local) {
		return EmailClass{}, dErrors.NewField(dErrors.CodeInvalidEmailFormat, "email", msgInvalidEmail)
	}

	var role models.Role
	switch domain {
	case c.studentDomain:
		role = models.RoleStudent
	case c.instructorDomain:
		role = models.RoleInstructor
	default:
		return EmailClass{}, dErrors.NewField(dErrors.CodeInvalidEmailFormat, "email", msgInvalidEmail)
	}

	return EmailClass{
		Email:    normalized,
		Username: local,
		Domain:   domain,
		Role:     role,
	}, nil
}

// DeriveRole returns the role implied by an email address.
func (c Classifier) DeriveRole(email string) (models.Role, error) {
	class, err := c.ClassifyEmail(email)
	if err != nil {
		return "", err
	}
	return class.Role, nil
}
