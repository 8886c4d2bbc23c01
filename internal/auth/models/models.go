package models

import (
	"time"

	id "universitas/pkg/domain"
)

// This file contains pure domain models for accounts: entities that should
// not depend on transport or HTTP-specific concerns.

// Role is the account category derived from the email domain.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleInstructor
}

func (r Role) String() string {
	return string(r)
}

// Label is the capitalized form used in user-facing messages.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleInstructor:
		return "Instructor"
	default:
		return string(r)
	}
}

// Account is a registered user of the platform.
// This is a pure domain entity - use StudentRecord or RegistrationResult for JSON responses.
type Account struct {
	ID       id.UserID
	Email    string
	Username string
	FullName string
	Major    string // code from the majors table
	Role     Role
	// Grade is only ever set on student accounts. Nil means no grade.
	Grade        *float64
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Account) IsStudent() bool {
	return a.Role == RoleStudent
}

func (a *Account) IsInstructor() bool {
	return a.Role == RoleInstructor
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ValidatedAccount is the output of registration validation. Role is always
// the one derived from the email domain, never the client-supplied value.
type ValidatedAccount struct {
	Email    string
	Username string
	FullName string
	Major    string
	Role     Role
	Password string
}

// NewAccount builds the account to persist from a validated registration.
// The plaintext password is not carried over.
func NewAccount(v *ValidatedAccount, passwordHash string, now time.Time) *Account {
	return &Account{
		ID:           id.NewUserID(),
		Email:        v.Email,
		Username:     v.Username,
		FullName:     v.FullName,
		Major:        v.Major,
		Role:         v.Role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
