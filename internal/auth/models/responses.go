package models

import id "universitas/pkg/domain"

// This file contains transport-layer response models for JSON output.

// RegistrationResult echoes the stored profile. Passwords are never returned.
type RegistrationResult struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Major    string `json:"major"`
	Role     Role   `json:"role"`
}

// TokenPair is returned at login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessTokenResult is returned by token refresh.
type AccessTokenResult struct {
	Access string `json:"access"`
}

// StudentRecord is the instructor-facing view of a student account.
// Major is rendered as its label.
type StudentRecord struct {
	ID       id.UserID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Major    string    `json:"major"`
	Grade    *float64  `json:"grade"`
}

func NewRegistrationResult(a *Account) *RegistrationResult {
	return &RegistrationResult{
		Email:    a.Email,
		Username: a.Username,
		FullName: a.FullName,
		Major:    a.Major,
		Role:     a.Role,
	}
}

func NewStudentRecord(a *Account, majors Majors) StudentRecord {
	return StudentRecord{
		ID:       a.ID,
		FullName: a.FullName,
		Email:    a.Email,
		Major:    majors.Label(a.Major),
		Grade:    a.Grade,
	}
}
