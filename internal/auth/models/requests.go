package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"universitas/pkg/validation"
)

// RegisterRequest carries the raw registration fields. Username is accepted
// for compatibility but always recomputed from the email.
type RegisterRequest struct {
	Email                string `json:"email" validate:"notblank"`
	Username             string `json:"username"`
	FullName             string `json:"full_name" validate:"notblank"`
	Major                string `json:"major" validate:"notblank"`
	Role                 string `json:"role" validate:"notblank"`
	Password             string `json:"password" validate:"notblank"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Sanitize trims profile fields. Passwords are left untouched.
func (r *RegisterRequest) Sanitize() {
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Major = strings.TrimSpace(r.Major)
	r.Role = strings.TrimSpace(r.Role)
}

// CheckRequired reports the first missing required field, in the order
// email, full_name, major, role, password.
func (r *RegisterRequest) CheckRequired() error {
	return validation.Validate(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

func (r *LoginRequest) Sanitize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	return validation.Validate(r)
}

// RefreshRequest is used for both token refresh and logout.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"notblank"`
}

func (r *RefreshRequest) Sanitize() {
	r.Refresh = strings.TrimSpace(r.Refresh)
}

func (r *RefreshRequest) Validate() error {
	return validation.Validate(r)
}

// GradeInput is a grade as submitted by a client. JSON strings and numbers
// are both accepted; null, an absent field, or an empty string clears the
// grade. Anything else is kept verbatim and rejected when parsed.
type GradeInput struct {
	Raw string
	Set bool
}

func (g *GradeInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*g = GradeInput{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*g = GradeInput{Raw: s, Set: true}
		return nil
	}
	*g = GradeInput{Raw: string(trimmed), Set: true}
	return nil
}

// GradeUpdateRequest is the body of a student record update. Only grade is
// writable; other record fields are read-only and ignored.
type GradeUpdateRequest struct {
	Grade GradeInput `json:"grade"`
}
