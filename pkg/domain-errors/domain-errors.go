package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_failed"
	CodeInternal     Code = "internal_error"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeTimeout      Code = "timeout"
	CodeTooLarge     Code = "payload_too_large"

	// Registration and record validation codes. Each one is surfaced
	// verbatim to the caller, attributed to the offending field.
	CodeMissingField           Code = "missing_field"
	CodeInvalidEmailFormat     Code = "invalid_email_format"
	CodeEmailAlreadyRegistered Code = "email_already_registered"
	CodePasswordMismatch       Code = "password_mismatch"
	CodePasswordTooLong        Code = "password_too_long"
	CodeRoleDomainMismatch     Code = "role_domain_mismatch"
	CodeInvalidMajor           Code = "invalid_major"
	CodeGradeOutOfRange        Code = "grade_out_of_range"
	CodeGradeNotNumeric        Code = "grade_not_numeric"

	// CodeAuthenticationFailed covers unknown email, wrong password and
	// unusable refresh tokens alike.
	CodeAuthenticationFailed Code = "authentication_failed"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	// Field names the request field the error is attributed to, if any.
	Field string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// NewField creates a domain error attributed to a request field.
func NewField(code Code, field, msg string) error {
	return &Error{Code: code, Message: msg, Field: field}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code and field are preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Field: existing.Field, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// FieldOf returns the field an error is attributed to, or "" if none.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// IsValidation reports whether the code describes rejected caller input.
func (c Code) IsValidation() bool {
	switch c {
	case CodeBadRequest, CodeValidation, CodeMissingField, CodeInvalidEmailFormat,
		CodeEmailAlreadyRegistered, CodePasswordMismatch, CodePasswordTooLong, CodeRoleDomainMismatch,
		CodeInvalidMajor, CodeGradeOutOfRange, CodeGradeNotNumeric:
		return true
	default:
		return false
	}
}
