package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrClinicNotFound  = errors.New("clinic not found")
	ErrPatientNotFound = errors.New("patient not found")

	ErrUsernameTaken    = errors.New("a user with that username already exists")
	ErrClinicNameTaken  = errors.New("clinic with this name already exists")
	ErrClinicEmailTaken = errors.New("clinic with this email already exists")

	ErrUnauthenticated    = errors.New("authentication credentials were not provided")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")

	ErrForbidden        = errors.New("you do not have permission to perform this action")
	ErrCrossClinic      = errors.New("you can only delete doctors from your own clinic")
	ErrNotPatientDoctor = errors.New("only patient's doctor can access their information")

	ErrAuthenticationRequired = errors.New("authentication required")
	ErrDoctorsOnly            = errors.New("only doctors can add/edit patients")
	ErrInvalidRefreshToken    = errors.New("refresh token is missing or invalid")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError with a single field message.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
