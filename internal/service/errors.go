// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPendingVerification = errors.New("signup succeeded but no session was returned; verify your email or phone and then log in")
	ErrUnauthenticated     = errors.New("invalid or expired token")
	ErrMedicationNotFound  = errors.New("medication not found")
	ErrCaregiverNotFound   = errors.New("caregiver not found")
	ErrAlarmNotFound       = errors.New("alarm not found")
)

// ValidationError reports malformed or missing caller input. It is
// always raised before any upstream call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// SignupRejectedError reports a signup the identity provider refused,
// e.g. a duplicate identifier or a weak password.
type SignupRejectedError struct {
	Reason string
}

func (e *SignupRejectedError) Error() string {
	return "signup failed: " + e.Reason
}
