package service

import (
	"errors"
	"fmt"
)

// Domain errors shared across services. Handlers map these onto HTTP
// statuses: ErrNotFound → 404, ErrForbidden → 403, credential errors →
// a uniform 401 message, ValidationError → 400.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidPassword = errors.New("invalid password")
)

// ValidationError carries a user-visible message for rejected input
// (duplicate username, overlong field, disallowed file extension).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
