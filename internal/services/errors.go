package services

import (
	"errors"
	"fmt"

	"homeclean-backend/internal/supabase"
)

var (
	ErrNotFound          = supabase.ErrNotFound
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyAssigned   = errors.New("task already has a cleaner")
	ErrUnsupported       = errors.New("not supported")
	ErrNotConfigured     = errors.New("not configured")
	ErrUpstream          = errors.New("upstream provider error")
)

// ValidationError reports a rejected field before any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
