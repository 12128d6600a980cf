package services

import (
	"errors"
	"fmt"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/samber/oops"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = store.ErrNotFound

	// ErrConflict is returned when a request violates a business rule, such
	// as a taken email, a forbidden role request, or an unknown role name.
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is returned by Login for both an unknown email
	// and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned when the caller may not act on a record
	// owned by someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
)

func conflictf(code, format string, args ...any) error {
	return oops.Code(code).Wrapf(ErrConflict, format, args...)
}

func validationf(code, format string, args ...any) error {
	return oops.Code(code).Wrapf(ErrValidation, format, args...)
}

// asConflict wraps cause so that errors.Is matches both ErrConflict and the
// original cause.
func asConflict(code string, cause error) error {
	return oops.Code(code).Wrap(fmt.Errorf("%w: %w", ErrConflict, cause))
}

func asNotFound(code string, cause error) error {
	return oops.Code(code).Wrap(fmt.Errorf("%w: %w", ErrNotFound, cause))
}
