package errors

import (
	"errors"
	"fmt"
)

// Common error types for the back-office console
var (
	// Session errors
	ErrNoSession    = errors.New("no session")
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("invalid role")

	// Backend errors, matched by status code
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBackend      = errors.New("backend error")

	// Response errors
	ErrInvalidResponse  = errors.New("invalid response")
	ErrResponseTooLarge = errors.New("response body too large")

	// Console request errors
	ErrCrossOrigin          = errors.New("cross-origin request refused")
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// General errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnsupported     = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
