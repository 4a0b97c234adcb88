// Package apperrors defines the error kinds shared by the roster subsystem.
// Lower layers wrap a kind with context; only the roster coordinator turns a
// kind into a client-visible outcome.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is a missing or malformed required field
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is a referenced user, team or player that does not exist
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied means the acting identity does not own the resource
	ErrPermissionDenied = errors.New("permission denied")
	// ErrConflict covers duplicate usernames, a second team, or a player owned elsewhere
	ErrConflict = errors.New("conflict")
	// ErrPersistence is an underlying store failure
	ErrPersistence = errors.New("persistence failure")
	// ErrUnauthenticated is a missing or invalid credential
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrStale is a write that lost an optimistic version check
	ErrStale = errors.New("stale write")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func PermissionDenied(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Persistence wraps a store error. Errors that already carry a kind pass through
// so a NotFound raised inside a repository is not reclassified.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if HasKind(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// HasKind reports whether err already carries one of the kinds above
func HasKind(err error) bool {
	for _, kind := range []error{
		ErrValidation, ErrNotFound, ErrPermissionDenied, ErrConflict,
		ErrPersistence, ErrUnauthenticated, ErrStale,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
