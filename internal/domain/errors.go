package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by use cases and services wraps exactly
// one of them, so callers can choose a recovery action with errors.Is.
var (
	// ErrValidation malformed input, a slot the schedule could not have generated,
	// or an unusable schedule. Recover by refetching availability.
	ErrValidation = errors.New("validation error")

	// ErrConflict the slot is already actively booked, or the record was
	// modified concurrently. Recover by refetching.
	ErrConflict = errors.New("conflict")

	// ErrIllegalTransition status change outside the transition table.
	// Always a caller bug, never retried.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrDependency a store is unreachable or inconsistent. Fatal for the request.
	ErrDependency = errors.New("dependency failure")

	// ErrNotFound the referenced schedule or appointment does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden the caller is neither the owning doctor nor the patient
	ErrForbidden = errors.New("forbidden")
)

// kindError error with its own message that unwraps to a kind
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NewError creates a sentinel error of the given kind
func NewError(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

// IllegalTransitionError identifies the rejected edge
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %s to %s", e.From, e.To)
}

// Is makes errors.Is(err, ErrIllegalTransition) true
func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// KindOf returns the kind wrapped by err, or nil for unclassified errors
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrIllegalTransition, ErrNotFound, ErrForbidden, ErrDependency} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
