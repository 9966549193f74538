package functor

import (
	"errors"
	"fmt"
)

// Error codes (E040-E059) for functor and transformation construction.
const (
	// ErrCodeIncompleteMapping indicates a generator of the domain with no
	// assignment.
	ErrCodeIncompleteMapping = "E040"

	// ErrCodeUnusedAssignment indicates an assignment keyed by a handle that
	// is not a generator of the domain.
	ErrCodeUnusedAssignment = "E041"

	// ErrCodeBadAssignment indicates an assigned image outside the codomain.
	ErrCodeBadAssignment = "E042"

	// ErrCodeNonFunctorial is raised by the strict constructor when the
	// assembled functor fails the functoriality check.
	ErrCodeNonFunctorial = "E043"

	// ErrCodeMismatchedFunctors indicates a transformation between functors
	// that do not share domain and codomain.
	ErrCodeMismatchedFunctors = "E044"

	// ErrCodeBadComponent indicates a transformation component whose
	// endpoints do not match the two functors' object images.
	ErrCodeBadComponent = "E045"

	// ErrCodeComposeMismatch indicates functor composition where the first
	// functor's codomain is not the second's domain.
	ErrCodeComposeMismatch = "E046"
)

// Error represents a structural error in functor or transformation
// construction.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsNonFunctorial returns true if err reports a failed strict construction.
// Uses errors.As to handle wrapped errors.
func IsNonFunctorial(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == ErrCodeNonFunctorial
	}
	return false
}
