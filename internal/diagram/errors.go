package diagram

import (
	"errors"
	"fmt"
)

// Error codes (E070-E089) for the query algebra.
const (
	// ErrCodeIncomparableKinds indicates a promotion between Conjunctive and
	// Glue, which have no least upper bound below Gluc taken pairwise.
	// Surfaced as a hard compilation error; there is no silent fallback.
	ErrCodeIncomparableKinds = "E070"

	// ErrCodeInvalidCoercion indicates a downward (or sideways) coercion.
	// Coercion is always upward in the kind lattice.
	ErrCodeInvalidCoercion = "E071"

	// ErrCodeBadShape indicates a diagram whose shape-to-base mapping is not
	// functorial.
	ErrCodeBadShape = "E072"

	// ErrCodeKindMismatch indicates a diagram operation applied to a diagram
	// of the wrong kind.
	ErrCodeKindMismatch = "E073"

	// ErrCodeBadHom indicates a diagram homomorphism whose shape functor or
	// components do not line up with its endpoints.
	ErrCodeBadHom = "E074"
)

// Error represents a query-algebra error.
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

// IsIncomparableKinds returns true if err reports an impossible promotion.
// Uses errors.As to handle wrapped errors.
func IsIncomparableKinds(err error) bool {
	return hasCode(err, ErrCodeIncomparableKinds)
}

// IsInvalidCoercion returns true if err reports a non-upward coercion.
func IsInvalidCoercion(err error) bool {
	return hasCode(err, ErrCodeInvalidCoercion)
}

func hasCode(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
