package fincat

import (
	"errors"
	"fmt"
)

// Error codes (E020-E039) for category construction and composition.
const (
	// ErrCodeUnknownGenerator indicates a name that resolves to no object or
	// morphism generator of the category.
	ErrCodeUnknownGenerator = "E020"

	// ErrCodeAmbiguousGenerator indicates a morphism name shared by several
	// generators. Morphism names are not required to be unique, so resolution
	// by name can legitimately be ambiguous.
	ErrCodeAmbiguousGenerator = "E021"

	// ErrCodeComposeMismatch indicates a composition whose endpoints do not
	// meet: codomain of the first differs from domain of the second.
	ErrCodeComposeMismatch = "E022"

	// ErrCodeBadEquation indicates an equation whose two sides have different
	// endpoints, or reference generators outside the backing structure.
	ErrCodeBadEquation = "E023"

	// ErrCodeDuplicateGenerator indicates a duplicate object or morphism
	// generator name in a presentation.
	ErrCodeDuplicateGenerator = "E024"

	// ErrCodeBadGenerator indicates a generator handle outside the category.
	ErrCodeBadGenerator = "E025"
)

// Error represents a structural error in category construction or morphism
// composition. These fail fast: they indicate malformed input, not an
// expected semantic outcome.
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

// IsUnknownGenerator returns true if err reports an unresolvable generator
// name. Uses errors.As to handle wrapped errors.
func IsUnknownGenerator(err error) bool {
	return hasCode(err, ErrCodeUnknownGenerator)
}

// IsComposeMismatch returns true if err reports non-meeting endpoints.
func IsComposeMismatch(err error) bool {
	return hasCode(err, ErrCodeComposeMismatch)
}

func hasCode(err error, code string) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
