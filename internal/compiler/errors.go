package compiler

import "fmt"

// Validation error codes (E100-E129).
const (
	// General errors (E100)
	ErrUnsupportedDoc = "E100" // unsupported document type

	// Schema errors (E101-E109)
	ErrEmptyName       = "E101" // empty document or declaration name
	ErrDuplicateDecl   = "E102" // duplicate object/morphism declaration
	ErrUnknownEndpoint = "E103" // morphism endpoint names no declared object
	ErrBadEquation     = "E104" // equation path unresolvable or endpoints disagree

	// Migration errors (E110-E119)
	ErrSchemaMismatch      = "E110" // document references the wrong schema
	ErrMissingAssignment   = "E111" // target object generator left unassigned
	ErrDuplicateAssignment = "E112" // generator assigned more than once
	ErrBadQueryShape       = "E113" // block tag and body disagree, or unsupported nesting
	ErrUnknownGenerator    = "E114" // name resolves to no generator
	ErrBadConstraint       = "E115" // constraint endpoints or path do not line up
	ErrIncomparableQueries = "E116" // conjunctive and glue queries in one migration
	ErrUnsupportedHomShape = "E117" // morphism assignment needs a single-object endpoint query
	ErrBadMorphismPath     = "E118" // morphism assignment path unresolvable
	ErrNonFunctorial       = "E119" // generator mapping violates functoriality
)

// ValidationError is one diagnostic of a collect-all compile.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

func errf(code, field, format string, args ...any) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code}
}
