package graph

import (
	"errors"
	"fmt"
)

// Error codes (E000-E019) for graph and path construction.
const (
	// ErrCodeUnknownVertex indicates an edge endpoint that is not in the graph.
	ErrCodeUnknownVertex = "E001"

	// ErrCodeDuplicateVertexName indicates a vertex name used twice.
	// Vertex names must be unique; edge names need not be.
	ErrCodeDuplicateVertexName = "E002"

	// ErrCodeMalformedPath indicates a path whose edge sequence is empty with
	// no explicit vertex, or whose consecutive edges do not share an endpoint.
	ErrCodeMalformedPath = "E003"

	// ErrCodeEndpointMismatch indicates a concatenation where the target of
	// the first path differs from the source of the second.
	ErrCodeEndpointMismatch = "E004"

	// ErrCodeCyclicGraph indicates path enumeration over a graph with a
	// directed cycle. The free category on such a graph has infinitely many
	// morphisms, so enumeration must refuse it rather than loop.
	ErrCodeCyclicGraph = "E005"
)

// Error represents a structural error in graph or path construction.
// Structural errors indicate malformed input and are not recoverable locally.
type Error struct {
	Code    string // Error category (ErrCode* constant)
	Message string // Human-readable description
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// newError creates an Error with a formatted message.
func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsMalformedPath returns true if the error is a malformed-path error.
// Uses errors.As to handle wrapped errors.
func IsMalformedPath(err error) bool {
	return hasCode(err, ErrCodeMalformedPath)
}

// IsEndpointMismatch returns true if the error is an endpoint-mismatch error.
func IsEndpointMismatch(err error) bool {
	return hasCode(err, ErrCodeEndpointMismatch)
}

// IsCyclicGraph returns true if the error reports a directed cycle.
func IsCyclicGraph(err error) bool {
	return hasCode(err, ErrCodeCyclicGraph)
}

func hasCode(err error, code string) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}
