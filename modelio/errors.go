package modelio

import (
	"errors"
	"fmt"
)

// Sentinel errors for persistence.
var (
	// ErrSyntax classifies every *ParseError.
	ErrSyntax = errors.New("modelio: syntax error")

	// ErrEmptyModel indicates an attempt to persist a model with no components.
	ErrEmptyModel = errors.New("modelio: model has no components")

	// ErrNoModel indicates a file that binds no model.
	ErrNoModel = errors.New("modelio: no model assignment")

	// ErrUnsupportedVersion indicates a YAML document of an unknown version.
	ErrUnsupportedVersion = errors.New("modelio: unsupported document version")
)

// ParseError locates a failure in a model file. It matches ErrSyntax and,
// when set, Err (e.g. registry.ErrUnknownKind, model.ErrTieCycle).
type ParseError struct {
	Path string // empty when parsing bytes
	Line int    // 1-based; 0 when unknown
	Col  int    // 1-based; 0 when unknown
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc += fmt.Sprintf(":%d", e.Line)
		if e.Col > 0 {
			loc += fmt.Sprintf(":%d", e.Col)
		}
	}
	base := loc + ": " + e.Msg
	if e.Err != nil {
		base += ": " + e.Err.Error()
	}
	return base
}

// Unwrap exposes both ErrSyntax and the cause to errors.Is and errors.As.
func (e *ParseError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err == nil {
		return []error{ErrSyntax}
	}
	return []error{ErrSyntax, e.Err}
}
