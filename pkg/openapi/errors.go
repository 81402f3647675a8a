package openapi

import (
	"errors"
	"fmt"
)

// Parse-level errors.
var (
	ErrSyntax             = errors.New("malformed document")
	ErrUnsupportedVersion = errors.New("unsupported OpenAPI version")
	ErrMissingField       = errors.New("missing required field")
)

// Resolve-level errors.
var (
	ErrInvalidRefFormat  = errors.New("invalid $ref format")
	ErrRefTargetNotFound = errors.New("$ref target not found")
	ErrCircularRef       = errors.New("circular $ref")
)

// ResolveError reports a $ref that could not be resolved. Kind is one of the
// resolve-level sentinels and Location is the JSON pointer of the node that
// holds the reference.
type ResolveError struct {
	Kind     error
	Ref      string
	Location string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%v: %q at %s", e.Kind, e.Ref, e.Location)
}

func (e *ResolveError) Unwrap() error {
	return e.Kind
}
