package transform

import (
	"errors"
	"fmt"
)

// ErrSchemaConversion is the catch-all for schema declarations that cannot
// be built.
var ErrSchemaConversion = errors.New("schema conversion failed")

// Phase names the transform step an error came from.
type Phase string

const (
	PhaseResolve    Phase = "resolve"
	PhaseSchemas    Phase = "schemas"
	PhaseOperations Phase = "operations"
)

// Error is returned by Transform. Resolve failures wrap an
// *openapi.ResolveError, conversion failures wrap ErrSchemaConversion.
type Error struct {
	Phase Phase
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Phase, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
