package meshedit

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure an operation can report wraps one of these,
// so callers can branch with errors.Is. Nothing in this package panics on
// bad input; parameter validation fails before any geometry work begins.
var (
	// ErrInvalidParameter reports an out-of-range or contradictory
	// parameter combination.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrGeometryOperation reports a failed boolean, slice or
	// triangulation step. Multi-segment operations recover locally by
	// skip-and-log; single-shot operations return the input unmodified.
	ErrGeometryOperation = errors.New("geometry operation failed")
	// ErrPreconditionUnmet reports an operation refused because the mesh
	// does not satisfy a requirement, e.g. volume scaling on a mesh that
	// is not watertight.
	ErrPreconditionUnmet = errors.New("precondition unmet")
)

func invalidParamf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...)
}

func geomFailf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrGeometryOperation}, args...)...)
}

func preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrPreconditionUnmet}, args...)...)
}
