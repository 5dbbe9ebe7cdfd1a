package physics

import (
	"errors"
	"fmt"
)

// Domain errors for world operations.
var (
	// ErrInvalidParameter indicates a parameter outside its valid range
	// (non-positive radius or mass, non-finite values).
	ErrInvalidParameter = errors.New("physics: invalid parameter")

	// ErrNumericInstability indicates NaN or Inf found in body state.
	ErrNumericInstability = errors.New("physics: numeric instability (NaN or Inf in state)")
)

// BodyError wraps an error with the body it concerns.
type BodyError struct {
	Handle  Handle
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d: %v", e.Handle, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
