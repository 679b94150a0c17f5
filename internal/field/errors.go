package field

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions indicates a width or height below one.
	ErrInvalidDimensions = errors.New("field: invalid dimensions")

	// ErrInvalidViewport indicates a non-positive or non-finite span, or a
	// non-finite centre.
	ErrInvalidViewport = errors.New("field: invalid viewport")

	// ErrOutOfBounds indicates a grid access outside the field.
	ErrOutOfBounds = errors.New("field: coordinate out of bounds")
)

// FieldError wraps a sentinel with the operation and offending input.
type FieldError struct {
	Op      string
	Detail  string
	Wrapped error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Wrapped.Error(), e.Detail, e.Op)
}

func (e *FieldError) Unwrap() error {
	return e.Wrapped
}
