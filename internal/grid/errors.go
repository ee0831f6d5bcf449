package grid

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrOutOfRange = errors.New("out of range")
)

// ValidationError reports malformed input: an empty or inverted range,
// an unparseable time string, or a cell outside the grid.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// OutOfRangeError reports a wall-clock time or day that cannot be placed on
// the configured grid.
type OutOfRangeError struct {
	What   string
	Value  any
	Window string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %v outside %s", e.What, e.Value, e.Window)
}

// Is reports whether target is ErrOutOfRange.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Invalid returns a *ValidationError.
func Invalid(field string, value any, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// OutOfRange returns an *OutOfRangeError.
func OutOfRange(what string, value any, window string) error {
	return &OutOfRangeError{What: what, Value: value, Window: window}
}
