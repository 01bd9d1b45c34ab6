package registry

import (
	"errors"
	"fmt"
)

// UnknownNameError indicates that a query or mutation referenced a logical
// name that is not registered. It is a distinguished error kind so that
// callers (notably the resolution hook) can translate it into a "not mine"
// response rather than treating it as a failure.
type UnknownNameError struct {
	Name string
}

// ErrUnknownName constructs an UnknownNameError for name.
func ErrUnknownName(name string) error {
	return &UnknownNameError{Name: name}
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("registry: unknown name %q", e.Name)
}

// IsUnknownName reports whether err is (or wraps) an UnknownNameError.
func IsUnknownName(err error) bool {
	var unknown *UnknownNameError
	return errors.As(err, &unknown)
}
