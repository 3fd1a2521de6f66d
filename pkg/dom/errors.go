package dom

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetNotFound is matched by every TargetNotFoundError.
	ErrTargetNotFound = errors.New("dom: target not found")

	// ErrInvalidSelector is returned when a selector cannot be parsed.
	ErrInvalidSelector = errors.New("dom: invalid selector")

	// ErrNotAttached is returned when a node is not part of the document.
	ErrNotAttached = errors.New("dom: node not attached")

	// ErrNotElement is returned when children are appended to a non-element.
	ErrNotElement = errors.New("dom: not an element")
)

// TargetNotFoundError reports a selector that resolved to no element.
type TargetNotFoundError struct {
	Selector string
}

// Error implements the error interface.
func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("dom: no element matches %q", e.Selector)
}

// Is makes errors.Is(err, ErrTargetNotFound) succeed.
func (e *TargetNotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}
