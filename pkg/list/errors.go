package list

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a position falls outside the valid index span of an operation.
	ErrOutOfRange = errors.New("position out of range")
	// ErrBrokenLinks is returned by Validate when the node chain no longer satisfies the list invariants.
	ErrBrokenLinks = errors.New("list links are broken")
)

// outOfRange wraps ErrOutOfRange with the failed operation, the given position and the list size at that time.
func outOfRange(op string, pos, size int) error {
	return fmt.Errorf("%w: %s at position %d on a list of size %d", ErrOutOfRange, op, pos, size)
}
