// Both list containers expose the same positional API; this module provides the interface on it so callers and tests
// can swap the pointer-linked list and the arena-backed list.

package list

import (
	"fmt"
	"iter"
	"strings"
)

// Sequence is a positional container of comparable values.
type Sequence[T comparable] interface {
	Size() int                    // Returns the number of elements.
	Get(pos int) (T, error)       // Returns the value at pos or ErrOutOfRange.
	Find(item T) int              // Returns the first position holding item, or -1.
	Insert(item T, pos int) error // Puts item at pos, where 0 <= pos <= Size().
	Remove(pos int) error         // Deletes the value at pos, where 0 <= pos < Size().
	Clear()                       // Removes all elements.
	All() iter.Seq2[int, T]       // Yields positions and values from the first to the last element.
	Validate() error              // Reports broken structural invariants.
	fmt.Stringer
}

var (
	_ Sequence[int] = (*DoublyLinkedList[int])(nil)
	_ Sequence[int] = (*ArenaList[int])(nil)
)

// formatSequence renders the values as a comma separated list inside brackets.
func formatSequence[T any](values iter.Seq2[int, T]) string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	for _, value := range values {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		_, _ = fmt.Fprint(&sb, value)
	}
	sb.WriteByte(']')
	return sb.String()
}
