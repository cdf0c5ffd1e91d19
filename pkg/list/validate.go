// Lists validate their own structure by walking the chain and comparing every back-reference with the node that
// links to it. A failed validation is a bug in this package and is reported as an invariant as well as returned.

package list

import (
	"fmt"

	"github.com/nobletooth/dlist/pkg/utils"
)

// Validate checks the structural invariants of the list:
// the next-chain from the head has exactly Size() nodes and ends at the tail, every back-reference points to the node
// linking to it, and an empty list has neither head nor tail.
func (l *DoublyLinkedList[T]) Validate() error {
	if err := l.checkLinks(); err != nil {
		utils.RaiseInvariant("list", "broken_links", "Doubly linked list failed validation.", "error", err)
		return err
	}
	return nil
}

func (l *DoublyLinkedList[T]) checkLinks() error {
	if l.size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrBrokenLinks, l.size)
	}
	if l.size == 0 {
		if l.head != nil || l.tail != nil {
			return fmt.Errorf("%w: empty list still references nodes", ErrBrokenLinks)
		}
		return nil
	}

	var prev *linkedListNode[T]
	count := 0
	for node := l.head; node != nil; node = node.next {
		if node.prev != prev {
			return fmt.Errorf("%w: node at position %d has a wrong back-reference", ErrBrokenLinks, count)
		}
		count++
		if count > l.size { // Also stops the walk on cycles.
			return fmt.Errorf("%w: chain is longer than size %d", ErrBrokenLinks, l.size)
		}
		prev = node
	}
	if count != l.size {
		return fmt.Errorf("%w: chain has %d nodes but size is %d", ErrBrokenLinks, count, l.size)
	}
	if prev != l.tail {
		return fmt.Errorf("%w: last node of the chain is not the tail", ErrBrokenLinks)
	}
	return nil
}

// Validate checks the same invariants as DoublyLinkedList.Validate, plus that live and free slots add up to Cap().
func (l *ArenaList[T]) Validate() error {
	if err := l.checkLinks(); err != nil {
		utils.RaiseInvariant("list", "broken_arena_links", "Arena list failed validation.", "error", err)
		return err
	}
	return nil
}

func (l *ArenaList[T]) checkLinks() error {
	if l.size < 0 || l.size > len(l.nodes) {
		return fmt.Errorf("%w: size %d doesn't fit %d slots", ErrBrokenLinks, l.size, len(l.nodes))
	}
	if l.size == 0 && len(l.nodes) == 0 {
		return nil // Nothing allocated yet.
	}
	if l.size == 0 && (l.head != noSlot || l.tail != noSlot) {
		return fmt.Errorf("%w: empty list still references slots", ErrBrokenLinks)
	}

	prev := noSlot
	count := 0
	for slot := l.head; slot != noSlot; slot = l.nodes[slot].next {
		if slot < 0 || slot >= len(l.nodes) {
			return fmt.Errorf("%w: slot %d is outside the arena", ErrBrokenLinks, slot)
		}
		if l.nodes[slot].prev != prev {
			return fmt.Errorf("%w: node at position %d has a wrong back-reference", ErrBrokenLinks, count)
		}
		count++
		if count > l.size {
			return fmt.Errorf("%w: chain is longer than size %d", ErrBrokenLinks, l.size)
		}
		prev = slot
	}
	if count != l.size {
		return fmt.Errorf("%w: chain has %d nodes but size is %d", ErrBrokenLinks, count, l.size)
	}
	if prev != l.tail {
		return fmt.Errorf("%w: last node of the chain is not the tail", ErrBrokenLinks)
	}

	freeCount := 0
	for slot := l.free; slot != noSlot; slot = l.nodes[slot].next {
		if slot < 0 || slot >= len(l.nodes) {
			return fmt.Errorf("%w: free slot %d is outside the arena", ErrBrokenLinks, slot)
		}
		freeCount++
		if freeCount > len(l.nodes) {
			return fmt.Errorf("%w: free list has a cycle", ErrBrokenLinks)
		}
	}
	if count+freeCount != len(l.nodes) {
		return fmt.Errorf("%w: %d live and %d free slots don't add up to %d", ErrBrokenLinks,
			count, freeCount, len(l.nodes))
	}
	return nil
}
