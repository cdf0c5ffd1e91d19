// This module implements ArenaList, a doubly linked list whose nodes live in one growable slice.
// Links are slot indices instead of pointers, so a back-reference can never keep anything alive on its own.
// Removed slots are chained into a free list (through their next index) and handed out again by later inserts, which
// keeps the slice from growing while the list size stays stable.

package list

import "iter"

// noSlot marks a missing neighbour or an empty free list.
const noSlot = -1

// arenaNode is a single slot inside ArenaList.nodes.
type arenaNode[T comparable] struct {
	value T
	next  int // Slot of the successor, or the next free slot when this slot is free.
	prev  int // Slot of the predecessor; noSlot for the head and for free slots.
}

// ArenaList is a positional list backed by a slice of nodes. The zero value is an empty list ready to use.
// Like DoublyLinkedList, it is not safe for concurrent use.
type ArenaList[T comparable] struct {
	nodes []arenaNode[T]
	head  int
	tail  int
	free  int // Head of the free slot chain.
	size  int
}

// NewArenaList creates an empty arena list with room for `capacity` elements before growing.
func NewArenaList[T comparable](capacity int) *ArenaList[T] {
	return &ArenaList[T]{
		nodes: make([]arenaNode[T], 0, max(capacity, 0)),
		head:  noSlot,
		tail:  noSlot,
		free:  noSlot,
	}
}

// lazyInit makes a zero value ArenaList usable.
func (l *ArenaList[T]) lazyInit() {
	if l.nodes == nil && l.size == 0 {
		l.head, l.tail, l.free = noSlot, noSlot, noSlot
	}
}

// alloc returns a slot holding `value` with no neighbours, recycling a free slot when there is one.
func (l *ArenaList[T]) alloc(value T) int {
	if l.free != noSlot {
		slot := l.free
		l.free = l.nodes[slot].next
		l.nodes[slot] = arenaNode[T]{value: value, next: noSlot, prev: noSlot}
		return slot
	}
	l.nodes = append(l.nodes, arenaNode[T]{value: value, next: noSlot, prev: noSlot})
	return len(l.nodes) - 1
}

// release zeroes the slot, so it doesn't retain the value, and pushes it onto the free list.
func (l *ArenaList[T]) release(slot int) {
	l.nodes[slot] = arenaNode[T]{next: l.free, prev: noSlot}
	l.free = slot
}

// slotAt returns the slot of the element at `pos`; the caller must make sure 0 <= pos < size.
func (l *ArenaList[T]) slotAt(pos int) int {
	if pos < l.size/2 {
		slot := l.head
		for range pos {
			slot = l.nodes[slot].next
		}
		return slot
	}
	slot := l.tail
	for range l.size - 1 - pos {
		slot = l.nodes[slot].prev
	}
	return slot
}

// Size returns the number of elements in the list.
func (l *ArenaList[T]) Size() int {
	return l.size
}

// Cap returns the number of allocated slots, live and free.
func (l *ArenaList[T]) Cap() int {
	return len(l.nodes)
}

// Get returns a copy of the value stored at `pos`, or ErrOutOfRange if pos is not in [0, Size()).
func (l *ArenaList[T]) Get(pos int) (T, error) {
	if pos < 0 || pos >= l.size {
		return *new(T), outOfRange("get", pos, l.size)
	}
	return l.nodes[l.slotAt(pos)].value, nil
}

// Find returns the position of the first element equal to `item`, or -1 if there's none.
func (l *ArenaList[T]) Find(item T) int {
	slot := l.head
	for pos := range l.size {
		if l.nodes[slot].value == item {
			return pos
		}
		slot = l.nodes[slot].next
	}
	return -1
}

// Insert puts `item` at `pos`, shifting the elements at pos and after it one position later.
// Valid positions are [0, Size()]; inserting at Size() appends to the tail.
func (l *ArenaList[T]) Insert(item T, pos int) error {
	if pos < 0 || pos > l.size {
		return outOfRange("insert", pos, l.size)
	}
	l.lazyInit()

	slot := l.alloc(item)
	switch {
	case pos == 0:
		l.nodes[slot].next = l.head
		if l.head != noSlot {
			l.nodes[l.head].prev = slot
		} else {
			l.tail = slot
		}
		l.head = slot
	case pos == l.size:
		l.nodes[slot].prev = l.tail
		l.nodes[l.tail].next = slot
		l.tail = slot
	default:
		successor := l.slotAt(pos)
		predecessor := l.nodes[successor].prev
		l.nodes[slot].prev = predecessor
		l.nodes[slot].next = successor
		l.nodes[predecessor].next = slot
		l.nodes[successor].prev = slot
	}

	l.size++
	return nil
}

// Remove deletes the element at `pos`, shifting the elements after it one position earlier.
// Valid positions are [0, Size()).
func (l *ArenaList[T]) Remove(pos int) error {
	if pos < 0 || pos >= l.size {
		return outOfRange("remove", pos, l.size)
	}

	slot := l.slotAt(pos)
	prev, next := l.nodes[slot].prev, l.nodes[slot].next
	if prev != noSlot {
		l.nodes[prev].next = next
	} else {
		l.head = next
	}
	if next != noSlot {
		l.nodes[next].prev = prev
	} else {
		l.tail = prev
	}
	l.release(slot)

	l.size--
	return nil
}

// Clear drops every element but keeps the allocated slice for reuse.
func (l *ArenaList[T]) Clear() {
	clear(l.nodes)
	l.nodes = l.nodes[:0]
	l.head, l.tail, l.free, l.size = noSlot, noSlot, noSlot, 0
}

// All yields the positions and values from head to tail.
// Mutating the list while iterating is undefined behaviour.
func (l *ArenaList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		slot := l.head
		for pos := range l.size {
			if !yield(pos, l.nodes[slot].value) {
				return
			}
			slot = l.nodes[slot].next
		}
	}
}

// Backward yields the positions and values from tail to head.
func (l *ArenaList[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		slot := l.tail
		for pos := l.size - 1; pos >= 0; pos-- {
			if !yield(pos, l.nodes[slot].value) {
				return
			}
			slot = l.nodes[slot].prev
		}
	}
}

// String renders the list as "[v0, v1, ...]". It is meant for debugging and isn't a stable format.
func (l *ArenaList[T]) String() string {
	return formatSequence(l.All())
}
