// Package list provides positional list containers.
//
// This file implements DoublyLinkedList, a generic doubly linked list addressed by zero-based positions.
// Every node owns the link to its successor; the link to its predecessor is only a back-reference used to walk the
// chain backwards and is never followed to release anything.
//
// Properties
// - Size: O(1)
// - Get: O(min(pos, size-pos)), walking from whichever end is closer
// - Find: O(n), scanning from the head
// - Insert / Remove: O(1) at both ends, O(min(pos, size-pos)) elsewhere
//
// The list is not safe for concurrent use; callers must arrange exclusive access.
package list

import "iter"

// linkedListNode represents a node in the doubly linked list.
type linkedListNode[T comparable] struct {
	next  *linkedListNode[T]
	prev  *linkedListNode[T] // Back-reference to the node whose next is this node.
	value T
}

// DoublyLinkedList is a sequence of values linked in both directions. The zero value is an empty list ready to use.
type DoublyLinkedList[T comparable] struct {
	head *linkedListNode[T]
	tail *linkedListNode[T]
	size int
}

// New creates a new empty doubly linked list.
func New[T comparable]() *DoublyLinkedList[T] {
	return new(DoublyLinkedList[T])
}

// Size returns the number of elements in the list.
func (l *DoublyLinkedList[T]) Size() int {
	return l.size
}

// nodeAt returns the node at `pos`; the caller must make sure 0 <= pos < size.
func (l *DoublyLinkedList[T]) nodeAt(pos int) *linkedListNode[T] {
	if pos < l.size/2 {
		node := l.head
		for range pos {
			node = node.next
		}
		return node
	}
	node := l.tail
	for range l.size - 1 - pos {
		node = node.prev
	}
	return node
}

// Get returns a copy of the value stored at `pos`, or ErrOutOfRange if pos is not in [0, Size()).
// The returned value is detached from the list; mutating the list afterwards doesn't affect it.
func (l *DoublyLinkedList[T]) Get(pos int) (T, error) {
	if pos < 0 || pos >= l.size {
		return *new(T), outOfRange("get", pos, l.size)
	}
	return l.nodeAt(pos).value, nil
}

// Find returns the position of the first element equal to `item`, or -1 if there's none.
func (l *DoublyLinkedList[T]) Find(item T) int {
	pos := 0
	for node := l.head; node != nil; node = node.next {
		if node.value == item {
			return pos
		}
		pos++
	}
	return -1
}

// Insert puts `item` at `pos`, shifting the elements at pos and after it one position later.
// Valid positions are [0, Size()]; inserting at Size() appends to the tail.
func (l *DoublyLinkedList[T]) Insert(item T, pos int) error {
	if pos < 0 || pos > l.size {
		return outOfRange("insert", pos, l.size)
	}

	node := &linkedListNode[T]{value: item}
	switch {
	case pos == 0: // New head.
		node.next = l.head
		if l.head != nil {
			l.head.prev = node
		} else { // List was empty.
			l.tail = node
		}
		l.head = node
	case pos == l.size: // Append; the list is non-empty here.
		node.prev = l.tail
		l.tail.next = node
		l.tail = node
	default: // Splice between the nodes at pos-1 and pos.
		successor := l.nodeAt(pos)
		node.prev = successor.prev
		node.next = successor
		successor.prev.next = node
		successor.prev = node
	}

	l.size++
	return nil
}

// Remove deletes the element at `pos`, shifting the elements after it one position earlier.
// Valid positions are [0, Size()).
func (l *DoublyLinkedList[T]) Remove(pos int) error {
	if pos < 0 || pos >= l.size {
		return outOfRange("remove", pos, l.size)
	}

	node := l.nodeAt(pos)
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		// Node is the head.
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		// Node is the tail.
		l.tail = node.prev
	}

	// Clean up the removed node's pointers.
	node.next = nil
	node.prev = nil

	l.size--
	return nil
}

// Clear releases every node; the list is empty and reusable afterwards.
func (l *DoublyLinkedList[T]) Clear() {
	for node := l.head; node != nil; {
		next := node.next
		node.next, node.prev = nil, nil
		node = next
	}
	l.head, l.tail, l.size = nil, nil, 0
}

// All yields the positions and values from head to tail.
// Mutating the list while iterating is undefined behaviour.
func (l *DoublyLinkedList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		pos := 0
		for node := l.head; node != nil; node = node.next {
			if !yield(pos, node.value) {
				return
			}
			pos++
		}
	}
}

// Backward yields the positions and values from tail to head, following the back-references.
func (l *DoublyLinkedList[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		pos := l.size - 1
		for node := l.tail; node != nil; node = node.prev {
			if !yield(pos, node.value) {
				return
			}
			pos--
		}
	}
}

// String renders the list as "[v0, v1, ...]". It is meant for debugging and isn't a stable format.
func (l *DoublyLinkedList[T]) String() string {
	return formatSequence(l.All())
}
