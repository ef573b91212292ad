// Package ilist provides an intrusive doubly-linked list. The engine's
// connection registry (package ctcp) is built on top of it: inserting
// and removing a live connection never allocates, and the timer can
// walk the whole registry while destroying entries as it goes, simply
// by capturing the successor before acting on the current entry.
package ilist

// Linker is the interface that objects must implement if they want to be
// added to and/or removed from a List.
type Linker interface {
	Next() Linker
	Prev() Linker
	SetNext(Linker)
	SetPrev(Linker)
}

// List is an intrusive list. Entries can be added to or removed from the
// list in O(1) time and with no additional memory allocations.
//
// The zero value for List is an empty list ready to use.
//
// To iterate over a list (where l is a List):
//
//	for e := l.Front(); e != nil; e = e.Next() {
//		// do something with e
//	}
type List struct {
	head Linker
	tail Linker
	len  int
}

// Reset resets list l to the empty state.
func (l *List) Reset() {
	l.head = nil
	l.tail = nil
	l.len = 0
}

// Empty returns true if the list is empty.
func (l *List) Empty() bool {
	return l.head == nil
}

// Len returns the number of elements in the list. Used by the registry
// to report a live-connection gauge without a separate counter.
func (l *List) Len() int {
	return l.len
}

// Front returns the first element of list l or nil.
func (l *List) Front() Linker {
	return l.head
}

// Back returns the last element of list l or nil.
func (l *List) Back() Linker {
	return l.tail
}

// PushFront inserts the element e at the front of list l. The registry
// uses this on connection creation so that the timer, which always
// walks front-to-back, visits the most recently opened connections
// first (insertion-LIFO order).
func (l *List) PushFront(e Linker) {
	e.SetNext(l.head)
	e.SetPrev(nil)

	if l.head != nil {
		l.head.SetPrev(e)
	} else {
		l.tail = e
	}

	l.head = e
	l.len++
}

// PushBack inserts the element e at the back of list l.
func (l *List) PushBack(e Linker) {
	e.SetNext(nil)
	e.SetPrev(l.tail)

	if l.tail != nil {
		l.tail.SetNext(e)
	} else {
		l.head = e
	}

	l.tail = e
	l.len++
}

// InsertBefore inserts e before mark, which must already be in l.
func (l *List) InsertBefore(mark, e Linker) {
	prev := mark.Prev()
	e.SetPrev(prev)
	e.SetNext(mark)
	mark.SetPrev(e)

	if prev != nil {
		prev.SetNext(e)
	} else {
		l.head = e
	}
	l.len++
}

// Remove removes e from l.
func (l *List) Remove(e Linker) {
	prev := e.Prev()
	next := e.Next()

	if prev != nil {
		prev.SetNext(next)
	} else {
		l.head = next
	}

	if next != nil {
		next.SetPrev(prev)
	} else {
		l.tail = prev
	}
	l.len--
}

// Entry is a default implementation of Linker. Users can add anonymous
// fields of this type to their structs to make them automatically
// implement the methods needed by List.
type Entry struct {
	next Linker
	prev Linker
}

// Next returns the entry that follows e in the list.
func (e *Entry) Next() Linker {
	return e.next
}

// Prev returns the entry that precedes e in the list.
func (e *Entry) Prev() Linker {
	return e.prev
}

// SetNext assigns 'entry' as the entry that follows e in the list.
func (e *Entry) SetNext(entry Linker) {
	e.next = entry
}

// SetPrev assigns 'entry' as the entry that precedes e in the list.
func (e *Entry) SetPrev(entry Linker) {
	e.prev = entry
}
