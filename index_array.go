package gindex

import "iter"

const (
	// DefaultIndexArrayCapacity is the number of slots NewIndexArray preallocates.
	DefaultIndexArrayCapacity = 256
	minIndexArrayGrow         = 16
)

// Cell is one slot of an IndexArray: either empty or holding a value.
type Cell[T any] struct {
	value T
	ok    bool
}

// Get returns the held value and whether there is one.
func (c Cell[T]) Get() (T, bool) {
	return c.value, c.ok
}

// Ptr returns a pointer to the held value, or nil if the cell is empty.
func (c *Cell[T]) Ptr() *T {
	if !c.ok {
		return nil
	}
	return &c.value
}

// IsSome reports whether the cell holds a value.
func (c Cell[T]) IsSome() bool {
	return c.ok
}

// Set stores v, replacing any held value.
func (c *Cell[T]) Set(v T) {
	c.value = v
	c.ok = true
}

// Take empties the cell and returns what it held.
func (c *Cell[T]) Take() (T, bool) {
	v, ok := c.value, c.ok
	var zero T
	c.value = zero
	c.ok = false
	return v, ok
}

// IndexArray stores at most one T per slot, addressed by the slot number of a
// GenerationalIndex.
//
// IndexArray does not look at generations. A handle whose slot was deallocated
// and reused still reads whatever was last written to that slot, so callers
// that care about staleness must check the handle against the Allocator that
// issued it before trusting a read. One allocator can thus serve any number of
// IndexArrays, one per component type.
type IndexArray[T any] struct {
	cells []Cell[T]
}

// NewIndexArray creates an IndexArray with DefaultIndexArrayCapacity empty slots.
func NewIndexArray[T any]() *IndexArray[T] {
	return NewIndexArrayWithCapacity[T](DefaultIndexArrayCapacity)
}

// NewIndexArrayWithCapacity creates an IndexArray with n empty slots.
func NewIndexArrayWithCapacity[T any](n int) *IndexArray[T] {
	return &IndexArray[T]{cells: make([]Cell[T], max(n, 0))}
}

// Insert writes v at idx's slot, growing the array to max(2*slot, 16) slots if
// the slot is out of bounds. Any value already in the slot is overwritten; no
// generation check is made.
func (a *IndexArray[T]) Insert(idx GenerationalIndex, v T) {
	slot := idx.Index()
	if slot >= len(a.cells) {
		a.cells = extendSlice(a.cells, max(2*slot, minIndexArrayGrow, slot+1))
	}
	a.cells[slot].Set(v)
}

// Remove empties idx's slot and returns the value it held. An out-of-bounds or
// empty slot yields the zero value and false.
func (a *IndexArray[T]) Remove(idx GenerationalIndex) (T, bool) {
	slot := idx.Index()
	if slot >= len(a.cells) {
		var zero T
		return zero, false
	}
	return a.cells[slot].Take()
}

// Get returns a pointer to the value in idx's slot. The pointer is valid until
// the next Insert that grows the array.
func (a *IndexArray[T]) Get(idx GenerationalIndex) (*T, bool) {
	slot := idx.Index()
	if slot >= len(a.cells) {
		return nil, false
	}
	p := a.cells[slot].Ptr()
	return p, p != nil
}

// GetMut returns the cell for idx's slot so the caller can set or clear it in
// place. It returns nil when the slot is out of bounds; it never grows the
// array. Use Insert to write past the current length.
func (a *IndexArray[T]) GetMut(idx GenerationalIndex) *Cell[T] {
	slot := idx.Index()
	if slot >= len(a.cells) {
		return nil
	}
	return &a.cells[slot]
}

// At returns a copy of idx's cell, empty when the slot is out of bounds.
func (a *IndexArray[T]) At(idx GenerationalIndex) Cell[T] {
	slot := idx.Index()
	if slot >= len(a.cells) {
		return Cell[T]{}
	}
	return a.cells[slot]
}

// Len returns the number of slots backing the array.
func (a *IndexArray[T]) Len() int {
	return len(a.cells)
}

// Count returns the number of occupied slots. It scans the whole array.
func (a *IndexArray[T]) Count() int {
	n := 0
	for i := range a.cells {
		if a.cells[i].ok {
			n++
		}
	}
	return n
}

// All yields the slot number and a pointer to the value of every occupied slot,
// in ascending slot order.
func (a *IndexArray[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range a.cells {
			cell := &a.cells[i]
			if !cell.ok {
				continue
			}
			if !yield(i, &cell.value) {
				return
			}
		}
	}
}

// Clear empties every slot, keeping the backing storage.
func (a *IndexArray[T]) Clear() {
	clear(a.cells)
}
