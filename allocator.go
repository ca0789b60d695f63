package gindex

import "iter"

// minGrowCapacity is the smallest capacity an allocator grows to.
const minGrowCapacity = 16

// allocEntry is the per-slot state of an Allocator.
type allocEntry struct {
	live       bool   // true between Allocate and the next Deallocate of this slot
	generation uint32 // incremented once per Deallocate
}

// Allocator hands out GenerationalIndex values and is the authority on whether
// one is still live. Each slot cycles Free -> Live -> Free, and its generation
// is bumped on every Live -> Free transition.
//
// A slot is in the free list exactly when its entry is not live. Capacity only
// grows. Allocator is not safe for concurrent use; callers sharing one across
// goroutines must guard it with their own lock.
type Allocator struct {
	entries []allocEntry
	free    []uint32 // FIFO queue of free slots
}

// NewAllocator creates an allocator with n free slots at generation 0. The free
// list holds the slots in ascending order, so the first Allocate returns slot 0.
//
// Parameters:
//   - n: The number of slots to preallocate. Picking a size close to the
//     expected entity count avoids growth during play.
//
// Returns:
//   - The new Allocator.
func NewAllocator(n int) *Allocator {
	a := &Allocator{}
	a.grow(n)
	return a
}

// Allocate returns a handle to a free slot, growing the allocator when no slot
// is free. Growth doubles the capacity, to no less than 16 slots, and can not
// fail short of running out of memory.
//
// Returns:
//   - A handle that is live until it is passed to Deallocate. It never equals
//     another handle that is live at the same time.
func (a *Allocator) Allocate() GenerationalIndex {
	if len(a.free) == 0 {
		a.Reserve(max(2*len(a.entries), minGrowCapacity))
	}
	// Pop from the front of the free list.
	slot := a.free[0]
	a.free = a.free[1:]

	entry := &a.entries[slot]
	entry.live = true
	return GenerationalIndex{slot: slot, generation: entry.generation}
}

// Deallocate frees the slot referenced by idx and reports whether it did so.
// It returns false and changes nothing when idx is not live at its exact
// generation, which covers double frees, stale handles and slots that were
// never allocated.
func (a *Allocator) Deallocate(idx GenerationalIndex) bool {
	if !a.IsLive(idx) {
		return false
	}
	entry := &a.entries[idx.slot]
	entry.live = false
	entry.generation++
	a.free = append(a.free, idx.slot)
	return true
}

// IsLive reports whether idx refers to a currently allocated slot at the
// generation it was handed out with.
func (a *Allocator) IsLive(idx GenerationalIndex) bool {
	if int(idx.slot) >= len(a.entries) {
		return false
	}
	entry := a.entries[idx.slot]
	return entry.live && entry.generation == idx.generation
}

// Reserve grows the allocator to at least max(size, 16) slots when size is
// larger than the current capacity. It never shrinks the allocator.
func (a *Allocator) Reserve(size int) {
	if size <= len(a.entries) {
		return
	}
	a.grow(max(size, minGrowCapacity) - len(a.entries))
}

// grow appends n free slots at generation 0.
func (a *Allocator) grow(n int) {
	if n <= 0 {
		return
	}
	start := len(a.entries)
	a.entries = append(a.entries, make([]allocEntry, n)...)
	for i := range n {
		a.free = append(a.free, uint32(start+i))
	}
}

// Capacity returns the number of slots, live or free.
func (a *Allocator) Capacity() int {
	return len(a.entries)
}

// FreeCapacity returns the number of slots in the free list.
func (a *Allocator) FreeCapacity() int {
	return len(a.free)
}

// Len returns the number of live slots.
func (a *Allocator) Len() int {
	return len(a.entries) - len(a.free)
}

// IterLive yields every live handle in ascending slot order. The sequence reads
// the allocator as it is when iterated, so it can be ranged over repeatedly.
// Allocating or deallocating while ranging is not supported.
func (a *Allocator) IterLive() iter.Seq[GenerationalIndex] {
	return func(yield func(GenerationalIndex) bool) {
		for i, entry := range a.entries {
			if !entry.live {
				continue
			}
			if !yield(GenerationalIndex{slot: uint32(i), generation: entry.generation}) {
				return
			}
		}
	}
}

// Clear deallocates every live slot and rebuilds the free list in ascending
// order. Every handle allocated before Clear becomes stale.
func (a *Allocator) Clear() {
	a.free = a.free[:0]
	for i := range a.entries {
		entry := &a.entries[i]
		if entry.live {
			entry.live = false
			entry.generation++
		}
		a.free = append(a.free, uint32(i))
	}
}
