package gindex

import (
	"reflect"
	"sync"
)

// Storage is a shared handle to an IndexArray guarded by a read/write lock.
// A *Storage is the unit of shared ownership: every copy of the pointer aliases
// the same array, and every access goes through the handle's lock. Separate
// Storages lock independently, so systems can read one component type while
// another system writes a different one.
type Storage[T any] struct {
	mu    sync.RWMutex
	array *IndexArray[T]
}

// NewStorage creates a Storage around an empty IndexArray with capacity slots.
func NewStorage[T any](capacity int) *Storage[T] {
	return &Storage[T]{array: NewIndexArrayWithCapacity[T](capacity)}
}

// NewStorageFrom wraps an existing array. The caller must not touch the array
// directly afterwards.
func NewStorageFrom[T any](array *IndexArray[T]) *Storage[T] {
	if array == nil {
		array = NewIndexArray[T]()
	}
	return &Storage[T]{array: array}
}

// Read calls fn with the array while holding the read lock. fn must not mutate
// the array or keep references to its values after returning.
//
// fn must not call into a World that owns this store: World takes its own lock
// before store locks, so calling IsAlive, Get or Has from fn can deadlock
// against a concurrent Despawn. Use ReadLive to check liveness from fn.
func (s *Storage[T]) Read(fn func(array *IndexArray[T])) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.array)
}

// Write calls fn with the array while holding the write lock. As with Read,
// fn must not call into a World that owns this store; use WriteLive instead.
func (s *Storage[T]) Write(fn func(array *IndexArray[T])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.array)
}

// Get returns a copy of the value in idx's slot.
func (s *Storage[T]) Get(idx GenerationalIndex) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.array.Get(idx); ok {
		return *p, true
	}
	var zero T
	return zero, false
}

// Insert writes v into idx's slot.
func (s *Storage[T]) Insert(idx GenerationalIndex, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.array.Insert(idx, v)
}

// Remove empties idx's slot and returns what it held.
func (s *Storage[T]) Remove(idx GenerationalIndex) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.array.Remove(idx)
}

// Update calls fn with a pointer to the value in idx's slot under the write
// lock. It reports false, without calling fn, when the slot is empty.
func (s *Storage[T]) Update(idx GenerationalIndex, fn func(v *T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.array.Get(idx)
	if !ok {
		return false
	}
	fn(p)
	return true
}

// Count returns the number of occupied slots.
func (s *Storage[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.array.Count()
}

// Clear empties every slot.
func (s *Storage[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.array.Clear()
}

// The methods below make *Storage[T] an anyStorage.

func (s *Storage[T]) componentType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (s *Storage[T]) has(idx GenerationalIndex) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.array.Get(idx)
	return ok
}

func (s *Storage[T]) clear() {
	s.Clear()
}

// retainSlots empties every occupied slot for which keep returns false and
// returns how many were emptied.
func (s *Storage[T]) retainSlots(keep func(slot int) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for slot := range s.array.All() {
		if !keep(slot) {
			s.array.cells[slot].Take()
			dropped++
		}
	}
	return dropped
}

func (s *Storage[T]) removeAny(idx GenerationalIndex) bool {
	_, ok := s.Remove(idx)
	return ok
}

func (s *Storage[T]) count() int {
	return s.Count()
}
