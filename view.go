package gindex

import "iter"

// View yields every live entity that has a T component, with a copy of that
// component, in ascending slot order. Entities despawned while the loop runs
// are skipped once they are reached.
func View[T any](w *World) iter.Seq2[GenerationalIndex, T] {
	return func(yield func(GenerationalIndex, T) bool) {
		if _, ok := TryGetComponent[T](w.components); !ok {
			return
		}
		for _, idx := range w.liveEntities() {
			v, ok := Get[T](w, idx)
			if !ok {
				continue
			}
			if !yield(idx, v) {
				return
			}
		}
	}
}

// Pair holds two components of one entity.
type Pair[A, B any] struct {
	A A
	B B
}

// View2 yields every live entity that has both an A and a B component.
func View2[A, B any](w *World) iter.Seq2[GenerationalIndex, Pair[A, B]] {
	return func(yield func(GenerationalIndex, Pair[A, B]) bool) {
		for idx, a := range View[A](w) {
			b, ok := Get[B](w, idx)
			if !ok {
				continue
			}
			if !yield(idx, Pair[A, B]{A: a, B: b}) {
				return
			}
		}
	}
}

// Each calls fn with a pointer to the T component of every live entity that
// has one, holding the world's read lock and T's write lock for the whole
// pass. fn must not call back into the world. Returning false from fn stops
// the pass.
func Each[T any](w *World, fn func(idx GenerationalIndex, v *T) bool) {
	s, ok := TryGetComponent[T](w.components)
	if !ok {
		return
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	s.Write(func(array *IndexArray[T]) {
		for idx := range w.entities.IterLive() {
			p, ok := array.Get(idx)
			if !ok {
				continue
			}
			if !fn(idx, p) {
				return
			}
		}
	})
}

// ReadLive calls fn with T's array under the world's read lock and T's read
// lock, taken in that order. isLive checks a handle against the world's
// allocator without locking again, so fn can skip stale handles while reading
// the array directly. fn must not call back into the world. It reports false,
// without calling fn, when T is not registered.
func ReadLive[T any](w *World, fn func(array *IndexArray[T], isLive func(GenerationalIndex) bool)) bool {
	s, ok := TryGetComponent[T](w.components)
	if !ok {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	s.Read(func(array *IndexArray[T]) {
		fn(array, w.entities.IsLive)
	})
	return true
}

// WriteLive is ReadLive with T's write lock.
func WriteLive[T any](w *World, fn func(array *IndexArray[T], isLive func(GenerationalIndex) bool)) bool {
	s, ok := TryGetComponent[T](w.components)
	if !ok {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	s.Write(func(array *IndexArray[T]) {
		fn(array, w.entities.IsLive)
	})
	return true
}
