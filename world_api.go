package gindex

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Register returns the world's store for T, creating it with the configured
// component capacity on first use. Stores should be registered during setup,
// before the world is shared between goroutines.
func Register[T any](w *World) *Storage[T] {
	if s, ok := TryGetComponent[T](w.components); ok {
		return s
	}
	s := RegisterComponent[T](w.components, w.config.ComponentCapacity)
	w.logger.Debug().
		Str("component_type", reflect.TypeFor[T]().String()).
		Int("capacity", w.config.ComponentCapacity).
		Msg("component store registered")
	return s
}

// Set writes v as idx's T component.
func Set[T any](w *World, idx GenerationalIndex, v T) error {
	s, ok := TryGetComponent[T](w.components)
	if !ok {
		return eris.Wrapf(ErrComponentNotRegistered, "set %v on %v", reflect.TypeFor[T](), idx)
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.entities.IsLive(idx) {
		return eris.Wrapf(ErrEntityNotAlive, "set %v on %v", reflect.TypeFor[T](), idx)
	}
	s.Insert(idx, v)
	return nil
}

// Get returns a copy of idx's T component. It reports false when idx is stale,
// when T is not registered, or when idx has no T.
func Get[T any](w *World, idx GenerationalIndex) (T, bool) {
	var zero T
	s, ok := TryGetComponent[T](w.components)
	if !ok {
		return zero, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.entities.IsLive(idx) {
		return zero, false
	}
	return s.Get(idx)
}

// Has reports whether idx is alive and has a T component.
func Has[T any](w *World, idx GenerationalIndex) bool {
	_, ok := Get[T](w, idx)
	return ok
}

// Remove deletes idx's T component and returns it.
func Remove[T any](w *World, idx GenerationalIndex) (T, bool) {
	var zero T
	s, ok := TryGetComponent[T](w.components)
	if !ok {
		return zero, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.entities.IsLive(idx) {
		return zero, false
	}
	return s.Remove(idx)
}

// Update calls fn with a pointer to idx's T component under the store's write
// lock and reports whether it did. fn must not call back into the world for T.
func Update[T any](w *World, idx GenerationalIndex, fn func(v *T)) bool {
	s, ok := TryGetComponent[T](w.components)
	if !ok {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.entities.IsLive(idx) {
		return false
	}
	return s.Update(idx, fn)
}

// ComponentTypes returns the types of the components idx has, sorted by name.
// It returns nil for a stale handle.
func (w *World) ComponentTypes(idx GenerationalIndex) []reflect.Type {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.entities.IsLive(idx) {
		return nil
	}
	return w.components.typesOf(idx)
}
