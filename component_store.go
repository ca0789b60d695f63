package gindex

import (
	"reflect"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
)

// anyStorage is the erased form of a *Storage[T] held by a ComponentStore.
type anyStorage interface {
	componentType() reflect.Type
	has(idx GenerationalIndex) bool
	removeAny(idx GenerationalIndex) bool
	retainSlots(keep func(slot int) bool) int
	clear()
	count() int
}

var _ anyStorage = &Storage[struct{}]{}

// ComponentStore maps each component type to the one Storage holding that
// type's values. Lookups are keyed by reflect.Type, so two distinct types never
// share a store however they are named.
//
// The registry is meant to be filled during setup and only read afterwards;
// reads may then happen from many goroutines, but registering a store while
// others read is a data race. Access to the values goes through each
// Storage's own lock.
type ComponentStore struct {
	stores map[reflect.Type]anyStorage
}

// NewComponentStore creates an empty registry.
func NewComponentStore() *ComponentStore {
	return &ComponentStore{stores: make(map[reflect.Type]anyStorage)}
}

// InsertStore registers s as the store for T, replacing any store previously
// registered for T. Stores should be inserted during setup, before the
// registry is read from other goroutines.
//
// Parameters:
//   - cs: The registry to insert into.
//   - s: The shared handle holding T's values. It must not be nil.
func InsertStore[T any](cs *ComponentStore, s *Storage[T]) {
	if s == nil {
		panic("gindex: cannot insert nil storage")
	}
	if cs.stores == nil {
		cs.stores = make(map[reflect.Type]anyStorage)
	}
	cs.stores[reflect.TypeFor[T]()] = s
}

// TryGetComponent returns the store registered for T. The lookup is keyed by
// T's exact type, so it never returns another type's store.
//
// Parameters:
//   - cs: The registry to look in.
//
// Returns:
//   - The registered handle, aliasing every other holder of it, and true.
//   - nil and false when nothing is registered for T.
func TryGetComponent[T any](cs *ComponentStore) (*Storage[T], bool) {
	erased, ok := cs.stores[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return mustDowncast[T](erased), true
}

// RegisterComponent returns the store for T, creating and registering an empty
// one with the given capacity if none exists.
func RegisterComponent[T any](cs *ComponentStore, capacity int) *Storage[T] {
	if s, ok := TryGetComponent[T](cs); ok {
		return s
	}
	s := NewStorage[T](capacity)
	InsertStore(cs, s)
	return s
}

// mustDowncast converts an erased store back to the type it was keyed under.
// A mismatch means the registry itself is corrupt, so it panics.
func mustDowncast[T any](erased anyStorage) *Storage[T] {
	s, ok := erased.(*Storage[T])
	if !ok {
		panic(eris.Wrapf(ErrStoreTypeMismatch, "store for %v holds %v", reflect.TypeFor[T](), erased.componentType()))
	}
	return s
}

// Len returns the number of registered stores.
func (cs *ComponentStore) Len() int {
	return len(cs.stores)
}

// Types returns the registered component types sorted by name.
func (cs *ComponentStore) Types() []reflect.Type {
	types := make([]reflect.Type, 0, len(cs.stores))
	for t := range cs.stores {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return types
}

// Counts returns the number of stored values per registered type.
func (cs *ComponentStore) Counts() map[reflect.Type]int {
	counts := make(map[reflect.Type]int, len(cs.stores))
	for t, s := range cs.stores {
		counts[t] = s.count()
	}
	return counts
}

// removeAll empties idx's slot in every store and returns how many stores held
// a value for it. Each store is locked on its own; there is no atomicity across
// stores.
func (cs *ComponentStore) removeAll(idx GenerationalIndex) int {
	removed := 0
	for _, s := range cs.stores {
		if s.removeAny(idx) {
			removed++
		}
	}
	return removed
}

// typesOf returns the types of every store holding a value in idx's slot,
// sorted by name.
func (cs *ComponentStore) typesOf(idx GenerationalIndex) []reflect.Type {
	types := make([]reflect.Type, 0)
	for _, t := range cs.Types() {
		if cs.stores[t].has(idx) {
			types = append(types, t)
		}
	}
	return types
}

func (cs *ComponentStore) clearAll() {
	for _, s := range cs.stores {
		s.clear()
	}
}

// retainAll empties, in every store, the slots for which keep returns false.
func (cs *ComponentStore) retainAll(keep func(slot int) bool) int {
	dropped := 0
	for _, s := range cs.stores {
		dropped += s.retainSlots(keep)
	}
	return dropped
}
