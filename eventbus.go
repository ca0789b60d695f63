package gindex

import (
	"reflect"
	"sync"
)

// EntitySpawned is published by World.Spawn.
type EntitySpawned struct {
	Entity GenerationalIndex
}

// EntityDespawned is published by World.Despawn after the entity's slot has
// been freed and its components removed. Entity is already stale.
type EntityDespawned struct {
	Entity     GenerationalIndex
	Components int // number of components removed with the entity
}

// EventBus delivers typed events to subscribed handlers. Handlers for a type
// are called synchronously, in subscription order, on the publishing
// goroutine.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]any
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[reflect.Type][]any)}
}

// Subscribe registers handler for events of type T.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	t := reflect.TypeFor[T]()
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.handlers == nil {
		bus.handlers = make(map[reflect.Type][]any)
	}
	bus.handlers[t] = append(bus.handlers[t], handler)
}

// Publish calls every handler subscribed to T with event. Handlers may
// subscribe further handlers; those are not called for the current event.
func Publish[T any](bus *EventBus, event T) {
	bus.mu.RLock()
	hs := bus.handlers[reflect.TypeFor[T]()]
	bus.mu.RUnlock()
	for _, h := range hs {
		h.(func(T))(event)
	}
}

// HasSubscribers reports whether any handler is subscribed to T.
func HasSubscribers[T any](bus *EventBus) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.handlers[reflect.TypeFor[T]()]) > 0
}
