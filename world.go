package gindex

import (
	"iter"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World ties one Allocator to a ComponentStore. Entities are handles from the
// allocator; their components live in one Storage per component type, keyed by
// the same handle. Every component access through World checks the handle
// against the allocator first, so a stale handle never reads or writes the
// data of a slot's next occupant.
//
// The allocator is guarded by the world's own lock. Component stores lock
// independently; writes to two stores for the same entity are two separate
// critical sections.
type World struct {
	mu         sync.RWMutex // guards entities
	entities   *Allocator
	components *ComponentStore
	events     *EventBus
	logger     zerolog.Logger
	config     Config
}

// Option configures a World.
type Option func(*World)

// WithConfig sets the world's capacities.
func WithConfig(cfg Config) Option {
	return func(w *World) {
		w.config = cfg
	}
}

// WithLogger sets the logger the world reports to. The default discards.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithEventBus makes the world publish spawn and despawn events on bus.
func WithEventBus(bus *EventBus) Option {
	return func(w *World) {
		w.events = bus
	}
}

// NewWorld creates a world with an empty component registry and an allocator
// sized by the config's InitialCapacity.
//
// Parameters:
//   - opts: Options applied in order. Without WithConfig the world uses
//     DefaultConfig; without WithLogger it logs nowhere; without WithEventBus
//     it publishes to a bus of its own, reachable through Events.
//
// Returns:
//   - The new World.
func NewWorld(opts ...Option) *World {
	w := &World{
		components: NewComponentStore(),
		logger:     zerolog.Nop(),
		config:     DefaultConfig(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.events == nil {
		w.events = NewEventBus()
	}
	w.entities = NewAllocator(w.config.InitialCapacity)
	w.logger = w.logger.With().Str("component", "world").Logger()
	return w
}

// Spawn allocates a new entity.
func (w *World) Spawn() GenerationalIndex {
	w.mu.Lock()
	idx := w.entities.Allocate()
	w.mu.Unlock()

	Publish(w.events, EntitySpawned{Entity: idx})
	return idx
}

// SpawnN allocates count entities.
func (w *World) SpawnN(count int) []GenerationalIndex {
	if count <= 0 {
		return nil
	}
	ents := make([]GenerationalIndex, count)
	w.mu.Lock()
	w.entities.Reserve(w.entities.Len() + count)
	for i := range ents {
		ents[i] = w.entities.Allocate()
	}
	w.mu.Unlock()

	if HasSubscribers[EntitySpawned](w.events) {
		for _, e := range ents {
			Publish(w.events, EntitySpawned{Entity: e})
		}
	}
	return ents
}

// Despawn frees idx and removes its components from every registered store.
// It reports false, doing nothing, when idx is not alive.
func (w *World) Despawn(idx GenerationalIndex) bool {
	w.mu.Lock()
	if !w.entities.Deallocate(idx) {
		w.mu.Unlock()
		return false
	}
	// Still under the world lock so the slot can not be handed out and
	// written to before its old components are gone.
	removed := w.components.removeAll(idx)
	w.mu.Unlock()

	Publish(w.events, EntityDespawned{Entity: idx, Components: removed})
	return true
}

// IsAlive reports whether idx is a live handle of this world.
func (w *World) IsAlive(idx GenerationalIndex) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entities.IsLive(idx)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entities.Len()
}

// Capacity returns the number of entity slots.
func (w *World) Capacity() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entities.Capacity()
}

// Entities yields the live entities in ascending slot order. Each iteration
// takes a copy of the live set when it starts, so the loop body may spawn and
// despawn; handles despawned during the loop are still yielded.
func (w *World) Entities() iter.Seq[GenerationalIndex] {
	return func(yield func(GenerationalIndex) bool) {
		for _, idx := range w.liveEntities() {
			if !yield(idx) {
				return
			}
		}
	}
}

func (w *World) liveEntities() []GenerationalIndex {
	w.mu.RLock()
	defer w.mu.RUnlock()
	live := make([]GenerationalIndex, 0, w.entities.Len())
	for idx := range w.entities.IterLive() {
		live = append(live, idx)
	}
	return live
}

// Components returns the world's component registry.
func (w *World) Components() *ComponentStore {
	return w.components
}

// Events returns the bus the world publishes to.
func (w *World) Events() *EventBus {
	return w.events
}

// Logger returns the world's logger.
func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// Clear despawns every entity and empties every store. No despawn events are
// published.
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	live := w.entities.Len()
	w.entities.Clear()
	w.components.clearAll()
	w.logger.Info().Int("entities", live).Msg("world cleared")
}

// Snapshot returns the state of the world's allocator. Component values are
// not included.
func (w *World) Snapshot() AllocatorState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entities.Snapshot()
}

// Restore replaces the world's allocator with one rebuilt from state. A slot
// keeps its component values only when it is live at the same generation both
// before and after the restore; every other slot is emptied, so a handle made
// live again never reads values written by a later occupant of its slot.
func (w *World) Restore(state AllocatorState) error {
	restored, err := RestoreAllocator(state)
	if err != nil {
		return eris.Wrap(err, "failed to restore world")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	previous := w.entities
	w.entities = restored
	dropped := w.components.retainAll(func(slot int) bool {
		if slot >= len(state.Entries) || slot >= len(previous.entries) {
			return false
		}
		before, after := previous.entries[slot], state.Entries[slot]
		return before.live && after.Live && before.generation == after.Generation
	})
	w.logger.Info().
		Int("entities", restored.Len()).
		Int("capacity", restored.Capacity()).
		Int("dropped_components", dropped).
		Msg("world restored")
	return nil
}
