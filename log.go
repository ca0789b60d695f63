package gindex

import (
	"github.com/rs/zerolog"
)

func loadComponentsToEvent(event *zerolog.Event, cs *ComponentStore) *zerolog.Event {
	counts := cs.Counts()
	arr := zerolog.Arr()
	for _, t := range cs.Types() {
		arr = arr.Dict(zerolog.Dict().
			Str("component_type", t.String()).
			Int("count", counts[t]))
	}
	event.Int("total_components", cs.Len())
	return event.Array("components", arr)
}

// LogComponents logs every registered component type of w with the number of
// values stored for it.
func LogComponents(logger *zerolog.Logger, w *World, level zerolog.Level) {
	event := logger.WithLevel(level)
	loadComponentsToEvent(event, w.components).Send()
}

// LogWorld logs the entity counts of w along with its components.
func LogWorld(logger *zerolog.Logger, w *World, level zerolog.Level) {
	w.mu.RLock()
	live, capacity, free := w.entities.Len(), w.entities.Capacity(), w.entities.FreeCapacity()
	w.mu.RUnlock()

	event := logger.WithLevel(level).
		Int("live_entities", live).
		Int("capacity", capacity).
		Int("free_capacity", free)
	loadComponentsToEvent(event, w.components).Send()
}

// LogEntity logs idx and the component types it has. Stale handles are logged
// with alive=false and no components.
func LogEntity(logger *zerolog.Logger, w *World, idx GenerationalIndex, level zerolog.Level) {
	types := w.ComponentTypes(idx)
	arr := zerolog.Arr()
	for _, t := range types {
		arr = arr.Str(t.String())
	}
	logger.WithLevel(level).
		Int("slot", idx.Index()).
		Uint32("generation", idx.Generation()).
		Bool("alive", w.IsAlive(idx)).
		Array("components", arr).
		Send()
}
