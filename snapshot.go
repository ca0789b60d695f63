package gindex

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// EntryState is the persisted form of one allocator slot.
type EntryState struct {
	Live       bool   `json:"live"`
	Generation uint32 `json:"generation"`
}

// AllocatorState is the persisted form of an Allocator. Handles saved
// elsewhere only stay meaningful if they are reloaded together with the state
// of the allocator that issued them.
type AllocatorState struct {
	Entries []EntryState `json:"entries"`
	Free    []uint32     `json:"free"`
}

// Snapshot copies the allocator's state.
func (a *Allocator) Snapshot() AllocatorState {
	state := AllocatorState{
		Entries: make([]EntryState, len(a.entries)),
		Free:    make([]uint32, len(a.free)),
	}
	for i, entry := range a.entries {
		state.Entries[i] = EntryState{Live: entry.live, Generation: entry.generation}
	}
	copy(state.Free, a.free)
	return state
}

// RestoreAllocator rebuilds an allocator from state. The free list must name
// each non-live slot exactly once and no live slot.
func RestoreAllocator(state AllocatorState) (*Allocator, error) {
	if err := state.validate(); err != nil {
		return nil, err
	}
	a := &Allocator{
		entries: make([]allocEntry, len(state.Entries)),
		free:    make([]uint32, len(state.Free)),
	}
	for i, entry := range state.Entries {
		a.entries[i] = allocEntry{live: entry.Live, generation: entry.Generation}
	}
	copy(a.free, state.Free)
	return a, nil
}

func (s AllocatorState) validate() error {
	seen := make([]bool, len(s.Entries))
	for _, slot := range s.Free {
		if int(slot) >= len(s.Entries) {
			return eris.Wrapf(ErrInvalidSnapshot, "free slot %d out of range [0, %d)", slot, len(s.Entries))
		}
		if s.Entries[slot].Live {
			return eris.Wrapf(ErrInvalidSnapshot, "free slot %d is marked live", slot)
		}
		if seen[slot] {
			return eris.Wrapf(ErrInvalidSnapshot, "free slot %d listed twice", slot)
		}
		seen[slot] = true
	}
	for i, entry := range s.Entries {
		if !entry.Live && !seen[i] {
			return eris.Wrapf(ErrInvalidSnapshot, "slot %d is free but missing from the free list", i)
		}
	}
	return nil
}

// MarshalAllocator encodes the allocator's state as JSON.
func MarshalAllocator(a *Allocator) ([]byte, error) {
	bz, err := json.Marshal(a.Snapshot())
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal allocator state")
	}
	return bz, nil
}

// UnmarshalAllocator decodes and validates state written by MarshalAllocator.
func UnmarshalAllocator(bz []byte) (*Allocator, error) {
	var state AllocatorState
	if err := json.Unmarshal(bz, &state); err != nil {
		return nil, eris.Wrap(err, "failed to unmarshal allocator state")
	}
	return RestoreAllocator(state)
}
