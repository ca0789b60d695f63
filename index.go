// Package gindex provides generational indices, the allocator that hands them
// out, and the slot-addressed component stores keyed by them.
package gindex

import (
	"cmp"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// GenerationalIndex is a handle to an allocated slot. It pairs the slot number
// with the generation the slot had when it was allocated, so a handle kept
// across a deallocation never matches the slot's next occupant.
//
// GenerationalIndex is a plain value: it is comparable with ==, usable as a map
// key, and never changes after it is created. Only an Allocator should create
// one; see NewGenerationalIndex.
type GenerationalIndex struct {
	slot       uint32
	generation uint32
}

// NewGenerationalIndex forges an index from its raw parts. A forged index that
// happens to match a live (slot, generation) pair aliases that entity, so this
// is meant for tests and for rebuilding persisted references that are
// revalidated against an allocator afterwards.
func NewGenerationalIndex(slot, generation uint32) GenerationalIndex {
	return GenerationalIndex{slot: slot, generation: generation}
}

// Index returns the slot number.
func (g GenerationalIndex) Index() int {
	return int(g.slot)
}

// Generation returns the generation the slot had when g was allocated.
func (g GenerationalIndex) Generation() uint32 {
	return g.generation
}

// Compare orders indices by slot, then by generation.
func (g GenerationalIndex) Compare(other GenerationalIndex) int {
	if c := cmp.Compare(g.slot, other.slot); c != 0 {
		return c
	}
	return cmp.Compare(g.generation, other.generation)
}

func (g GenerationalIndex) String() string {
	return strconv.FormatUint(uint64(g.slot), 10) + ":" + strconv.FormatUint(uint64(g.generation), 10)
}

type generationalIndexJSON struct {
	Slot       uint32 `json:"slot"`
	Generation uint32 `json:"generation"`
}

// MarshalJSON encodes g as {"slot":n,"generation":g}.
func (g GenerationalIndex) MarshalJSON() ([]byte, error) {
	bz, err := json.Marshal(generationalIndexJSON{Slot: g.slot, Generation: g.generation})
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal generational index")
	}
	return bz, nil
}

// UnmarshalJSON decodes the form written by MarshalJSON. The decoded index is
// not checked against any allocator.
func (g *GenerationalIndex) UnmarshalJSON(bz []byte) error {
	var raw generationalIndexJSON
	if err := json.Unmarshal(bz, &raw); err != nil {
		return eris.Wrap(err, "failed to unmarshal generational index")
	}
	g.slot = raw.Slot
	g.generation = raw.Generation
	return nil
}
