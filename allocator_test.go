package gindex

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorNew(t *testing.T) {
	a := NewAllocator(4)
	assert.Equal(t, 4, a.Capacity())
	assert.Equal(t, 4, a.FreeCapacity())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, []uint32{0, 1, 2, 3}, a.free)
}

func TestAllocatorAllocateIsLive(t *testing.T) {
	for _, n := range []int{0, 1, 2, 16, 100} {
		a := NewAllocator(n)
		h := a.Allocate()
		assert.True(t, a.IsLive(h), "capacity %d", n)
		assert.Equal(t, 0, h.Index(), "capacity %d", n)
		assert.Equal(t, uint32(0), h.Generation(), "capacity %d", n)
	}
}

func TestAllocatorDistinctHandles(t *testing.T) {
	a := NewAllocator(2)
	seen := make(map[int]bool)
	for range 100 {
		h := a.Allocate()
		assert.False(t, seen[h.Index()], "slot %d handed out twice", h.Index())
		seen[h.Index()] = true
	}
	assert.Equal(t, 100, a.Len())
}

func TestAllocatorDeallocate(t *testing.T) {
	t.Run("double free", func(t *testing.T) {
		a := NewAllocator(4)
		h := a.Allocate()
		other := a.Allocate()
		require.True(t, a.Deallocate(h))
		freeBefore := a.FreeCapacity()

		assert.False(t, a.Deallocate(h))
		assert.Equal(t, freeBefore, a.FreeCapacity())
		assert.True(t, a.IsLive(other))
		assert.False(t, a.IsLive(h))
	})

	t.Run("never allocated", func(t *testing.T) {
		a := NewAllocator(4)
		assert.False(t, a.Deallocate(NewGenerationalIndex(2, 0)))
		assert.False(t, a.Deallocate(NewGenerationalIndex(400, 0)))
		assert.Equal(t, 4, a.FreeCapacity())
	})

	t.Run("stale handle after slot reuse", func(t *testing.T) {
		a := NewAllocator(1)
		old := a.Allocate()
		require.True(t, a.Deallocate(old))
		reused := a.Allocate()
		require.Equal(t, old.Index(), reused.Index())

		assert.False(t, a.Deallocate(old))
		assert.True(t, a.IsLive(reused))
		assert.False(t, a.IsLive(old))
		assert.Equal(t, 0, a.FreeCapacity())
	})
}

func TestAllocatorGenerationBump(t *testing.T) {
	a := NewAllocator(1)
	h0 := a.Allocate()
	assert.Equal(t, NewGenerationalIndex(0, 0), h0)
	require.True(t, a.Deallocate(h0))
	assert.False(t, a.IsLive(h0))

	h1 := a.Allocate()
	assert.Equal(t, NewGenerationalIndex(0, 1), h1)
	assert.Equal(t, h0.Generation()+1, h1.Generation())
	assert.False(t, a.IsLive(h0))
	assert.True(t, a.IsLive(h1))
	assert.Equal(t, 1, a.Capacity())
}

func TestAllocatorGrowth(t *testing.T) {
	t.Run("empty allocator grows to 16", func(t *testing.T) {
		a := NewAllocator(0)
		a.Allocate()
		assert.Equal(t, 16, a.Capacity())
		assert.Equal(t, 15, a.FreeCapacity())
	})

	t.Run("doubles when full", func(t *testing.T) {
		a := NewAllocator(16)
		for range 16 {
			a.Allocate()
		}
		require.Equal(t, 0, a.FreeCapacity())
		h := a.Allocate()
		assert.Equal(t, 16, h.Index())
		assert.Equal(t, 32, a.Capacity())
	})

	t.Run("small allocator grows to at least 16", func(t *testing.T) {
		a := NewAllocator(1)
		a.Allocate()
		a.Allocate()
		assert.Equal(t, 16, a.Capacity())
	})
}

func TestAllocatorReserve(t *testing.T) {
	a := NewAllocator(4)
	a.Reserve(2)
	assert.Equal(t, 4, a.Capacity())

	a.Reserve(5)
	assert.Equal(t, 16, a.Capacity())

	a.Reserve(40)
	assert.Equal(t, 40, a.Capacity())
	assert.Equal(t, 40, a.FreeCapacity())

	for _, k := range []int{0, 1, 16, 39, 40} {
		a.Reserve(k)
		assert.Equal(t, 40, a.Capacity())
	}
}

func TestAllocatorIterLive(t *testing.T) {
	a := NewAllocator(8)
	hs := make([]GenerationalIndex, 8)
	for i := range hs {
		hs[i] = a.Allocate()
	}
	a.Deallocate(hs[1])
	a.Deallocate(hs[4])
	a.Deallocate(hs[6])

	want := []GenerationalIndex{hs[0], hs[2], hs[3], hs[5], hs[7]}
	assert.Equal(t, want, slices.Collect(a.IterLive()))

	// Each call reflects the current state.
	a.Deallocate(hs[0])
	assert.Equal(t, want[1:], slices.Collect(a.IterLive()))

	// Early exit.
	var first []GenerationalIndex
	for h := range a.IterLive() {
		first = append(first, h)
		break
	}
	assert.Equal(t, []GenerationalIndex{hs[2]}, first)
}

func TestAllocatorFreeListOrder(t *testing.T) {
	a := NewAllocator(4)
	hs := []GenerationalIndex{a.Allocate(), a.Allocate(), a.Allocate(), a.Allocate()}
	a.Deallocate(hs[2])
	a.Deallocate(hs[0])

	// Freed slots are reused in the order they were freed.
	assert.Equal(t, 2, a.Allocate().Index())
	assert.Equal(t, 0, a.Allocate().Index())
}

func TestAllocatorClear(t *testing.T) {
	a := NewAllocator(4)
	h0 := a.Allocate()
	h1 := a.Allocate()
	a.Clear()

	assert.False(t, a.IsLive(h0))
	assert.False(t, a.IsLive(h1))
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 4, a.FreeCapacity())

	h := a.Allocate()
	assert.Equal(t, NewGenerationalIndex(0, 1), h)
}

// TestAllocator_ModelBasedFuzz applies random allocate/deallocate sequences and
// checks the allocator against a set of handles that should be live.
func TestAllocator_ModelBasedFuzz(t *testing.T) {
	t.Parallel()
	prng := rand.New(rand.NewPCG(1, 2))

	a := NewAllocator(0)
	live := make(map[GenerationalIndex]struct{})
	var dead []GenerationalIndex

	for range 1 << 13 {
		switch op := prng.IntN(10); {
		case op < 5:
			h := a.Allocate()
			_, dup := live[h]
			require.False(t, dup, "allocate returned live handle %v", h)
			live[h] = struct{}{}
		case op < 8:
			for h := range live {
				require.True(t, a.Deallocate(h))
				delete(live, h)
				dead = append(dead, h)
				break
			}
		default:
			if len(dead) > 0 {
				h := dead[prng.IntN(len(dead))]
				require.False(t, a.Deallocate(h), "stale %v freed", h)
			}
		}

		require.Equal(t, len(live), a.Len())
		require.Equal(t, a.Capacity(), a.Len()+a.FreeCapacity())
	}

	count := 0
	for h := range a.IterLive() {
		_, ok := live[h]
		assert.True(t, ok, "unexpected live handle %v", h)
		count++
	}
	assert.Equal(t, len(live), count)
	for _, h := range dead {
		assert.False(t, a.IsLive(h))
	}

	// Free list and entries agree.
	onFreeList := make(map[uint32]bool)
	for _, slot := range a.free {
		assert.False(t, onFreeList[slot], "slot %d listed twice", slot)
		onFreeList[slot] = true
		assert.False(t, a.entries[slot].live)
	}
	for i, entry := range a.entries {
		assert.Equal(t, !entry.live, onFreeList[uint32(i)], "slot %d", i)
	}
}
