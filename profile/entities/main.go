// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/edwinsyarief/gindex"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		alloc := gindex.NewAllocator(numEntities)
		c1 := gindex.NewIndexArrayWithCapacity[comp1](numEntities)
		c2 := gindex.NewIndexArrayWithCapacity[comp2](numEntities)
		handles := make([]gindex.GenerationalIndex, 0, numEntities)

		for range iters {
			handles = handles[:0]
			for range numEntities {
				h := alloc.Allocate()
				c1.Insert(h, comp1{V: 1})
				c2.Insert(h, comp2{V: 2, W: 3})
				handles = append(handles, h)
			}
			for h := range alloc.IterLive() {
				a, _ := c1.Get(h)
				b, _ := c2.Get(h)
				a.V += b.V
				a.W += b.W
			}
			for _, h := range handles {
				c1.Remove(h)
				c2.Remove(h)
				alloc.Deallocate(h)
			}
		}
	}
}
