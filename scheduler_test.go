package gindex_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/gindex"
)

func TestRunSystems(t *testing.T) {
	w := setupWorld(t)
	for i, e := range w.SpawnN(100) {
		require.NoError(t, gindex.Set(w, e, Transform{X: float32(i)}))
		require.NoError(t, gindex.Set(w, e, Mesh{Name: "m"}))
	}

	var meshes atomic.Int64
	move := gindex.System{
		Name: "move",
		Fn: func(_ context.Context, w *gindex.World) error {
			gindex.Each(w, func(_ gindex.GenerationalIndex, tr *Transform) bool {
				tr.Y++
				return true
			})
			return nil
		},
	}
	count := gindex.System{
		Name: "count_meshes",
		Fn: func(_ context.Context, w *gindex.World) error {
			for range gindex.View[Mesh](w) {
				meshes.Add(1)
			}
			return nil
		},
	}
	bump := gindex.System{
		Name: "bump",
		Fn: func(_ context.Context, w *gindex.World) error {
			gindex.Each(w, func(_ gindex.GenerationalIndex, tr *Transform) bool {
				tr.Z++
				return true
			})
			return nil
		},
	}

	require.NoError(t, gindex.RunSystems(context.Background(), w, move, count, bump))
	assert.Equal(t, int64(100), meshes.Load())
	for _, tr := range gindex.View[Transform](w) {
		assert.Equal(t, float32(1), tr.Y)
		assert.Equal(t, float32(1), tr.Z)
	}
}

func TestRunSystemsError(t *testing.T) {
	w := setupWorld(t)
	boom := eris.New("boom")
	failing := gindex.System{
		Name: "failing",
		Fn: func(context.Context, *gindex.World) error {
			return boom
		},
	}
	waiting := gindex.System{
		Name: "waiting",
		Fn: func(ctx context.Context, _ *gindex.World) error {
			<-ctx.Done()
			return nil
		},
	}

	err := gindex.RunSystems(context.Background(), w, failing, waiting)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "system failing failed")
}

func TestRunSystemsNone(t *testing.T) {
	w := setupWorld(t)
	assert.NoError(t, gindex.RunSystems(context.Background(), w))
}
