package gindex

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationalIndex(t *testing.T) {
	t.Run("accessors", func(t *testing.T) {
		idx := NewGenerationalIndex(7, 3)
		assert.Equal(t, 7, idx.Index())
		assert.Equal(t, uint32(3), idx.Generation())
		assert.Equal(t, "7:3", idx.String())
	})

	t.Run("equality is structural", func(t *testing.T) {
		assert.Equal(t, NewGenerationalIndex(1, 2), NewGenerationalIndex(1, 2))
		assert.NotEqual(t, NewGenerationalIndex(1, 2), NewGenerationalIndex(1, 3))
		assert.NotEqual(t, NewGenerationalIndex(1, 2), NewGenerationalIndex(2, 2))
	})

	t.Run("usable as map key", func(t *testing.T) {
		m := map[GenerationalIndex]string{
			NewGenerationalIndex(0, 0): "a",
			NewGenerationalIndex(0, 1): "b",
		}
		assert.Len(t, m, 2)
		assert.Equal(t, "b", m[NewGenerationalIndex(0, 1)])
	})

	t.Run("compare orders by slot then generation", func(t *testing.T) {
		assert.Equal(t, -1, NewGenerationalIndex(0, 9).Compare(NewGenerationalIndex(1, 0)))
		assert.Equal(t, -1, NewGenerationalIndex(1, 0).Compare(NewGenerationalIndex(1, 1)))
		assert.Equal(t, 0, NewGenerationalIndex(4, 4).Compare(NewGenerationalIndex(4, 4)))
		assert.Equal(t, 1, NewGenerationalIndex(2, 0).Compare(NewGenerationalIndex(1, 5)))
	})

	t.Run("json", func(t *testing.T) {
		bz, err := json.Marshal(NewGenerationalIndex(12, 4))
		require.NoError(t, err)
		assert.JSONEq(t, `{"slot":12,"generation":4}`, string(bz))

		var got GenerationalIndex
		require.NoError(t, json.Unmarshal([]byte(`{"slot":5,"generation":2}`), &got))
		assert.Equal(t, NewGenerationalIndex(5, 2), got)

		require.Error(t, json.Unmarshal([]byte(`{"slot":"x"}`), &got))
	})
}
