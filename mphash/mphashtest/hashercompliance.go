package mphashtest

import (
	"testing"

	"github.com/gordian-engine/multiproof/mphash"
	"github.com/stretchr/testify/require"
)

type HasherFactory func() mphash.Hasher

func TestHasherCompliance(t *testing.T, f HasherFactory) {
	t.Run("leaf is deterministic", func(t *testing.T) {
		t.Parallel()

		h := f()

		dst01 := h.Leaf([]byte("deterministic_data"), nil)
		dst02 := h.Leaf([]byte("deterministic_data"), nil)

		require.Equal(t, dst01, dst02)
		require.Len(t, dst01, h.Size())
	})

	t.Run("node is deterministic", func(t *testing.T) {
		t.Parallel()

		h := f()

		left := h.Leaf([]byte("left"), nil)
		right := h.Leaf([]byte("right"), nil)

		dst01 := h.Node(left, right, nil)
		dst02 := h.Node(left, right, nil)

		require.Equal(t, dst01, dst02)
		require.Len(t, dst01, h.Size())
	})

	t.Run("node respects order", func(t *testing.T) {
		t.Parallel()

		h := f()

		left := h.Leaf([]byte("left"), nil)
		right := h.Leaf([]byte("right"), nil)

		require.NotEqual(t, h.Node(left, right, nil), h.Node(right, left, nil))
	})

	t.Run("leaf respects data", func(t *testing.T) {
		t.Parallel()

		h := f()

		require.NotEqual(t, h.Leaf([]byte("data_1"), nil), h.Leaf([]byte("data_2"), nil))
	})

	t.Run("appends to dst", func(t *testing.T) {
		t.Parallel()

		h := f()
		sz := h.Size()

		prefix := []byte("prefix")
		dst := make([]byte, len(prefix), len(prefix)+sz)
		copy(dst, prefix)

		out := h.Leaf([]byte("hello"), dst)
		require.Len(t, out, len(prefix)+sz)
		require.Equal(t, prefix, out[:len(prefix)])
		require.Equal(t, h.Leaf([]byte("hello"), nil), out[len(prefix):])

		// With sufficient capacity, the output must land in dst's backing array.
		mem := make([]byte, sz)
		out = h.Node(mem, mem, mem[:0])
		require.Len(t, out, sz)
		require.Equal(t, &mem[0], &out[0])
	})
}
