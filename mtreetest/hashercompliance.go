// Package mtreetest provides reusable compliance tests
// for implementations of [mtree.Hasher].
package mtreetest

import (
	"testing"

	"github.com/gordian-engine/mtree"
	"github.com/stretchr/testify/require"
)

type HasherFactory func() (h mtree.Hasher, hashSize int)

func TestHasherCompliance(t *testing.T, f HasherFactory) {
	t.Run("leaf is deterministic", func(t *testing.T) {
		t.Parallel()

		h, sz := f()

		dst01 := make([]byte, sz)
		h.Leaf([]byte("deterministic_data"), dst01[:0])

		dst02 := make([]byte, sz)
		h.Leaf([]byte("deterministic_data"), dst02[:0])

		require.Equal(t, dst01, dst02)
	})

	t.Run("node is deterministic", func(t *testing.T) {
		t.Parallel()

		h, sz := f()

		left := make([]byte, sz)
		h.Leaf([]byte("left_data"), left[:0])
		right := make([]byte, sz)
		h.Leaf([]byte("right_data"), right[:0])

		dst01 := make([]byte, sz)
		h.Node(left, right, dst01[:0])

		dst02 := make([]byte, sz)
		h.Node(left, right, dst02[:0])

		require.Equal(t, dst01, dst02)
	})

	t.Run("node respects operand order", func(t *testing.T) {
		t.Parallel()

		h, sz := f()

		a := make([]byte, sz)
		h.Leaf([]byte("operand_a"), a[:0])
		b := make([]byte, sz)
		h.Leaf([]byte("operand_b"), b[:0])

		ab := make([]byte, sz)
		h.Node(a, b, ab[:0])

		ba := make([]byte, sz)
		h.Node(b, a, ba[:0])

		require.NotEqual(t, ab, ba)
	})

	t.Run("output fills the declared hash size", func(t *testing.T) {
		t.Parallel()

		h, sz := f()

		dst := make([]byte, sz)
		h.Leaf([]byte("sized_data"), dst[:0])

		// The hasher must append into dst's backing array
		// rather than allocating a new slice.
		require.NotEqual(t, make([]byte, sz), dst)
	})
}
