package mpbitset_test

import (
	"bytes"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"
)

// testCodec provides a unified approach to testing codec implementations.
func testCodec(
	t *testing.T,
	enc interface {
		EncodeBitset(io.Writer, *bitset.BitSet) error
	},
	dec interface {
		DecodeBitset(io.Reader, *bitset.BitSet) error
	},
) {
	t.Helper()

	// Arbitrary seed values,
	// but we want them to be the same across all codec implementations.
	rng := rand.New(rand.NewPCG(400, 500))

	var buf bytes.Buffer
	for range 500 {
		sz := 1 + rng.UintN((1<<14)-1)

		bs := bitset.New(sz)
		switch rng.IntN(3) {
		case 0:
			// Sparse.
			for range 1 + rng.IntN(8) {
				bs.Set(rng.UintN(sz))
			}
		case 1:
			// Dense.
			for i := range sz {
				if rng.IntN(4) != 0 {
					bs.Set(i)
				}
			}
		default:
			// Uniform.
			for i := range sz {
				if rng.IntN(2) == 0 {
					bs.Set(i)
				}
			}
		}

		buf.Reset()
		require.NoError(t, enc.EncodeBitset(&buf, bs))

		got := bitset.New(sz)
		require.NoError(t, dec.DecodeBitset(&buf, got))
		require.Zero(t, buf.Len(), "decoder must consume exactly the encoding")

		require.Truef(
			t,
			bs.Equal(got),
			"sent: %s\nrcvd: %s", bs, got,
		)
	}
}
