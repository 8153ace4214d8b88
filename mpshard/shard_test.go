package mpshard_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gordian-engine/multiproof"
	"github.com/gordian-engine/multiproof/internal/mptest"
	"github.com/gordian-engine/multiproof/mphash/mpblake3"
	"github.com/gordian-engine/multiproof/mphash/mpsha256"
	"github.com/gordian-engine/multiproof/mpshard"
	"github.com/stretchr/testify/require"
)

func TestPrepare_shape(t *testing.T) {
	t.Parallel()

	cfg := mpshard.Config{
		DataShards:   4,
		ParityShards: 2,
		Hasher:       mpsha256.Hasher{},
	}

	data := mptest.RandomDataForTest(t, 1000)
	p, err := mpshard.Prepare(data, cfg)
	require.NoError(t, err)

	require.Len(t, p.Shards(), 6)
	require.Equal(t, 1000, p.DataLen())
	require.Equal(t, 6, p.Tree().LeafCount())

	var h mpsha256.Hasher
	for i, s := range p.Shards() {
		require.Len(t, s, 250)
		require.Equal(t, h.Leaf(s, nil), p.Tree().Leaf(i))
	}

	// The data shards are the original payload, in order.
	require.Equal(t, data, bytes.Join(p.Shards()[:4], nil))

	// Input is not aliased.
	data[0] ^= 0xFF
	require.NotEqual(t, data[0], p.Shards()[0][0])
}

func TestReconstruct(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		nData, nParity int
		dataLen        int
	}{
		{nData: 2, nParity: 1, dataLen: 10},
		{nData: 4, nParity: 2, dataLen: 1000},
		{nData: 5, nParity: 3, dataLen: 4097},
		{nData: 10, nParity: 6, dataLen: 16 * 1024},
	} {
		name := fmt.Sprintf("%d+%d shards, %d bytes", tc.nData, tc.nParity, tc.dataLen)
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := mpshard.Config{
				DataShards:   tc.nData,
				ParityShards: tc.nParity,
				Hasher:       mpblake3.Hasher{},
			}

			data := mptest.RandomDataForTest(t, tc.dataLen)
			p, err := mpshard.Prepare(data, cfg)
			require.NoError(t, err)

			// Any nData shards are sufficient.
			rng := mptest.RandForTest(t)
			for range 5 {
				idxs := rng.Perm(tc.nData + tc.nParity)[:tc.nData]
				shards := make([][]byte, len(idxs))
				for i, idx := range idxs {
					shards[i] = p.Shards()[idx]
				}

				proof, err := p.Prove(idxs)
				require.NoError(t, err)

				got, err := mpshard.Reconstruct(
					p.Root(), proof, idxs, shards, p.DataLen(), cfg,
				)
				require.NoError(t, err)
				require.Equal(t, data, got)
			}
		})
	}
}

func TestReconstruct_rejectsBadShard(t *testing.T) {
	t.Parallel()

	cfg := mpshard.Config{
		DataShards:   3,
		ParityShards: 2,
		Hasher:       mpsha256.Hasher{},
	}

	data := mptest.RandomDataForTest(t, 300)
	p, err := mpshard.Prepare(data, cfg)
	require.NoError(t, err)

	idxs := []int{0, 2, 4}
	proof, err := p.Prove(idxs)
	require.NoError(t, err)

	shards := [][]byte{
		bytes.Clone(p.Shards()[0]),
		bytes.Clone(p.Shards()[2]),
		bytes.Clone(p.Shards()[4]),
	}
	shards[1][7] ^= 0x01

	_, err = mpshard.Reconstruct(p.Root(), proof, idxs, shards, p.DataLen(), cfg)
	require.ErrorIs(t, err, mpshard.ErrProofRejected)
}

func TestReconstruct_errors(t *testing.T) {
	t.Parallel()

	cfg := mpshard.Config{
		DataShards:   3,
		ParityShards: 1,
		Hasher:       mpsha256.Hasher{},
	}

	p, err := mpshard.Prepare(mptest.RandomDataForTest(t, 90), cfg)
	require.NoError(t, err)

	t.Run("too few shards", func(t *testing.T) {
		t.Parallel()

		idxs := []int{0, 3}
		proof, err := p.Prove(idxs)
		require.NoError(t, err)

		_, err = mpshard.Reconstruct(
			p.Root(), proof, idxs,
			[][]byte{p.Shards()[0], p.Shards()[3]},
			p.DataLen(), cfg,
		)
		require.ErrorIs(t, err, mpshard.ErrTooFewShards)
	})

	t.Run("mismatched slices", func(t *testing.T) {
		t.Parallel()

		idxs := []int{0, 1, 2}
		proof, err := p.Prove(idxs)
		require.NoError(t, err)

		_, err = mpshard.Reconstruct(
			p.Root(), proof, idxs, p.Shards()[:2], p.DataLen(), cfg,
		)
		require.ErrorIs(t, err, multiproof.ErrLengthMismatch)
	})

	t.Run("wrong proof", func(t *testing.T) {
		t.Parallel()

		// Proof for a different subset.
		proof, err := p.Prove([]int{0, 1, 3})
		require.NoError(t, err)

		idxs := []int{0, 1, 2}
		_, err = mpshard.Reconstruct(
			p.Root(), proof, idxs, p.Shards()[:3], p.DataLen(), cfg,
		)
		require.Error(t, err)
	})
}

func TestPrepare_emptyData(t *testing.T) {
	t.Parallel()

	_, err := mpshard.Prepare(nil, mpshard.Config{
		DataShards:   2,
		ParityShards: 1,
		Hasher:       mpsha256.Hasher{},
	})
	require.ErrorIs(t, err, multiproof.ErrEmptyInput)
}

func TestPrepare_invalidConfigPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_, _ = mpshard.Prepare([]byte("x"), mpshard.Config{
			DataShards: 0, ParityShards: 1, Hasher: mpsha256.Hasher{},
		})
	})
	require.Panics(t, func() {
		_, _ = mpshard.Prepare([]byte("x"), mpshard.Config{
			DataShards: 2, ParityShards: 1,
		})
	})
}
