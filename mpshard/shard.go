// Package mpshard erasure-codes a payload into data and parity shards
// and commits to every shard with a single Merkle tree,
// so that any subset of shards can be checked against the root
// with one multiproof before the payload is reconstructed.
package mpshard

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gordian-engine/multiproof"
	"github.com/gordian-engine/multiproof/mphash"
	"github.com/klauspost/reedsolomon"
)

var (
	// ErrProofRejected is returned by [Reconstruct]
	// when the supplied shards do not match the root.
	ErrProofRejected = errors.New("shard proof rejected")

	// ErrTooFewShards is returned by [Reconstruct]
	// when fewer shards than the data shard count are supplied.
	ErrTooFewShards = errors.New("too few shards to reconstruct")
)

// Config is the configuration for [Prepare] and [Reconstruct].
// Both sides must use identical values.
type Config struct {
	// Number of data and parity shards.
	// DataShards must be positive, ParityShards must not be negative,
	// and their sum may not exceed 256.
	DataShards, ParityShards int

	// How to hash shards into leaves, and leaves into the tree.
	Hasher mphash.Hasher
}

func (c Config) validate() {
	if c.DataShards <= 0 {
		panic(fmt.Errorf(
			"BUG: DataShards must be positive (got %d)", c.DataShards,
		))
	}
	if c.ParityShards < 0 {
		panic(fmt.Errorf(
			"BUG: ParityShards must be non-negative (got %d)", c.ParityShards,
		))
	}
	if c.Hasher == nil {
		panic(errors.New("BUG: Hasher must not be nil"))
	}
}

func (c Config) total() int {
	return c.DataShards + c.ParityShards
}

func (c Config) encoder(shardSize int) (reedsolomon.Encoder, error) {
	opts := []reedsolomon.Option{}
	if shardSize > 0 {
		opts = append(opts, reedsolomon.WithAutoGoroutines(shardSize))
	}
	enc, err := reedsolomon.New(c.DataShards, c.ParityShards, opts...)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to build Reed-Solomon encoder: %w", err,
		)
	}
	return enc, nil
}

// Prepared is the result of [Prepare]:
// the erasure-coded shards and the tree committing to them.
type Prepared struct {
	shards  [][]byte
	tree    *multiproof.Tree
	dataLen int
}

// Prepare splits data into cfg.DataShards data shards,
// computes cfg.ParityShards parity shards,
// and builds a Merkle tree whose leaves are the hashes of every shard,
// data shards first.
func Prepare(data []byte, cfg Config) (*Prepared, error) {
	cfg.validate()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data to shard", multiproof.ErrEmptyInput)
	}

	shardSize := (len(data) + cfg.DataShards - 1) / cfg.DataShards
	enc, err := cfg.encoder(shardSize)
	if err != nil {
		return nil, err
	}

	// Split may use data's spare capacity,
	// so give it a copy that we own.
	shards, err := enc.Split(bytes.Clone(data))
	if err != nil {
		return nil, fmt.Errorf(
			"failed to split data for sharding: %w", err,
		)
	}

	if err := enc.Encode(shards); err != nil {
		return nil, fmt.Errorf(
			"failed to erasure-code data: %w", err,
		)
	}

	// Now that the data is erasure-coded,
	// we can build the Merkle tree.
	leaves := leafHashes(cfg.Hasher, shards)
	tree, err := multiproof.NewTree(leaves, cfg.Hasher)
	if err != nil {
		return nil, fmt.Errorf("failed to build shard tree: %w", err)
	}

	return &Prepared{
		shards:  shards,
		tree:    tree,
		dataLen: len(data),
	}, nil
}

// Root returns the Merkle root over all shards.
func (p *Prepared) Root() []byte {
	return p.tree.Root()
}

// Tree returns the Merkle tree over all shards.
func (p *Prepared) Tree() *multiproof.Tree {
	return p.tree
}

// Shards returns every shard, data shards first.
// The returned slices must not be modified.
func (p *Prepared) Shards() [][]byte {
	return p.shards
}

// DataLen returns the length of the original payload,
// which [Reconstruct] needs to trim shard padding.
func (p *Prepared) DataLen() int {
	return p.dataLen
}

// Prove returns a single multiproof covering the shards at the given indices.
func (p *Prepared) Prove(indices []int) (multiproof.Proof, error) {
	return p.tree.Proof(indices)
}

// Reconstruct verifies the supplied shards against root with proof,
// and then reconstructs the original payload of length dataLen.
//
// indices and shards are parallel slices.
// At least cfg.DataShards shards must be supplied.
func Reconstruct(
	root []byte,
	proof multiproof.Proof,
	indices []int,
	shards [][]byte,
	dataLen int,
	cfg Config,
) ([]byte, error) {
	cfg.validate()

	if len(indices) != len(shards) {
		return nil, fmt.Errorf(
			"%w: %d indices but %d shards",
			multiproof.ErrLengthMismatch, len(indices), len(shards),
		)
	}
	if len(shards) < cfg.DataShards {
		return nil, fmt.Errorf(
			"%w: have %d, need %d", ErrTooFewShards, len(shards), cfg.DataShards,
		)
	}

	ok, err := proof.Verify(root, indices, leafHashes(cfg.Hasher, shards), cfg.total())
	if err != nil {
		return nil, fmt.Errorf("failed to verify shard proof: %w", err)
	}
	if !ok {
		return nil, ErrProofRejected
	}

	shardSize := len(shards[0])
	for i, s := range shards {
		if len(s) != shardSize {
			return nil, fmt.Errorf(
				"%w: shard at index %d has %d bytes, expected %d",
				multiproof.ErrLengthMismatch, indices[i], len(s), shardSize,
			)
		}
	}
	if dataLen < 0 || dataLen > shardSize*cfg.DataShards {
		return nil, fmt.Errorf(
			"data length %d does not fit in %d shards of %d bytes",
			dataLen, cfg.DataShards, shardSize,
		)
	}

	enc, err := cfg.encoder(shardSize)
	if err != nil {
		return nil, err
	}

	// The proof verified, so the indices are distinct and in range.
	all := make([][]byte, cfg.total())
	for i, idx := range indices {
		all[idx] = bytes.Clone(shards[i])
	}

	if err := enc.ReconstructData(all); err != nil {
		return nil, fmt.Errorf("failed to reconstruct data shards: %w", err)
	}

	var out bytes.Buffer
	out.Grow(dataLen)
	if err := enc.Join(&out, all, dataLen); err != nil {
		return nil, fmt.Errorf("failed to join data shards: %w", err)
	}

	return out.Bytes(), nil
}

func leafHashes(h mphash.Hasher, shards [][]byte) [][]byte {
	sz := h.Size()
	mem := make([]byte, len(shards)*sz)
	out := make([][]byte, len(shards))
	for i, s := range shards {
		dst := mem[i*sz : i*sz : (i+1)*sz]
		out[i] = h.Leaf(s, dst)
	}
	return out
}
