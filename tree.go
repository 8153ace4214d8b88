package multiproof

import (
	"fmt"

	"github.com/gordian-engine/multiproof/internal/mpindex"
	"github.com/gordian-engine/multiproof/mphash"
)

// Tree is a binary Merkle tree over a fixed set of leaf hashes.
// If a layer has an odd number of nodes,
// its last node is carried to the next layer without hashing.
//
// Create a Tree with [NewTree].
// A Tree is immutable after construction and safe for concurrent use.
type Tree struct {
	// Views into a single backing slice,
	// indexed by layer and then by position in the layer.
	layers [][][]byte

	shape mpindex.Shape

	h mphash.Hasher
}

// NewTree builds the full tree over the given leaf hashes.
// Every leaf hash must be exactly h.Size() bytes.
// The leaf hashes are copied, so the caller may reuse the slices.
//
// A single leaf yields a tree of depth zero whose root is that leaf.
func NewTree(leafHashes [][]byte, h mphash.Hasher) (*Tree, error) {
	if len(leafHashes) == 0 {
		return nil, fmt.Errorf("%w: no leaf hashes", ErrEmptyInput)
	}

	hashSize := h.Size()
	if hashSize <= 0 {
		panic(fmt.Errorf(
			"BUG: hash size must be positive (got %d)", hashSize,
		))
	}

	for i, leaf := range leafHashes {
		if len(leaf) != hashSize {
			return nil, fmt.Errorf(
				"%w: leaf %d has %d bytes, hasher produces %d",
				ErrLengthMismatch, i, len(leaf), hashSize,
			)
		}
	}

	shape := mpindex.NewShape(uint(len(leafHashes)))

	// We know the exact number of nodes and the size of every hash up front,
	// so we back the entire tree with a single slice.
	mem := make([]byte, int(shape.NNodes())*hashSize)

	layers := make([][][]byte, shape.Depth()+1)
	off := 0
	for l := range layers {
		layer := make([][]byte, shape.LayerSize(uint(l)))
		for i := range layer {
			layer[i] = mem[off : off+hashSize : off+hashSize]
			off += hashSize
		}
		layers[l] = layer
	}

	for i, leaf := range leafHashes {
		copy(layers[0][i], leaf)
	}

	for l := 1; l < len(layers); l++ {
		children := layers[l-1]
		for j, dst := range layers[l] {
			left := children[2*j]
			if 2*j+1 == len(children) {
				// Unpaired last node: carried up unchanged.
				copy(dst, left)
				continue
			}

			out := h.Node(left, children[2*j+1], dst[:0])
			if len(out) != hashSize {
				panic(fmt.Errorf(
					"BUG: hasher produced %d bytes, expected %d",
					len(out), hashSize,
				))
			}
			// No-op when the hasher appended in place.
			copy(dst, out)
		}
	}

	return &Tree{
		layers: layers,
		shape:  shape,
		h:      h,
	}, nil
}

// Root returns the root hash.
// The returned slice references the tree's memory and must not be modified.
func (t *Tree) Root() []byte {
	return t.layers[len(t.layers)-1][0]
}

// Depth returns the number of layers above the leaf layer.
// It is zero for a single-leaf tree.
func (t *Tree) Depth() int {
	return int(t.shape.Depth())
}

// LeafCount returns the number of leaves in the tree.
func (t *Tree) LeafCount() int {
	return len(t.layers[0])
}

// Leaf returns the leaf hash at index i.
// The returned slice references the tree's memory and must not be modified.
func (t *Tree) Leaf(i int) []byte {
	return t.layers[0][i]
}

// Layers returns every layer of the tree, from the leaves up to the root.
// The returned values reference the tree's memory and must not be modified.
func (t *Tree) Layers() [][][]byte {
	return t.layers
}

// Hasher returns the hasher the tree was built with.
func (t *Tree) Hasher() mphash.Hasher {
	return t.h
}

// Proof returns the multiproof for the given leaf indices.
// The indices may be given in any order but must be distinct.
//
// The proof hashes are ordered layer by layer from the leaves upward,
// and by ascending index within each layer.
// They are copied out of the tree, so the Proof does not retain the Tree.
func (t *Tree) Proof(leafIndices []int) (Proof, error) {
	leaves, err := sortedLeaves(leafIndices, nil, t.LeafCount())
	if err != nil {
		return Proof{}, err
	}

	proofIdxs := t.shape.ProofIndices(nodeIndices(leaves))

	var n int
	for _, idxs := range proofIdxs {
		n += len(idxs)
	}

	hashSize := t.h.Size()
	mem := make([]byte, n*hashSize)
	hashes := make([][]byte, 0, n)

	off := 0
	for l, idxs := range proofIdxs {
		layer := t.layers[l]
		for _, i := range idxs {
			dst := mem[off : off+hashSize : off+hashSize]
			copy(dst, layer[i])
			hashes = append(hashes, dst)
			off += hashSize
		}
	}

	return Proof{hashes: hashes, h: t.h}, nil
}
