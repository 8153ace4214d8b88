package multiproof

import (
	"bytes"
	"fmt"

	"github.com/gordian-engine/multiproof/internal/mpindex"
	"github.com/gordian-engine/multiproof/mphash"
)

// Proof is a multiproof: the ordered sibling hashes needed,
// together with the proved leaf hashes, to recompute a tree root.
//
// A Proof carries no indices.
// The proved leaf indices, leaf hashes, and total leaf count
// must be supplied again at verification time.
//
// The zero value has no hasher and cannot be verified;
// create a Proof with [Tree.Proof], [NewProof], or [ProofFromBytes].
type Proof struct {
	hashes [][]byte

	h mphash.Hasher
}

// NewProof returns a Proof over the given hashes,
// which are retained and must not be modified afterward.
// This is typically used on the verifying side,
// when the proof hashes were received from elsewhere.
func NewProof(hashes [][]byte, h mphash.Hasher) Proof {
	if h == nil {
		panic(fmt.Errorf("BUG: hasher must not be nil"))
	}
	return Proof{hashes: hashes, h: h}
}

// Hashes returns the proof hashes in order.
// The returned slices must not be modified.
func (p Proof) Hashes() [][]byte {
	return p.hashes
}

// Len returns the number of hashes in the proof.
func (p Proof) Len() int {
	return len(p.hashes)
}

// Hasher returns the hasher the proof verifies with,
// or nil for the zero value.
func (p Proof) Hasher() mphash.Hasher {
	return p.h
}

// CalculateRoot reconstructs the tree root from the proof
// and the proved leaves.
//
// leafIndices and leafHashes are parallel slices;
// leafCount is the total number of leaves in the tree that produced the proof.
//
// An error is returned for malformed input:
// mismatched slice lengths, empty input, out of range or duplicate indices,
// or a proof whose hash count does not match
// what the leaf count and indices require.
// Any leaf count is accepted; memory use depends only on
// the number of proved leaves and the tree depth.
func (p Proof) CalculateRoot(
	leafIndices []int, leafHashes [][]byte, leafCount int,
) ([]byte, error) {
	if p.h == nil {
		return nil, ErrUninitializedProof
	}
	if len(leafIndices) != len(leafHashes) {
		return nil, fmt.Errorf(
			"%w: %d leaf indices but %d leaf hashes",
			ErrLengthMismatch, len(leafIndices), len(leafHashes),
		)
	}
	if leafCount <= 0 {
		return nil, fmt.Errorf("%w: leaf count %d", ErrEmptyInput, leafCount)
	}

	cur, err := sortedLeaves(leafIndices, leafHashes, leafCount)
	if err != nil {
		return nil, err
	}

	hashSize := p.h.Size()
	for _, n := range cur {
		if len(n.hash) != hashSize {
			return nil, fmt.Errorf(
				"%w: leaf hash for index %d has %d bytes, hasher produces %d",
				ErrLengthMismatch, n.idx, len(n.hash), hashSize,
			)
		}
	}

	shape := mpindex.NewShape(uint(leafCount))
	proofIdxs := shape.ProofIndices(nodeIndices(cur))

	var want int
	for _, idxs := range proofIdxs {
		want += len(idxs)
	}
	if want != len(p.hashes) {
		return nil, fmt.Errorf(
			"%w: have %d proof hashes, %d leaves at the given indices require %d",
			ErrProofSize, len(p.hashes), leafCount, want,
		)
	}
	for i, ph := range p.hashes {
		if len(ph) != hashSize {
			return nil, fmt.Errorf(
				"%w: proof hash %d has %d bytes, hasher produces %d",
				ErrLengthMismatch, i, len(ph), hashSize,
			)
		}
	}

	remaining := p.hashes
	var proofNodes, merged []node
	for l, idxs := range proofIdxs {
		proofNodes = proofNodes[:0]
		for _, i := range idxs {
			proofNodes = append(proofNodes, node{idx: i, hash: remaining[0]})
			remaining = remaining[1:]
		}

		merged = mergeNodes(merged[:0], cur, proofNodes)
		cur = p.combineLayer(merged, shape, uint(l))
	}

	if len(cur) != 1 {
		panic(fmt.Errorf(
			"BUG: reconstruction ended with %d nodes instead of 1", len(cur),
		))
	}

	return cur[0].hash, nil
}

// mergeNodes appends the union of a and b to dst, in ascending index order.
// Both inputs must be sorted by index and must not share any index.
func mergeNodes(dst, a, b []node) []node {
	for len(a) > 0 && len(b) > 0 {
		if a[0].idx < b[0].idx {
			dst = append(dst, a[0])
			a = a[1:]
		} else {
			dst = append(dst, b[0])
			b = b[1:]
		}
	}
	dst = append(dst, a...)
	return append(dst, b...)
}

// combineLayer pairs sibling nodes of the given layer
// and returns the resulting parent nodes, in ascending index order.
// This mirrors the pairing rule of [NewTree] exactly:
// a left node with its right sibling is hashed,
// and the unpaired last node of an uneven layer is carried unchanged.
func (p Proof) combineLayer(nodes []node, shape mpindex.Shape, layer uint) []node {
	lastIdx := shape.LayerSize(layer) - 1
	carry := shape.IsUneven(layer)

	parents := make([]node, 0, (len(nodes)+1)/2)
	for k := 0; k < len(nodes); {
		left := nodes[k]

		if mpindex.IsLeft(left.idx) &&
			k+1 < len(nodes) && nodes[k+1].idx == left.idx+1 {
			parents = append(parents, node{
				idx:  mpindex.Parent(left.idx),
				hash: p.h.Node(left.hash, nodes[k+1].hash, nil),
			})
			k += 2
			continue
		}

		if carry && left.idx == lastIdx {
			parents = append(parents, node{
				idx:  mpindex.Parent(left.idx),
				hash: left.hash,
			})
			k++
			continue
		}

		// The proof indices are derived from the same shape,
		// so every other node must have its sibling present.
		panic(fmt.Errorf(
			"BUG: node %d of layer %d has no sibling to pair with",
			left.idx, layer,
		))
	}

	return parents
}

// Verify reports whether the proof, applied to the given leaves,
// reconstructs root.
//
// A mismatched root, including a root of a different length,
// is reported as false with a nil error.
// Errors are reserved for malformed input, as described in [Proof.CalculateRoot].
func (p Proof) Verify(
	root []byte, leafIndices []int, leafHashes [][]byte, leafCount int,
) (bool, error) {
	got, err := p.CalculateRoot(leafIndices, leafHashes, leafCount)
	if err != nil {
		return false, err
	}

	return bytes.Equal(got, root), nil
}
