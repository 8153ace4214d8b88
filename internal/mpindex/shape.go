package mpindex

import (
	"fmt"
)

// Shape is the precomputed layout of a tree with a fixed leaf count.
// The zero value is not usable; create one with [NewShape].
//
// A Shape is immutable and safe for concurrent use.
type Shape struct {
	sizes []uint

	// Indexed by layer; true if the layer is below the root
	// and has an odd number of nodes.
	uneven []bool
}

// NewShape returns the Shape of a tree with nLeaves leaves.
func NewShape(nLeaves uint) Shape {
	if nLeaves == 0 {
		panic(fmt.Errorf("BUG: nLeaves must be positive"))
	}

	s := Shape{
		sizes: LayerSizes(nLeaves),
	}
	s.uneven = make([]bool, len(s.sizes))
	for _, u := range UnevenLayers(nLeaves) {
		s.uneven[u.Layer] = true
	}
	return s
}

// NLeaves returns the number of leaves in the tree.
func (s Shape) NLeaves() uint {
	return s.sizes[0]
}

// Depth returns the number of layers above the leaves.
func (s Shape) Depth() uint {
	return uint(len(s.sizes) - 1)
}

// LayerSize returns the number of nodes in the given layer.
func (s Shape) LayerSize(layer uint) uint {
	return s.sizes[layer]
}

// IsUneven reports whether the given layer has an unpaired last node.
func (s Shape) IsUneven(layer uint) bool {
	return s.uneven[layer]
}

// NNodes returns the total number of nodes across all layers,
// counting carried nodes once per layer they appear in.
func (s Shape) NNodes() uint {
	var n uint
	for _, sz := range s.sizes {
		n += sz
	}
	return n
}

// ProofIndices returns, for every layer below the root,
// the ascending node indices whose hashes a multiproof for leaves must carry.
//
// A node's sibling is needed unless the sibling is itself
// one of the nodes being proved on that layer,
// or unless the node is the unpaired last node of an uneven layer.
// The proved set on each following layer is the set of parents
// of the previous proved set.
//
// The leaves must be sorted ascending, distinct, and less than s.NLeaves().
// Memory use depends on len(leaves) and the depth, never on the leaf count.
func (s Shape) ProofIndices(leaves []uint) [][]uint {
	for k, i := range leaves {
		if i >= s.NLeaves() || (k > 0 && i <= leaves[k-1]) {
			panic(fmt.Errorf(
				"BUG: leaf indices must be ascending, distinct and below %d (got %v)",
				s.NLeaves(), leaves,
			))
		}
	}

	out := make([][]uint, s.Depth())
	cur := leaves
	for l := range s.Depth() {
		sz := s.sizes[l]
		lastUnpaired := s.uneven[l]

		var needed []uint
		for k, i := range cur {
			if lastUnpaired && i == sz-1 {
				continue
			}

			// cur is sorted, so a proved sibling is adjacent in cur.
			if IsLeft(i) && k+1 < len(cur) && cur[k+1] == i+1 {
				continue
			}
			if !IsLeft(i) && k > 0 && cur[k-1] == i-1 {
				continue
			}

			sib := Sibling(i)
			if sib >= sz {
				panic(fmt.Errorf(
					"BUG: sibling %d of index %d outside even layer %d of size %d",
					sib, i, l, sz,
				))
			}
			needed = append(needed, sib)
		}
		out[l] = needed

		cur = ParentsOf(cur)
	}

	return out
}

// ProofSize returns the total number of hashes in a multiproof
// for the given leaves.
func (s Shape) ProofSize(leaves []uint) uint {
	var n uint
	for _, idxs := range s.ProofIndices(leaves) {
		n += uint(len(idxs))
	}
	return n
}
