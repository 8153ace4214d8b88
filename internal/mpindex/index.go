package mpindex

import (
	"math/bits"
)

// IsLeft reports whether i is the left child of its pair.
func IsLeft(i uint) bool {
	return i%2 == 0
}

// Sibling returns the index paired with i.
// At the end of an uneven layer, the result is past the end of the layer,
// so callers must check that the sibling exists.
func Sibling(i uint) uint {
	if IsLeft(i) {
		return i + 1
	}
	return i - 1
}

// Parent returns the index of i's parent in the next layer.
func Parent(i uint) uint {
	if IsLeft(i) {
		return i / 2
	}
	return (i - 1) / 2
}

// ParentsOf returns the parent of every index in idxs,
// which must be sorted ascending and distinct.
// Two siblings in idxs collapse to a single parent index,
// so the result is also sorted and distinct.
func ParentsOf(idxs []uint) []uint {
	out := make([]uint, 0, len(idxs))
	for _, i := range idxs {
		p := Parent(i)
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Depth returns the number of layers above the leaf layer
// in a tree of nLeaves leaves, which is ceil(log2(nLeaves)).
// A single-leaf tree has depth zero.
func Depth(nLeaves uint) uint {
	if nLeaves <= 1 {
		return 0
	}
	return uint(bits.Len(nLeaves - 1))
}

// LayerSizes returns the node count of every layer,
// from the leaf layer up to and including the single-node root layer.
func LayerSizes(nLeaves uint) []uint {
	if nLeaves == 0 {
		return nil
	}

	sizes := make([]uint, 0, Depth(nLeaves)+1)
	for sz := nLeaves; ; sz = (sz + 1) / 2 {
		sizes = append(sizes, sz)
		if sz == 1 {
			return sizes
		}
	}
}

// UnevenLayer identifies a layer with an odd number of nodes.
type UnevenLayer struct {
	Layer uint
	Size  uint
}

// UnevenLayers returns every layer below the root of a tree of nLeaves leaves
// that has an odd number of nodes, in ascending layer order.
func UnevenLayers(nLeaves uint) []UnevenLayer {
	var out []UnevenLayer
	sizes := LayerSizes(nLeaves)
	for l, sz := range sizes[:max(len(sizes)-1, 0)] {
		if sz%2 == 1 {
			out = append(out, UnevenLayer{Layer: uint(l), Size: sz})
		}
	}
	return out
}
