package multiproof

import (
	"cmp"
	"fmt"
	"slices"
)

// node is an index within a layer paired with the hash at that index.
type node struct {
	idx  uint
	hash []byte
}

// sortedLeaves validates the caller-supplied leaf indices
// against a tree of nLeaves leaves,
// and returns them paired with their hashes, sorted by index.
// hashes may be nil when only the indices matter.
//
// The work done depends only on len(leafIndices), never on nLeaves.
func sortedLeaves(leafIndices []int, hashes [][]byte, nLeaves int) ([]node, error) {
	if len(leafIndices) == 0 {
		return nil, fmt.Errorf("%w: no leaf indices", ErrEmptyInput)
	}

	out := make([]node, len(leafIndices))
	for i, idx := range leafIndices {
		if idx < 0 || idx >= nLeaves {
			return nil, fmt.Errorf(
				"%w: index %d with %d leaves",
				ErrIndexOutOfRange, idx, nLeaves,
			)
		}
		out[i].idx = uint(idx)
		if hashes != nil {
			out[i].hash = hashes[i]
		}
	}

	slices.SortFunc(out, func(a, b node) int {
		return cmp.Compare(a.idx, b.idx)
	})
	for i := 1; i < len(out); i++ {
		if out[i].idx == out[i-1].idx {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateIndex, out[i].idx)
		}
	}

	return out, nil
}

func nodeIndices(nodes []node) []uint {
	out := make([]uint, len(nodes))
	for i, n := range nodes {
		out[i] = n.idx
	}
	return out
}
