package mptest

import (
	"fmt"
	"iter"
)

// Subsets yields every non-empty subset of {0, ..., n-1},
// each in ascending order, by iterating a bitmask over [1, 2^n).
// The yielded slice is reused between iterations.
//
// n is limited to 24 to keep exhaustive tests tractable.
func Subsets(n uint) iter.Seq[[]uint] {
	if n > 24 {
		panic(fmt.Errorf("BUG: refusing to enumerate 2^%d subsets", n))
	}

	return func(yield func([]uint) bool) {
		buf := make([]uint, 0, n)
		for mask := uint64(1); mask < (uint64(1) << n); mask++ {
			buf = buf[:0]
			for i := range n {
				if mask&(uint64(1)<<i) != 0 {
					buf = append(buf, i)
				}
			}
			if !yield(buf) {
				return
			}
		}
	}
}

// Ints converts a slice of uint indices to a new slice of int indices.
func Ints(in []uint) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
