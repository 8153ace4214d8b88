// Package multiproof builds binary Merkle trees over an ordered sequence
// of leaf hashes, and produces and verifies compact multiproofs.
//
// A multiproof proves an arbitrary, possibly non-contiguous,
// set of leaves at once, using the minimal set of sibling hashes
// required to recompute the tree root.
//
// The leaf count need not be a power of two.
// When a layer of the tree has an odd number of nodes,
// its last node is carried to the parent layer unhashed:
//
//	      0
//	   0     1
//	 0  1  2
//	01 23 45
//
// In the six-leaf tree above, node 2 of the second layer
// is the hash of leaves 4 and 5,
// and it moves to the third layer unchanged.
//
// A [Proof] carries no indices.
// The verifier must be given the proved leaf indices,
// their hashes, and the total leaf count of the tree, out of band.
// See the mpbundle package for an envelope carrying all of those together.
package multiproof
