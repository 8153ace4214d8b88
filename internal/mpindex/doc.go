// Package mpindex contains the index arithmetic for
// binary Merkle trees whose layers may have an odd number of nodes.
//
// Every layer of a tree is addressed by position-in-layer indices,
// starting at zero on the left.
// When a layer has an odd number of nodes, its last node has no sibling
// and is carried to the parent layer unhashed.
// The [Shape] type precomputes the layer sizes for a given leaf count,
// so that proof generation and proof verification
// derive exactly the same per-layer proof indices.
package mpindex
