// Package mpbitset encodes and decodes bitsets of a length
// known to both sides, such as the set of proved leaf indices
// of a tree with a known leaf count.
//
// The raw encoding is the little-endian backing words of the bitset.
// The snappy encoding compresses those words.
// The adaptive encoding prefixes a one-byte header
// and picks whichever of the two is smaller.
package mpbitset
