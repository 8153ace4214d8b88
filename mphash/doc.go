// Package mphash defines the [Hasher] interface used to build
// and verify multiproof Merkle trees.
//
// Subpackages provide concrete hashers:
// mpsha256 for SHA256 and mpblake3 for BLAKE3.
// The mphashtest subpackage contains a compliance suite
// for custom Hasher implementations.
package mphash
