package multiproof

import "errors"

var (
	// ErrEmptyInput is returned when building a tree with no leaves,
	// or when requesting or verifying a proof of no leaves.
	ErrEmptyInput = errors.New("empty input")

	// ErrLengthMismatch is returned when parallel inputs differ in length,
	// such as leaf indices and leaf hashes,
	// or when a hash does not match the hasher's size.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrIndexOutOfRange is returned for a leaf index
	// that is negative or not less than the leaf count.
	ErrIndexOutOfRange = errors.New("leaf index out of range")

	// ErrDuplicateIndex is returned when the same leaf index
	// is given more than once.
	ErrDuplicateIndex = errors.New("duplicate leaf index")

	// ErrMalformedProofBytes is returned when decoding proof bytes
	// whose length is not a multiple of the hash size.
	ErrMalformedProofBytes = errors.New("malformed proof bytes")

	// ErrProofSize is returned when the number of hashes in a proof
	// differs from the number implied by the leaf count and proved indices.
	ErrProofSize = errors.New("proof size inconsistent with leaf count")

	// ErrUninitializedProof is returned when verifying
	// the zero value of [Proof], which has no hasher.
	ErrUninitializedProof = errors.New("uninitialized proof")
)
