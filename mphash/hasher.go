package mphash

import "fmt"

// Hasher is the user-defined interface for hashing leaves and nodes.
// Leaf hashes raw input data into a leaf hash,
// and Node hashes the concatenation of two child hashes.
//
// To be allocation-efficient, the Hasher implementation
// must append its hash output to dst and return the extended slice,
// instead of creating a new byte slice.
// Hasher must not retain references to the dst slice.
//
// Every hash produced must be exactly Size bytes,
// and Hasher methods must be safe to call concurrently.
type Hasher interface {
	Leaf(data, dst []byte) []byte
	Node(left, right, dst []byte) []byte
	Size() int
}

// FromFunc adapts a plain byte-to-byte hash function into a [Hasher].
// Leaf hashes the data directly,
// and Node hashes the concatenation of left and right.
//
// The size argument is the digest size of f, in bytes.
func FromFunc(f func([]byte) []byte, size int) Hasher {
	if f == nil {
		panic(fmt.Errorf("BUG: hash function must not be nil"))
	}
	if size <= 0 {
		panic(fmt.Errorf(
			"BUG: hash size must be positive (got %d)", size,
		))
	}
	return funcHasher{f: f, size: size}
}

type funcHasher struct {
	f    func([]byte) []byte
	size int
}

func (h funcHasher) Leaf(data, dst []byte) []byte {
	return append(dst, h.f(data)...)
}

func (h funcHasher) Node(left, right, dst []byte) []byte {
	buf := make([]byte, 0, len(left)+len(right))
	buf = append(buf, left...)
	buf = append(buf, right...)
	return append(dst, h.f(buf)...)
}

func (h funcHasher) Size() int {
	return h.size
}
