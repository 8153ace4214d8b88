package mpblake3

import (
	"github.com/zeebo/blake3"
)

const HashSize = 32

// Hasher is an [mphash.Hasher] backed by 32-byte BLAKE3 hashes.
type Hasher struct{}

func (Hasher) Leaf(data, dst []byte) []byte {
	h := blake3.New()
	_, _ = h.Write(data)
	return h.Sum(dst)
}

func (Hasher) Node(left, right, dst []byte) []byte {
	h := blake3.New()
	_, _ = h.Write(left)
	_, _ = h.Write(right)
	return h.Sum(dst)
}

func (Hasher) Size() int {
	return HashSize
}
