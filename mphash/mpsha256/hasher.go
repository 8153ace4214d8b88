package mpsha256

import (
	"crypto/sha256"
)

const HashSize = sha256.Size

// Hasher is an [mphash.Hasher] backed by SHA256 hashes.
//
// Leaves are hashed as SHA256(data)
// and nodes as SHA256(left || right), with no domain prefixes.
type Hasher struct{}

func (Hasher) Leaf(data, dst []byte) []byte {
	h := sha256.New()
	_, _ = h.Write(data)
	return h.Sum(dst)
}

func (Hasher) Node(left, right, dst []byte) []byte {
	h := sha256.New()
	_, _ = h.Write(left)
	_, _ = h.Write(right)
	return h.Sum(dst)
}

func (Hasher) Size() int {
	return HashSize
}
