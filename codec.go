package multiproof

import (
	"errors"
	"fmt"

	"github.com/gordian-engine/multiproof/mphash"
)

// Bytes returns the wire encoding of the proof:
// the concatenation of every proof hash in order,
// with no header, length prefix, or other metadata.
func (p Proof) Bytes() []byte {
	if len(p.hashes) == 0 {
		return []byte{}
	}
	return p.AppendBytes(make([]byte, 0, len(p.hashes)*len(p.hashes[0])))
}

// AppendBytes appends the wire encoding of the proof to dst
// and returns the extended slice.
func (p Proof) AppendBytes(dst []byte) []byte {
	for _, h := range p.hashes {
		dst = append(dst, h...)
	}
	return dst
}

// MarshalBinary implements [encoding.BinaryMarshaler].
func (p Proof) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

// ProofFromBytes decodes the wire encoding produced by [Proof.Bytes].
// The length of b must be a multiple of h.Size().
//
// The returned proof hashes are copied out of b.
func ProofFromBytes(b []byte, h mphash.Hasher) (Proof, error) {
	if h == nil {
		panic(errors.New("BUG: hasher must not be nil"))
	}
	sz := h.Size()
	if sz <= 0 {
		panic(fmt.Errorf(
			"BUG: hash size must be positive (got %d)", sz,
		))
	}
	if len(b)%sz != 0 {
		return Proof{}, fmt.Errorf(
			"%w: %d bytes is not a multiple of hash size %d",
			ErrMalformedProofBytes, len(b), sz,
		)
	}

	n := len(b) / sz
	mem := make([]byte, len(b))
	copy(mem, b)

	hashes := make([][]byte, n)
	for i := range hashes {
		start := i * sz
		end := start + sz
		hashes[i] = mem[start:end:end]
	}

	return Proof{hashes: hashes, h: h}, nil
}
