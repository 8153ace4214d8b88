// Package mpbundle packages a multiproof together with
// the values a verifier needs alongside it:
// the tree's leaf count, the proved leaf indices, and their leaf hashes.
//
// The proof itself is encoded exactly as [multiproof.Proof.Bytes],
// so a bundle can always be split back into the plain proof bytes.
package mpbundle

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/multiproof"
	"github.com/gordian-engine/multiproof/internal/mpbitset"
	"github.com/gordian-engine/multiproof/mphash"
)

var (
	// ErrTruncated is returned when the input ends before a complete bundle.
	ErrTruncated = errors.New("truncated bundle")

	// ErrTooLarge is returned when a bundle declares more leaves
	// or proof hashes than the decoder accepts.
	ErrTooLarge = errors.New("bundle too large")
)

// MaxLeafCount bounds the leaf count accepted by [Decode],
// so that a corrupt header cannot force a huge allocation.
const MaxLeafCount = 1 << 24

// Bundle is a multiproof with its out-of-band verification inputs.
type Bundle struct {
	LeafCount int

	// Proved leaf indices, ascending.
	Indices []int

	// Leaf hashes, parallel to Indices.
	LeafHashes [][]byte

	Proof multiproof.Proof
}

// New returns a Bundle proving the given leaf indices of t.
// The indices are sorted in the returned bundle.
func New(t *multiproof.Tree, indices []int) (Bundle, error) {
	p, err := t.Proof(indices)
	if err != nil {
		return Bundle{}, err
	}

	// Proof already validated the indices,
	// so setting them in a bitset sorts them.
	bs := bitset.New(uint(t.LeafCount()))
	for _, idx := range indices {
		bs.Set(uint(idx))
	}

	b := Bundle{
		LeafCount:  t.LeafCount(),
		Indices:    make([]int, 0, len(indices)),
		LeafHashes: make([][]byte, 0, len(indices)),
		Proof:      p,
	}
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		b.Indices = append(b.Indices, int(i))
		b.LeafHashes = append(b.LeafHashes, bytes.Clone(t.Leaf(int(i))))
	}

	return b, nil
}

// Verify reports whether the bundle's proof reconstructs root.
func (b Bundle) Verify(root []byte) (bool, error) {
	return b.Proof.Verify(root, b.Indices, b.LeafHashes, b.LeafCount)
}

// WriteTo writes the binary encoding of b to w.
//
// The encoding is, with big-endian integers:
// the uint32 leaf count;
// the proved index set as an adaptive bitset of leaf count bits;
// the leaf hashes in ascending index order;
// the uint32 proof hash count;
// and the proof bytes.
func (b Bundle) WriteTo(w io.Writer) (int64, error) {
	if b.LeafCount <= 0 {
		return 0, fmt.Errorf("%w: leaf count %d", multiproof.ErrEmptyInput, b.LeafCount)
	}
	if uint64(b.LeafCount) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: leaf count %d", ErrTooLarge, b.LeafCount)
	}
	if len(b.Indices) != len(b.LeafHashes) {
		return 0, fmt.Errorf(
			"%w: %d indices but %d leaf hashes",
			multiproof.ErrLengthMismatch, len(b.Indices), len(b.LeafHashes),
		)
	}

	bs := bitset.New(uint(b.LeafCount))
	for i, idx := range b.Indices {
		if idx < 0 || idx >= b.LeafCount {
			return 0, fmt.Errorf(
				"%w: index %d with %d leaves",
				multiproof.ErrIndexOutOfRange, idx, b.LeafCount,
			)
		}
		if i > 0 && idx <= b.Indices[i-1] {
			return 0, fmt.Errorf(
				"bundle indices must be strictly ascending (%d after %d)",
				idx, b.Indices[i-1],
			)
		}
		bs.Set(uint(idx))
	}

	h := b.Proof.Hasher()
	if h == nil {
		return 0, fmt.Errorf("%w: bundle proof", multiproof.ErrUninitializedProof)
	}
	sz := h.Size()
	for i, lh := range b.LeafHashes {
		if len(lh) != sz {
			return 0, fmt.Errorf(
				"%w: leaf hash for index %d has %d bytes, hasher produces %d",
				multiproof.ErrLengthMismatch, b.Indices[i], len(lh), sz,
			)
		}
	}
	for i, ph := range b.Proof.Hashes() {
		if len(ph) != sz {
			return 0, fmt.Errorf(
				"%w: proof hash %d has %d bytes, hasher produces %d",
				multiproof.ErrLengthMismatch, i, len(ph), sz,
			)
		}
	}

	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], uint32(b.LeafCount))
	_, _ = bw.Write(u32[:])

	var enc mpbitset.AdaptiveEncoder
	if err := enc.EncodeBitset(bw, bs); err != nil {
		return cw.n, fmt.Errorf("failed to encode leaf indices: %w", err)
	}

	for _, h := range b.LeafHashes {
		_, _ = bw.Write(h)
	}

	binary.BigEndian.PutUint32(u32[:], uint32(b.Proof.Len()))
	_, _ = bw.Write(u32[:])
	for _, ph := range b.Proof.Hashes() {
		_, _ = bw.Write(ph)
	}

	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("failed to write bundle: %w", err)
	}

	return cw.n, nil
}

// MarshalBinary implements [encoding.BinaryMarshaler].
func (b Bundle) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a bundle written by [Bundle.WriteTo].
// The hasher must be the one the tree was built with,
// as it determines the size of every hash.
func Decode(r io.Reader, h mphash.Hasher) (Bundle, error) {
	var u32 [4]byte
	if err := readFull(r, u32[:], "leaf count"); err != nil {
		return Bundle{}, err
	}
	leafCount := binary.BigEndian.Uint32(u32[:])
	if leafCount == 0 {
		return Bundle{}, fmt.Errorf("%w: zero leaf count", multiproof.ErrEmptyInput)
	}
	if leafCount > MaxLeafCount {
		return Bundle{}, fmt.Errorf(
			"%w: leaf count %d exceeds %d", ErrTooLarge, leafCount, MaxLeafCount,
		)
	}

	bs := bitset.New(uint(leafCount))
	var dec mpbitset.AdaptiveDecoder
	if err := dec.DecodeBitset(r, bs); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Bundle{}, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		return Bundle{}, fmt.Errorf("failed to decode leaf indices: %w", err)
	}

	sz := h.Size()
	nLeaves := int(bs.Count())

	// The header alone can claim far more hashes than the input holds,
	// so nothing sized by nLeaves is allocated until its bytes have arrived.
	leafMem, err := readChunked(r, nLeaves*sz, "leaf hashes")
	if err != nil {
		return Bundle{}, err
	}

	b := Bundle{
		LeafCount:  int(leafCount),
		Indices:    make([]int, 0, nLeaves),
		LeafHashes: make([][]byte, 0, nLeaves),
	}
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		off := len(b.Indices) * sz
		b.Indices = append(b.Indices, int(i))
		b.LeafHashes = append(b.LeafHashes, leafMem[off:off+sz:off+sz])
	}

	if err := readFull(r, u32[:], "proof hash count"); err != nil {
		return Bundle{}, err
	}
	nProof := binary.BigEndian.Uint32(u32[:])

	// A multiproof never needs more than one hash per tree node.
	if nProof > 2*leafCount {
		return Bundle{}, fmt.Errorf(
			"%w: %d proof hashes for %d leaves", ErrTooLarge, nProof, leafCount,
		)
	}

	proofMem, err := readChunked(r, int(nProof)*sz, "proof hashes")
	if err != nil {
		return Bundle{}, err
	}

	p, err := multiproof.ProofFromBytes(proofMem, h)
	if err != nil {
		return Bundle{}, err
	}
	b.Proof = p

	return b, nil
}

// Unmarshal decodes a bundle from b,
// returning an error if b has trailing bytes.
func Unmarshal(b []byte, h mphash.Hasher) (Bundle, error) {
	r := bytes.NewReader(b)
	out, err := Decode(r, h)
	if err != nil {
		return Bundle{}, err
	}
	if r.Len() != 0 {
		return Bundle{}, fmt.Errorf("%d trailing bytes after bundle", r.Len())
	}
	return out, nil
}

func readFull(r io.Reader, dst []byte, what string) error {
	if _, err := io.ReadFull(r, dst); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: reading %s: %w", ErrTruncated, what, err)
		}
		return fmt.Errorf("failed to read %s: %w", what, err)
	}
	return nil
}

// readChunkSize bounds how far an allocation in [readChunked]
// can run ahead of the bytes actually read.
const readChunkSize = 64 * 1024

// readChunked reads exactly n bytes from r,
// growing the result as data arrives rather than allocating n bytes up front.
func readChunked(r io.Reader, n int, what string) ([]byte, error) {
	out := make([]byte, 0, min(n, readChunkSize))
	for len(out) < n {
		chunk := min(n-len(out), readChunkSize)
		out = slices.Grow(out, chunk)
		if err := readFull(r, out[len(out):len(out)+chunk], what); err != nil {
			return nil, err
		}
		out = out[:len(out)+chunk]
	}
	return out, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
