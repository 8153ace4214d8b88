package mpbitset

import (
	"errors"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
)

const (
	rawEncoding    byte = 0
	snappyEncoding byte = 1
)

// ErrUnknownEncoding is returned by [*AdaptiveDecoder.DecodeBitset]
// for an unrecognized header byte.
var ErrUnknownEncoding = errors.New("unknown bitset encoding")

type AdaptiveEncoder struct {
	se SnappyEncoder
}

// EncodeBitset writes bs to w with a one-byte header,
// using the snappy encoding only when it is smaller than the raw words.
func (e *AdaptiveEncoder) EncodeBitset(w io.Writer, bs *bitset.BitSet) error {
	e.se.encode(bs, true)

	// The remote end knows the size of the bitset up front,
	// so raw bytes can be written directly.
	// But we have a four-byte size overhead for snappy encoding,
	// since the remote cannot know the encoded size.
	if len(e.se.wordBuf) <= len(e.se.encBuf) {
		// The wordBuf we allocated in the snappy encoder
		// can be dropped directly into a raw encoder,
		// since we used the "adaptive" encoding.
		re := RawEncoder{buf: e.se.wordBuf}
		return re.write(w)
	}

	return e.se.write(w)
}

type AdaptiveDecoder struct {
	sd SnappyDecoder
	rd RawDecoder
}

// DecodeBitset reads an adaptive encoding from r into bs.
// The length of bs must already match the encoded bitset.
func (d *AdaptiveDecoder) DecodeBitset(r io.Reader, bs *bitset.BitSet) error {
	var h [1]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return fmt.Errorf("failed to read type header for adaptive bitset: %w", err)
	}

	switch h[0] {
	case rawEncoding:
		// Always borrow the snappy decoder's word buffer.
		d.rd.buf = d.sd.wordBuf
		err := d.rd.DecodeBitset(r, bs)
		d.sd.wordBuf = d.rd.buf
		return err
	case snappyEncoding:
		return d.sd.DecodeBitset(r, bs)
	default:
		return fmt.Errorf("%w: header byte 0x%x", ErrUnknownEncoding, h[0])
	}
}
