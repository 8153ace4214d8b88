package mpbitset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
)

// ErrBitsBeyondLength is returned when a decoded bitset
// has bits set at or beyond its declared length.
var ErrBitsBeyondLength = errors.New("bits set beyond bitset length")

type RawEncoder struct {
	buf []byte
}

func (e *RawEncoder) encode(
	bs *bitset.BitSet,
	adaptive bool,
) {
	words := bs.Words()
	nBytes := 8 * len(words)
	if adaptive {
		nBytes++
	}

	if cap(e.buf) < nBytes {
		e.buf = make([]byte, nBytes)
	} else {
		e.buf = e.buf[:nBytes]
	}

	buf := e.buf
	if adaptive {
		buf[0] = rawEncoding
		buf = buf[1:]
	}

	putWords(buf, words)
}

// EncodeBitset writes the raw encoding of bs to w.
func (e *RawEncoder) EncodeBitset(w io.Writer, bs *bitset.BitSet) error {
	e.encode(bs, false)
	return e.write(w)
}

func (e *RawEncoder) write(w io.Writer) error {
	if _, err := w.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write raw bitset: %w", err)
	}
	return nil
}

type RawDecoder struct {
	buf []byte
}

// DecodeBitset reads a raw encoding from r into bs.
// The length of bs must already match the encoded bitset.
func (d *RawDecoder) DecodeBitset(r io.Reader, bs *bitset.BitSet) error {
	words := bs.Words()
	nBytes := len(words) * 8
	if cap(d.buf) < nBytes {
		d.buf = make([]byte, nBytes)
	} else {
		d.buf = d.buf[:nBytes]
	}

	if _, err := io.ReadFull(r, d.buf); err != nil {
		return fmt.Errorf("failed to read raw bitset data: %w", err)
	}

	return readWords(d.buf, bs)
}

func putWords(dst []byte, words []uint64) {
	for i, w := range words {
		// We use big endian in most encodings for human readability,
		// but in this case we use little endian
		// since it is more likely to match a modern machine's endianness.
		binary.LittleEndian.PutUint64(dst[i*8:], w)
	}
}

// readWords fills the words of bs from src,
// which must hold exactly 8 bytes per word.
func readWords(src []byte, bs *bitset.BitSet) error {
	words := bs.Words()
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(src[i*8:])
	}

	if rem := bs.Len() % 64; rem != 0 && len(words) > 0 {
		if words[len(words)-1]>>rem != 0 {
			return fmt.Errorf("%w (length %d)", ErrBitsBeyondLength, bs.Len())
		}
	}

	return nil
}
