package mpbitset

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/golang/snappy"
)

type SnappyEncoder struct {
	// The byte slice representative of the bitset's Words.
	// If encoded through the AdaptiveEncoder,
	// it also has a 1-byte prefix of the [rawEncoding] header.
	wordBuf []byte

	// The snappy-encoded version of wordBuf,
	// prefixed with a big endian uint32 length.
	// If encoded through the AdaptiveEncoder,
	// it has a 5-byte prefix: 1 byte for the [snappyEncoding] header
	// and a uint32 length.
	encBuf []byte
}

func (e *SnappyEncoder) encode(
	bs *bitset.BitSet,
	adaptive bool,
) {
	words := bs.Words()
	nBytes := 8 * len(words)
	if adaptive {
		nBytes++
	}

	if cap(e.wordBuf) < nBytes {
		e.wordBuf = make([]byte, nBytes)
	} else {
		e.wordBuf = e.wordBuf[:nBytes]
	}

	// +4 for the size uint32.
	maxEnc := snappy.MaxEncodedLen(8*len(words)) + 4
	if adaptive {
		maxEnc++
	}

	if cap(e.encBuf) < maxEnc {
		e.encBuf = make([]byte, maxEnc)
	} else {
		e.encBuf = e.encBuf[:maxEnc]
	}
	encBuf := e.encBuf
	if adaptive {
		encBuf[0] = snappyEncoding
		encBuf = encBuf[1:]
	}

	// Copy the words first.
	wordBuf := e.wordBuf
	if adaptive {
		wordBuf[0] = rawEncoding
		wordBuf = wordBuf[1:]
	}
	putWords(wordBuf, words)

	// Figure out how large the snappy encoding is,
	// then backfill the size header.
	res := snappy.Encode(encBuf[4:], wordBuf)
	binary.BigEndian.PutUint32(encBuf, uint32(len(res)))

	// Need to have the correct size of e.encBuf,
	// for when the bytes are written.
	if adaptive {
		e.encBuf = e.encBuf[:len(res)+5]
	} else {
		e.encBuf = e.encBuf[:len(res)+4]
	}
}

// EncodeBitset writes the snappy encoding of bs to w.
func (e *SnappyEncoder) EncodeBitset(w io.Writer, bs *bitset.BitSet) error {
	e.encode(bs, false)
	return e.write(w)
}

func (e *SnappyEncoder) write(w io.Writer) error {
	if _, err := w.Write(e.encBuf); err != nil {
		return fmt.Errorf("failed to write snappy bitset: %w", err)
	}
	return nil
}

type SnappyDecoder struct {
	wordBuf []byte
	encBuf  []byte
}

// DecodeBitset reads a snappy encoding from r into bs.
// The length of bs must already match the encoded bitset.
func (d *SnappyDecoder) DecodeBitset(r io.Reader, bs *bitset.BitSet) error {
	var sz [4]byte
	if _, err := io.ReadFull(r, sz[:]); err != nil {
		return fmt.Errorf("failed to read snappy bitset size: %w", err)
	}

	nBytes := 8 * len(bs.Words())
	encLen := int(binary.BigEndian.Uint32(sz[:]))
	if maxLen := snappy.MaxEncodedLen(nBytes); encLen > maxLen {
		return fmt.Errorf(
			"snappy bitset size %d exceeds maximum %d for %d bits",
			encLen, maxLen, bs.Len(),
		)
	}

	if cap(d.encBuf) < encLen {
		d.encBuf = make([]byte, encLen)
	} else {
		d.encBuf = d.encBuf[:encLen]
	}
	if _, err := io.ReadFull(r, d.encBuf); err != nil {
		return fmt.Errorf("failed to read snappy bitset data: %w", err)
	}

	decLen, err := snappy.DecodedLen(d.encBuf)
	if err != nil {
		return fmt.Errorf("failed to read snappy decoded length: %w", err)
	}
	if decLen != nBytes {
		return fmt.Errorf(
			"snappy bitset decodes to %d bytes, expected %d", decLen, nBytes,
		)
	}

	if cap(d.wordBuf) < nBytes {
		d.wordBuf = make([]byte, nBytes)
	} else {
		d.wordBuf = d.wordBuf[:nBytes]
	}
	out, err := snappy.Decode(d.wordBuf, d.encBuf)
	if err != nil {
		return fmt.Errorf("failed to decode snappy bitset: %w", err)
	}

	return readWords(out, bs)
}
