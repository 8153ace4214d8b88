package mpbitset_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/multiproof/internal/mpbitset"
	"github.com/stretchr/testify/require"
)

func TestRawCodec_roundTrip(t *testing.T) {
	t.Parallel()

	var enc mpbitset.RawEncoder
	var dec mpbitset.RawDecoder
	testCodec(t, &enc, &dec)
}

func TestRawDecoder_bitsBeyondLength(t *testing.T) {
	t.Parallel()

	// One word claiming bit 10 is set, for a 6-bit bitset.
	in := []byte{0x00, 0x04, 0, 0, 0, 0, 0, 0}

	var dec mpbitset.RawDecoder
	err := dec.DecodeBitset(bytes.NewReader(in), bitset.New(6))
	require.ErrorIs(t, err, mpbitset.ErrBitsBeyondLength)
}

func TestRawDecoder_truncated(t *testing.T) {
	t.Parallel()

	var dec mpbitset.RawDecoder
	err := dec.DecodeBitset(bytes.NewReader([]byte{1, 2, 3}), bitset.New(6))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
