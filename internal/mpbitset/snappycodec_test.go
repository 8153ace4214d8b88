package mpbitset_test

import (
	"bytes"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/multiproof/internal/mpbitset"
	"github.com/stretchr/testify/require"
)

func TestSnappyCodec_roundTrip(t *testing.T) {
	t.Parallel()

	var enc mpbitset.SnappyEncoder
	var dec mpbitset.SnappyDecoder
	testCodec(t, &enc, &dec)
}

func TestSnappyDecoder_rejectsOversizedLength(t *testing.T) {
	t.Parallel()

	in := []byte{0xFF, 0xFF, 0xFF, 0xFF}

	var dec mpbitset.SnappyDecoder
	err := dec.DecodeBitset(bytes.NewReader(in), bitset.New(64))
	require.Error(t, err)
}
