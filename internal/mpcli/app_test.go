package mpcli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gordian-engine/multiproof/internal/mpcli"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	t.Parallel()

	out := runOK(t, "root", "a", "b", "c", "d", "e", "f")
	require.Equal(t,
		"1f7379539707bcaea00564168d1d4d626b09b73f8a2a365234c62d763f854da2\n",
		out,
	)

	// The same leaves, already hashed.
	out = runOK(t, "root", "--hex",
		"ca978112ca1bbdcafac231b39a23dc4da786eff8147c4e72b9807785afee48bb",
		"3e23e8160039594a33894f6564e1b1348bbd7a0088d42c4acb73eeaed59c009d",
		"2e7d2c03a9507ae265ecf5b5356885a53393a2029d241394997265a1a25aefc6",
		"18ac3e7343f016890c510e93f935261169d9e3f565436429830faf0934f4f8e4",
		"3f79bb7b435b05321651daefd374cdc681dc06faa65e374e38337b88ca046dea",
		"252f10c83610ebca1a059c0bae8255eba2f95be4d1d7bcfa89d7248a82d9f111",
	)
	require.Equal(t,
		"1f7379539707bcaea00564168d1d4d626b09b73f8a2a365234c62d763f854da2\n",
		out,
	)
}

func TestRoot_blake3DiffersFromSHA256(t *testing.T) {
	t.Parallel()

	sha := runOK(t, "root", "a", "b", "c")
	b3 := runOK(t, "root", "--hash", "blake3", "a", "b", "c")
	require.NotEqual(t, sha, b3)
	require.Len(t, strings.TrimSpace(b3), 64)
}

func TestProve(t *testing.T) {
	t.Parallel()

	out := runOK(t, "prove", "--index", "3", "--index", "4", "a", "b", "c", "d", "e", "f")
	require.Equal(t, strings.Join([]string{
		"root 1f7379539707bcaea00564168d1d4d626b09b73f8a2a365234c62d763f854da2",
		"depth 3",
		"2e7d2c03a9507ae265ecf5b5356885a53393a2029d241394997265a1a25aefc6",
		"252f10c83610ebca1a059c0bae8255eba2f95be4d1d7bcfa89d7248a82d9f111",
		"e5a01fee14e0ed5c48714f22180f25ad8365b53f9779f79dc4a3d7e93963f94a",
		"",
	}, "\n"), out)
}

func TestProveVerify_roundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "proof.bin")
	leaves := []string{"a", "b", "c", "d", "e", "f", "g"}

	args := append([]string{
		"prove", "--hash", "blake3", "--index", "6", "--index", "1", "--out", path,
	}, leaves...)
	out := runOK(t, args...)

	root := strings.TrimPrefix(strings.SplitN(out, "\n", 2)[0], "root ")

	out = runOK(t, "verify", "--hash", "blake3", "--root", root, "--bundle", path)
	require.Equal(t, "valid\n", out)

	// A different root is rejected.
	other := strings.TrimSpace(runOK(t, "root", "--hash", "blake3", "x"))
	err := run(t, new(bytes.Buffer), "verify", "--hash", "blake3", "--root", other, "--bundle", path)
	require.ErrorIs(t, err, mpcli.ErrInvalidProof)

	// So is the right root with the wrong hash function,
	// since the bundle decodes with 32-byte hashes either way.
	err = run(t, new(bytes.Buffer), "verify", "--root", root, "--bundle", path)
	require.ErrorIs(t, err, mpcli.ErrInvalidProof)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		args []string
	}{
		{name: "no leaves", args: []string{"root"}},
		{name: "unknown hash", args: []string{"root", "--hash", "md5", "a"}},
		{name: "bad hex leaf", args: []string{"root", "--hex", "zz"}},
		{name: "short hex leaf", args: []string{"root", "--hex", "abcd"}},
		{name: "index out of range", args: []string{"prove", "--index", "2", "a", "b"}},
		{name: "missing index", args: []string{"prove", "a", "b"}},
		{name: "missing bundle file", args: []string{
			"verify", "--root", "00", "--bundle", filepath.Join(t.TempDir(), "nope"),
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Error(t, run(t, new(bytes.Buffer), tc.args...))
		})
	}
}

func run(t *testing.T, stdout *bytes.Buffer, args ...string) error {
	t.Helper()

	return mpcli.Run(
		context.Background(),
		append([]string{"mproof"}, args...),
		mpcli.Config{
			Stdout: stdout,
			Stderr: new(bytes.Buffer),
			Logger: slogt.New(t),
		},
	)
}

func runOK(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	require.NoError(t, run(t, &out, args...))
	return out.String()
}
