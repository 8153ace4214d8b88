package mptest_test

import (
	"fmt"
	"testing"

	"github.com/gordian-engine/multiproof/internal/mptest"
	"github.com/stretchr/testify/require"
)

func TestSubsets(t *testing.T) {
	t.Parallel()

	var got []string
	for s := range mptest.Subsets(3) {
		got = append(got, fmt.Sprint(s))
	}

	require.Equal(t, []string{
		"[0]", "[1]", "[0 1]", "[2]", "[0 2]", "[1 2]", "[0 1 2]",
	}, got)
}

func TestSubsets_count(t *testing.T) {
	t.Parallel()

	for n := uint(0); n <= 10; n++ {
		count := 0
		for range mptest.Subsets(n) {
			count++
		}
		require.Equal(t, (1<<n)-1, count)
	}
}

func TestSubsets_earlyStop(t *testing.T) {
	t.Parallel()

	count := 0
	for range mptest.Subsets(8) {
		count++
		if count == 5 {
			break
		}
	}
	require.Equal(t, 5, count)
}
