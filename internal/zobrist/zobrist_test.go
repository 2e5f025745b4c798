package zobrist_test

import (
	"testing"

	"github.com/kref/gouct/internal/zobrist"
	"github.com/stretchr/testify/require"
)

func TestGetTableIsCachedPerSize(t *testing.T) {
	a := zobrist.GetTable(9)
	b := zobrist.GetTable(9)
	require.Same(t, a, b)
}

func TestGetTableDiffersAcrossSizes(t *testing.T) {
	a := zobrist.GetTable(13)
	b := zobrist.GetTable(19)
	require.NotSame(t, a, b)
}

func TestStoneKeysAreDistinctAndNonzero(t *testing.T) {
	tbl := zobrist.GetTable(9)
	black := tbl.Stone(0, zobrist.Black)
	white := tbl.Stone(0, zobrist.White)
	require.NotZero(t, black)
	require.NotZero(t, white)
	require.NotEqual(t, black, white)
}

func TestStoneEmptyIsAlwaysZero(t *testing.T) {
	tbl := zobrist.GetTable(9)
	require.Equal(t, uint64(0), tbl.Stone(5, zobrist.Empty))
}

func TestHistoryPushContainsPopReset(t *testing.T) {
	h := zobrist.NewHistory()
	require.False(t, h.Contains(42))
	h.Push(42)
	require.True(t, h.Contains(42))
	h.Pop()
	require.False(t, h.Contains(42))

	h.Push(1)
	h.Push(2)
	require.ElementsMatch(t, []uint64{1, 2}, h.Snapshot())
	h.Reset()
	require.False(t, h.Contains(1))
	require.Empty(t, h.Snapshot())
}
