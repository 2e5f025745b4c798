package tree_test

import (
	"testing"
	"time"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/tree"
	"github.com/stretchr/testify/require"
)

func TestCreateChildrenPublishesContiguousRun(t *testing.T) {
	tr := tree.NewTree(2, 100)
	root := tr.Root()
	moves := []board.Point{1, 2, 3}

	ref, ok := tr.CreateChildren(0, root, moves)
	require.True(t, ok)
	require.True(t, ref.Valid())
	require.EqualValues(t, 3, root.NuChildren())

	children := tr.Children(root)
	require.Len(t, children, 3)
	for i, c := range children {
		require.Equal(t, moves[i], c.Move)
	}
}

func TestCreateChildrenSeededAppliesPrior(t *testing.T) {
	tr := tree.NewTree(1, 10)
	root := tr.Root()
	moves := []board.Point{5, 6}
	values := []float64{1, 0.5}
	counts := []int64{9, 9}

	_, ok := tr.CreateChildrenSeeded(0, root, moves, values, counts)
	require.True(t, ok)
	children := tr.Children(root)
	require.InDelta(t, 1.0, children[0].Outcome.Value(), 1e-6)
	require.EqualValues(t, 9, children[0].Outcome.Count())
}

func TestAllocatorExhaustionFailsCleanly(t *testing.T) {
	tr := tree.NewTree(1, 2)
	root := tr.Root()
	_, ok := tr.CreateChildren(0, root, []board.Point{1, 2, 3})
	require.False(t, ok)
	require.EqualValues(t, 0, root.NuChildren())
}

func TestApplyFilterKeepsOnlyAllowedMoves(t *testing.T) {
	tr := tree.NewTree(1, 20)
	root := tr.Root()
	moves := []board.Point{1, 2, 3, 4}
	_, ok := tr.CreateChildren(0, root, moves)
	require.True(t, ok)

	children := tr.Children(root)
	children[1].Outcome.Seed(0.7, 12)

	_, ok = tr.ApplyFilter(0, root, map[board.Point]bool{2: true, 4: true})
	require.True(t, ok)

	kept := tr.Children(root)
	require.Len(t, kept, 2)
	seen := map[board.Point]bool{}
	for _, c := range kept {
		seen[c.Move] = true
	}
	require.True(t, seen[2])
	require.True(t, seen[4])
}

func TestExtractSubtreeCopiesStatsAndStructure(t *testing.T) {
	src := tree.NewTree(2, 50)
	root := src.Root()
	_, ok := src.CreateChildren(0, root, []board.Point{1, 2})
	require.True(t, ok)
	child := src.Children(root)[0]
	child.Outcome.Seed(0.6, 20)
	_, ok = src.CreateChildren(1, child, []board.Point{10, 11})
	require.True(t, ok)

	dst := tree.NewTree(2, 50)
	copied := tree.ExtractSubtree(src, dst, child, time.Time{})

	require.EqualValues(t, 20, copied.Outcome.Count())
	require.InDelta(t, 0.6, copied.Outcome.Value(), 1e-6)
	grandchildren := dst.Children(copied)
	require.Len(t, grandchildren, 2)
}

func TestClearEmptiesTree(t *testing.T) {
	tr := tree.NewTree(1, 10)
	root := tr.Root()
	_, ok := tr.CreateChildren(0, root, []board.Point{1})
	require.True(t, ok)
	tr.Clear()
	require.EqualValues(t, 0, tr.Root().NuChildren())
	require.EqualValues(t, 0, tr.Allocator(0).Len())
}
