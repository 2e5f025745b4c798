package uct

import (
	"testing"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/tree"
	"github.com/stretchr/testify/require"
)

// TestBackpropagateAlwaysUpdatesRaveRegardlessOfCheckSame covers the
// review fix: raveCheckSame must not gate whether RAVE runs at all
// (spec.md §4.6 only uses it to dedup repeated moves), so a sibling whose
// move recurs in the simulation must be credited whether raveCheckSame is
// true or false.
func TestBackpropagateAlwaysUpdatesRaveRegardlessOfCheckSame(t *testing.T) {
	for _, checkSame := range []bool{true, false} {
		tr := tree.NewTree(1, 1000)
		root := tr.Root()
		a := board.Point(1)
		bMove := board.Point(2)
		ref, ok := tr.CreateChildren(0, root, []board.Point{a, bMove})
		require.True(t, ok)
		_ = ref

		path := []step{{node: tr.Children(root)[0], color: board.Black}}
		sim := []ply{{move: bMove, color: board.Black}}

		backpropagate(tr, root, board.Black, path, sim, 1.0, checkSame)

		sib := tr.Children(root)[1]
		require.Equal(t, bMove, sib.Move)
		require.Greater(t, sib.Rave.Count(), int64(0), "checkSame=%v: sibling was never credited", checkSame)
	}
}

// TestBackpropagateCheckSameAvoidsDoubleCounting covers spec.md §4.6's
// "optionally restricted to first occurrence to avoid double counting":
// when a move recurs multiple times later in the same iteration (e.g. a
// ko recapture), raveCheckSame=true must credit the sibling once, while
// raveCheckSame=false credits it once per recurrence.
func TestBackpropagateCheckSameAvoidsDoubleCounting(t *testing.T) {
	recurring := board.Point(5)

	tr := tree.NewTree(1, 1000)
	root := tr.Root()
	_, ok := tr.CreateChildren(0, root, []board.Point{board.Point(1), recurring})
	require.True(t, ok)

	path := []step{{node: tr.Children(root)[0], color: board.Black}}
	sim := []ply{
		{move: recurring, color: board.Black},
		{move: board.Point(9), color: board.White},
		{move: recurring, color: board.Black},
	}

	backpropagate(tr, root, board.Black, path, sim, 1.0, true)
	sib := tr.Children(root)[1]
	require.Equal(t, int64(1), sib.Rave.Count())

	tr2 := tree.NewTree(1, 1000)
	root2 := tr2.Root()
	_, ok = tr2.CreateChildren(0, root2, []board.Point{board.Point(1), recurring})
	require.True(t, ok)
	path2 := []step{{node: tr2.Children(root2)[0], color: board.Black}}

	backpropagate(tr2, root2, board.Black, path2, sim, 1.0, false)
	sib2 := tr2.Children(root2)[1]
	require.Equal(t, int64(2), sib2.Rave.Count())
}
