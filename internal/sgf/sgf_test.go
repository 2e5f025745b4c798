package sgf_test

import (
	"strings"
	"testing"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/sgf"
	"github.com/stretchr/testify/require"
)

func TestParsePrintRoundTrip(t *testing.T) {
	src := `(;GM[1]FF[4]SZ[9]KM[7.5];B[ee];W[ec]C[escaped \] bracket])`
	col, err := sgf.Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, col.Trees, 1)
	require.Len(t, col.Trees[0].Nodes, 3)

	c, ok := col.Trees[0].Nodes[2].Get("C")
	require.True(t, ok)
	require.Equal(t, "escaped ] bracket", c)

	var out strings.Builder
	require.NoError(t, sgf.Print(&out, col))

	reparsed, err := sgf.Parse(strings.NewReader(out.String()))
	require.NoError(t, err)
	require.Equal(t, col.Trees[0].Nodes[2].Properties["C"], reparsed.Trees[0].Nodes[2].Properties["C"])
}

func TestParseVariations(t *testing.T) {
	src := `(;SZ[9](;B[ee])(;B[cc]))`
	col, err := sgf.Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, col.Trees[0].Children, 2)
}

func TestParseRejectsUnterminatedTree(t *testing.T) {
	_, err := sgf.Parse(strings.NewReader(`(;SZ[9]`))
	require.Error(t, err)
}

func TestNewGameAppendMoveReplayRoundTrip(t *testing.T) {
	col := sgf.NewGame(9, 7.5)
	b := board.New(9, 7.5)
	move := b.Point(4, 4)
	_, _ = b.PlayIfLegal(move)
	sgf.AppendMove(col, b, board.Black, move)

	var out strings.Builder
	require.NoError(t, sgf.Print(&out, col))

	reparsed, err := sgf.Parse(strings.NewReader(out.String()))
	require.NoError(t, err)

	var moves []board.Point
	replayed, err := sgf.Replay(reparsed.Trees[0], func(rb *board.Board, color board.Color, p board.Point) error {
		moves = append(moves, p)
		_, _ = rb.PlayIfLegal(p)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 9, replayed.Size())
	require.Equal(t, []board.Point{move}, moves)
}

func TestPointToSGFAndBackRoundTrips(t *testing.T) {
	b := board.New(19, 6.5)
	for _, p := range []board.Point{b.Point(0, 0), b.Point(18, 18), b.Point(3, 15)} {
		s := sgf.PointToSGF(b, p)
		got, err := sgf.SGFToPoint(b, s)
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
}

func TestPassRoundTrips(t *testing.T) {
	b := board.New(9, 7.5)
	s := sgf.PointToSGF(b, board.PASS)
	require.Equal(t, "", s)
	p, err := sgf.SGFToPoint(b, s)
	require.NoError(t, err)
	require.Equal(t, board.PASS, p)
}
