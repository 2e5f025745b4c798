package policy_test

import (
	"testing"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/policy"
	"github.com/kref/gouct/internal/rng"
	"github.com/stretchr/testify/require"
)

func placeStone(t *testing.T, b *board.Board, p board.Point, c board.Color) {
	t.Helper()
	for b.ToPlay() != c {
		b.Pass()
	}
	res, _ := b.PlayIfLegal(p)
	require.Equal(t, board.ResultOK, res)
}

// TestSelfAtariCorrectionSingleStone covers spec.md §8 scenario 1: a naive
// single-stone self-atari fill is replaced by a move that does not leave
// the mover in atari, when an escaping alternative exists.
func TestSelfAtariCorrectionSingleStone(t *testing.T) {
	b := board.New(19, 7.5)
	// A lone Black stone next to the corner, White to move. White playing
	// the corner (0,0) would be a single stone with one liberty at (1,0);
	// (1,0) itself is not a self-atari, so it is the replacement.
	placeStone(t, b, b.Point(0, 1), board.Black)

	require.Equal(t, board.White, b.ToPlay())

	p := policy.New(rng.New(1), 40)
	fixed, changed := p.CorrectSelfAtari(b, b.Point(0, 0), board.White)
	require.True(t, changed)
	require.Equal(t, b.Point(1, 0), fixed)
}

// TestSelfAtariCorrectionIdempotent re-applying correction to its own
// output must be a no-op.
func TestSelfAtariCorrectionIdempotent(t *testing.T) {
	b := board.New(9, 7.5)
	placeStone(t, b, b.Point(4, 5), board.White)
	placeStone(t, b, b.Point(3, 4), board.White)
	placeStone(t, b, b.Point(5, 4), board.White)
	placeStone(t, b, b.Point(4, 4), board.Black)

	p := policy.New(rng.New(1), 40)
	fixed, _ := p.CorrectSelfAtari(b, b.Point(4, 3), board.Black)
	again, changed := p.CorrectSelfAtari(b, fixed, board.Black)
	require.False(t, changed)
	require.Equal(t, fixed, again)
}

// TestGenerateMoveAvoidsSelfAtariByCapture covers spec.md §8 scenario 2:
// with a capturing move available, GenerateMove must prefer it over a
// self-atari fill at the same ply.
func TestGenerateMoveAvoidsSelfAtariByCapture(t *testing.T) {
	b := board.New(19, 7.5)
	// Stone order chosen so placeStone's forced passes leave White to move
	// (see the identical note in internal/board/board_test.go).
	placeStone(t, b, b.Point(0, 2), board.White)
	placeStone(t, b, b.Point(1, 0), board.White)
	placeStone(t, b, b.Point(1, 2), board.White)
	placeStone(t, b, b.Point(2, 1), board.White)
	placeStone(t, b, b.Point(0, 1), board.Black)
	placeStone(t, b, b.Point(1, 1), board.Black)

	p := policy.New(rng.New(7), 40)
	m := p.GenerateMove(b)
	require.Equal(t, b.Point(0, 0), m.Point)
	require.Equal(t, policy.SourceAtariCapture, m.Source)
}

// TestGenerateMoveEscapesAtariWithoutWalkingIntoLadder exercises
// SourceAtariDefend: White's last move reduces a lone Black stone to one
// liberty, but extending into that liberty opens into empty space (three
// liberties, not the two LadderCapture's precondition assumes), so the
// escape must be judged safe and returned — not skipped as "walks into a
// ladder" by mistakenly ladder-reading the not-yet-played one-liberty block.
func TestGenerateMoveEscapesAtariWithoutWalkingIntoLadder(t *testing.T) {
	b := board.New(9, 7.5)
	play := func(p board.Point) {
		res, _ := b.PlayIfLegal(p)
		require.Equal(t, board.ResultOK, res)
	}
	play(b.Point(4, 4)) // Black
	play(b.Point(3, 4)) // White
	play(b.Point(0, 0)) // Black, elsewhere
	play(b.Point(5, 4)) // White
	play(b.Point(0, 1)) // Black, elsewhere
	play(b.Point(4, 5)) // White, completes the atari on (4,4)

	require.Equal(t, board.Black, b.ToPlay())
	anchor := b.Anchor(b.Point(4, 4))
	libs := b.BlockLiberties(anchor)
	require.Len(t, libs, 1)
	require.Equal(t, b.Point(4, 3), libs[0])

	p := policy.New(rng.New(3), 40)
	m := p.GenerateMove(b)
	require.Equal(t, policy.SourceAtariDefend, m.Source)
	require.Equal(t, b.Point(4, 3), m.Point)
}

// TestGenerateMoveNeverReturnsIllegal exercises the full cascade across
// random mid-game positions, asserting the generated move is always
// PASS-or-pseudo-legal: a closure property every playout depends on.
func TestGenerateMoveNeverReturnsIllegal(t *testing.T) {
	b := board.New(9, 7.5)
	r := rng.New(42)
	p := policy.New(r, 40)
	for i := 0; i < 60; i++ {
		m := p.GenerateMove(b)
		if m.Point != board.PASS {
			require.True(t, b.PseudoLegal(m.Point))
		}
		res, _ := b.PlayIfLegal(m.Point)
		require.Equal(t, board.ResultOK, res)
		if b.NumPasses() >= 2 {
			break
		}
	}
}
