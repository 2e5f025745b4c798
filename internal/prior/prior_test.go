package prior_test

import (
	"testing"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/policy"
	"github.com/kref/gouct/internal/prior"
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

func TestSeedDefaultRanksCaptureAboveNeutral(t *testing.T) {
	b := board.New(9, 7.5)
	// White builds three sides of (4,4); Black then plays the fourth
	// point anyway, leaving its own lone stone at one liberty. White, to
	// move next, can capture immediately at that last liberty.
	placeStone(t, b, b.Point(3, 4), board.White)
	placeStone(t, b, b.Point(4, 3), board.White)
	placeStone(t, b, b.Point(5, 4), board.White)
	placeStone(t, b, b.Point(4, 4), board.Black)

	pol := policy.New(rng.New(3), 40)
	seeder := prior.New(prior.ModeDefault, prior.DefaultConstants, pol)

	capture := b.Point(4, 5) // Black's one remaining liberty
	neutral := b.Point(0, 0)
	candidates := []board.Point{capture, neutral}

	seeds := seeder.Seed(b, candidates)
	byMove := map[board.Point]prior.Seed{}
	for _, s := range seeds {
		byMove[s.Move] = s
	}
	require.Greater(t, byMove[capture].Value, byMove[neutral].Value)
}

func TestSeedModeNoneYieldsZeroCount(t *testing.T) {
	b := board.New(9, 7.5)
	seeder := prior.New(prior.ModeNone, prior.DefaultConstants, nil)
	seeds := seeder.Seed(b, []board.Point{b.Point(0, 0), b.Point(1, 1)})
	for _, s := range seeds {
		require.Equal(t, 0, s.Count)
		require.Equal(t, 0.5, s.Value)
	}
}

func TestSeedModeEvenIsUniform(t *testing.T) {
	b := board.New(9, 7.5)
	seeder := prior.New(prior.ModeEven, prior.DefaultConstants, nil)
	seeds := seeder.Seed(b, []board.Point{b.Point(0, 0), b.Point(1, 1), b.Point(2, 2)})
	for _, s := range seeds {
		require.Equal(t, prior.DefaultConstants.CMid, s.Count)
		require.Equal(t, 0.5, s.Value)
	}
}
