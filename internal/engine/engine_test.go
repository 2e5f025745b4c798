package engine_test

import (
	"strconv"
	"testing"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/config"
	"github.com/kref/gouct/internal/engine"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, games int64) *engine.Engine {
	t.Helper()
	store := config.NewStore()
	require.NoError(t, store.SetPlayer("board_size", "9"))
	require.NoError(t, store.SetSearch("max_games", strconv.FormatInt(games, 10)))
	require.NoError(t, store.SetSearch("t_e", "4"))
	e := engine.New(store)
	return e
}

func TestGenMoveCommitsALegalMove(t *testing.T) {
	e := newTestEngine(t, 40)
	before := e.Board().MoveNum()
	move, err := e.GenMove()
	require.NoError(t, err)
	require.NotEqual(t, board.PASS, move, "a 9x9 empty board should never need to pass immediately")
	require.Equal(t, before+1, e.Board().MoveNum())
}

func TestPlayRejectsIllegalMove(t *testing.T) {
	e := newTestEngine(t, 10)
	occupied, err := e.GenMove()
	require.NoError(t, err)
	err = e.Play(occupied)
	require.Error(t, err)
}

func TestClearSearchKeepsBoardIntact(t *testing.T) {
	e := newTestEngine(t, 10)
	_, err := e.GenMove()
	require.NoError(t, err)
	moveNum := e.Board().MoveNum()
	e.ClearSearch()
	require.Equal(t, moveNum, e.Board().MoveNum())
}

func TestSetParamRejectsUnknownGroup(t *testing.T) {
	e := newTestEngine(t, 10)
	require.Error(t, e.SetParam("bogus", "x", "1"))
}

func TestFinalStatusClassifiesOnlyOccupiedPoints(t *testing.T) {
	e := newTestEngine(t, 10)
	_, err := e.GenMove()
	require.NoError(t, err)
	status := e.FinalStatus(4)
	for p, st := range status {
		require.Contains(t, []engine.Stone{engine.Alive, engine.Dead, engine.Seki}, st)
		require.NotEqual(t, board.Empty, e.Board().GetColor(p))
	}
}
