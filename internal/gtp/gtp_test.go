package gtp_test

import (
	"strings"
	"testing"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/gtp"
	"github.com/kref/gouct/internal/sgf"
	"github.com/stretchr/testify/require"
)

// fakeEngine is a minimal stand-in for internal/engine.Engine, letting
// gtp's tests exercise command parsing/framing without a real search.
type fakeEngine struct {
	b           *board.Board
	playErr     error
	genMove     board.Point
	genMoveErr  error
	deadPoints  []board.Point
	paramErr    error
	lastSetArgs [3]string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{b: board.New(9, 7.5), genMove: board.PASS}
}

func (f *fakeEngine) Board() *board.Board              { return f.b }
func (f *fakeEngine) NewGame(size int, komi float64)   { f.b = board.New(size, komi) }
func (f *fakeEngine) ClearBoard()                      { f.b = board.New(f.b.Size(), f.b.Komi()) }
func (f *fakeEngine) SetBoardSize(n int)                { f.b = board.New(n, f.b.Komi()) }
func (f *fakeEngine) SetKomi(k float64)                 { f.b.SetKomi(k) }
func (f *fakeEngine) Play(move board.Point) error {
	if f.playErr != nil {
		return f.playErr
	}
	_, _ = f.b.PlayIfLegal(move)
	return nil
}
func (f *fakeEngine) GenMove() (board.Point, error) { return f.genMove, f.genMoveErr }
func (f *fakeEngine) FinalStatusList(samples int) []board.Point { return f.deadPoints }
func (f *fakeEngine) SetParam(group, name, value string) error {
	f.lastSetArgs = [3]string{group, name, value}
	return f.paramErr
}
func (f *fakeEngine) DumpTree(maxDepth int) *sgf.Collection {
	return &sgf.Collection{Trees: []*sgf.GameTree{{Nodes: []*sgf.Node{{Properties: map[string][]string{}}}}}}
}

func run(t *testing.T, e *fakeEngine, commands string) string {
	t.Helper()
	var out strings.Builder
	s := gtp.New(e, strings.NewReader(commands), &out)
	s.Run()
	return out.String()
}

func TestGenMoveReturnsFormattedVertex(t *testing.T) {
	e := newFakeEngine()
	e.genMove = e.b.Point(4, 4) // center of a 9x9 board
	out := run(t, e, "genmove B\n")
	require.Contains(t, out, "=")
	require.Contains(t, out, "E5")
}

func TestPlayRejectsInvalidVertex(t *testing.T) {
	e := newFakeEngine()
	out := run(t, e, "play B Z99\n")
	require.Contains(t, out, "?")
}

func TestKnownCommandReportsTrueAndFalse(t *testing.T) {
	e := newFakeEngine()
	out := run(t, e, "known_command genmove\nknown_command bogus\n")
	lines := strings.Split(strings.TrimSpace(out), "\n\n")
	require.Contains(t, lines[0], "true")
	require.Contains(t, lines[1], "false")
}

func TestUctParamSearchForwardsToEngine(t *testing.T) {
	e := newFakeEngine()
	out := run(t, e, "uct_param_search t_e 25\n")
	require.Contains(t, out, "=")
	require.Equal(t, [3]string{"search", "t_e", "25"}, e.lastSetArgs)
}

func TestQuitStopsTheLoop(t *testing.T) {
	e := newFakeEngine()
	out := run(t, e, "quit\ngenmove B\n")
	require.NotContains(t, out, "E5")
}

func TestIDPrefixEchoedInResponse(t *testing.T) {
	e := newFakeEngine()
	out := run(t, e, "7 protocol_version\n")
	require.Contains(t, out, "=7")
}
