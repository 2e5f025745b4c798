// Package engine implements the global search façade (spec.md §4.7,
// component C7): the one stateful object a protocol front-end (C8) talks
// to. It owns the live board, the persistent search tree across moves,
// and the configuration store, wiring internal/uct, internal/tree, and
// internal/prior together the way Elvenson-alphabeth's Agent wires
// internal/mcts to a game.State — but trading that package's neural-net
// inference step for this module's policy/prior pair.
package engine

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/config"
	"github.com/kref/gouct/internal/livegfx"
	"github.com/kref/gouct/internal/policy"
	"github.com/kref/gouct/internal/prior"
	"github.com/kref/gouct/internal/rng"
	"github.com/kref/gouct/internal/sgf"
	"github.com/kref/gouct/internal/tree"
	"github.com/kref/gouct/internal/uct"
)

// ringLog is the "lumberjack"-style small log tail named after
// Elvenson-alphabeth/mcts's lumberjack field: it captures the last N
// formatted lines a *log.Logger writes (readable via Tail), without
// pulling in a rotating-file library this module has no use for.
type ringLog struct {
	mu    sync.Mutex
	lines []string
	cap   int
}

func newRingLog(capacity int) *ringLog { return &ringLog{cap: capacity} }

func (r *ringLog) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, string(p))
	if len(r.lines) > r.cap {
		r.lines = r.lines[len(r.lines)-r.cap:]
	}
	return len(p), nil
}

func (r *ringLog) Tail() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Stone classifies a block's life status for FinalStatus.
type Stone int

const (
	Dead Stone = iota
	Alive
	Seki
)

// Engine is the façade: genMove/ponder/clearSearch/setParam/finalStatus
// (spec.md §4.7), all synchronized by mu so a GTP front-end never races
// a background ponder against a new command.
type Engine struct {
	mu sync.Mutex

	cfg   *config.Store
	board *board.Board
	tree  *tree.Tree

	log    *log.Logger
	ring   *ringLog
	ponder *uct.Searcher // non-nil while Ponder is running in the background

	Telemetry *livegfx.Hub      // optional websocket fan-out, nil disables it
	Terminal  *livegfx.Terminal // optional colored terminal line, nil disables it
}

// New returns an Engine on a fresh size x size board at the store's
// current komi and ko rule, with an empty search tree.
func New(cfg *config.Store) *Engine {
	p := cfg.Get().Player
	ring := newRingLog(200)
	e := &Engine{
		cfg: cfg,
		log: log.New(os.Stderr, "engine: ", log.LstdFlags),
		ring: ring,
	}
	e.log.SetOutput(ring)
	e.resetBoard(p.BoardSize, p.Komi)
	return e
}

func (e *Engine) resetBoard(size int, komi float64) {
	e.board = board.New(size, komi)
	e.board.SetKoRule(e.cfg.Get().KoRuleValue())
	e.tree = tree.NewTree(maxInt(e.cfg.Get().Search.Workers, 1), 1<<20)
}

// NewGame resets the board and tree to an empty size x size position.
func (e *Engine) NewGame(size int, komi float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetBoard(size, komi)
}

// ClearBoard resets the position and tree at the current size/komi
// (GTP's `clear_board`).
func (e *Engine) ClearBoard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetBoard(e.board.Size(), e.board.Komi())
}

// SetBoardSize resets the position to an empty board of the given size,
// keeping the current komi (GTP's `boardsize`).
func (e *Engine) SetBoardSize(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetBoard(n, e.board.Komi())
}

// SetKomi updates komi on the live board without touching the position
// or tree (GTP's `komi`).
func (e *Engine) SetKomi(komi float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.board.SetKomi(komi)
}

// FinalStatusList returns the coordinates of every stone FinalStatus
// classifies as dead, for GTP's `final_status_list dead`.
func (e *Engine) FinalStatusList(samples int) []board.Point {
	status := e.FinalStatus(samples)
	var dead []board.Point
	for p, st := range status {
		if st == Dead {
			dead = append(dead, p)
		}
	}
	return dead
}

// Board returns the live board (read-only use by callers; mutate only
// via Play/GenMove).
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// Play commits an externally supplied move (e.g. from GTP's `play`
// command), discarding any subtree the façade cannot line up with it.
func (e *Engine) Play(move board.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	res, _ := e.board.PlayIfLegal(move)
	if res != board.ResultOK {
		return errors.Errorf("engine: illegal move %v (%v)", move, res)
	}
	e.reuseOrClear(move)
	return nil
}

// reuseOrClear is called with mu held, right after a move (from GenMove
// or Play) has been committed to e.board: it tries to carry the matching
// child's subtree forward as the new tree's root (spec.md §4.7's
// "optionally reuse subtree from the prior tree"), falling back to a
// clear when the move has no matching child (e.g. an opponent move the
// search never expanded).
func (e *Engine) reuseOrClear(move board.Point) {
	var matched *tree.Node
	for _, c := range e.tree.Children(e.tree.Root()) {
		if c.Move == move {
			matched = c
			break
		}
	}
	newTree := tree.NewTree(e.tree.NumAllocators(), totalCapacity(e.tree))
	if matched != nil {
		extracted := tree.ExtractSubtree(e.tree, newTree, matched, time.Time{})
		*newTree.Root() = *extracted
	}
	e.tree = newTree
}

func totalCapacity(t *tree.Tree) int {
	total := 0
	for i := 0; i < t.NumAllocators(); i++ {
		total += t.Allocator(i).Capacity()
	}
	return total
}

// ClearSearch discards the search tree without touching the board
// (spec.md §4.7's `clearSearch`).
func (e *Engine) ClearSearch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree.Clear()
}

// SetParam applies one `uct_param_GROUP NAME VALUE` command.
func (e *Engine) SetParam(group, name, value string) error {
	switch group {
	case "search":
		return e.cfg.SetSearch(name, value)
	case "policy":
		return e.cfg.SetPolicy(name, value)
	case "player":
		return e.cfg.SetPlayer(name, value)
	default:
		return errors.Errorf("engine: unknown param group %q", group)
	}
}

// GenMove runs a search under the configured budget and commits the
// chosen move to the board, returning it (spec.md §4.7's `genMove`).
func (e *Engine) GenMove() (board.Point, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	move, err := e.search(nil)
	if err != nil {
		return board.PASS, err
	}
	if res, _ := e.board.PlayIfLegal(move); res != board.ResultOK {
		return board.PASS, errors.Errorf("engine: internal invariant violation: search chose illegal move %v", move)
	}
	e.reuseOrClear(move)
	return move, nil
}

// Ponder runs a background search against the current position without
// committing a move, stopping when stop is closed (spec.md §4.7's
// `ponder`). It does not hold mu while running so SetParam/Play/GenMove
// can still be issued — a caller wanting a consistent view should stop
// pondering first.
func (e *Engine) Ponder(stop <-chan struct{}) error {
	e.mu.Lock()
	cfg := e.cfg.Get()
	s := uct.NewSearcher(e.tree, e.board, cfg.UCTConfig())
	s.PriorMode = cfg.PriorModeValue()
	s.PriorConstants = prior.DefaultConstants
	e.wireTelemetry(s)
	e.ponder = s
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()
	select {
	case <-stop:
		s.Stop()
		<-done
	case <-done:
	}

	e.mu.Lock()
	e.ponder = nil
	e.mu.Unlock()
	return workerErrors(s)
}

// search runs a single genMove-budgeted search, optionally restricted to
// filter at the root, and returns the façade's chosen move.
func (e *Engine) search(filter map[board.Point]bool) (board.Point, error) {
	cfg := e.cfg.Get()
	s := uct.NewSearcher(e.tree, e.board, cfg.UCTConfig())
	s.PriorMode = cfg.PriorModeValue()
	s.PriorConstants = prior.DefaultConstants
	s.RootFilter = filter
	e.wireTelemetry(s)
	s.Run()
	if err := workerErrors(s); err != nil {
		return board.PASS, err
	}
	return s.SelectMove(), nil
}

// wireTelemetry installs s.OnSample when either sink is configured,
// translating the root's current best child into a livegfx.Sample — the
// hook itself is already cadence-gated by internal/uct (spec.md §3's
// "live-gfx cadence" global parameter).
func (e *Engine) wireTelemetry(s *uct.Searcher) {
	if e.Telemetry == nil && e.Terminal == nil {
		return
	}
	s.OnSample = func(games int64, elapsed time.Duration) {
		sample := e.bestSample(s, games, elapsed)
		if e.Telemetry != nil {
			e.Telemetry.Publish(sample)
		}
		if e.Terminal != nil {
			e.Terminal.Print(sample)
		}
	}
}

func (e *Engine) bestSample(s *uct.Searcher, games int64, elapsed time.Duration) livegfx.Sample {
	children := s.Tree.Children(s.Tree.Root())
	sample := livegfx.Sample{Games: games, Elapsed: elapsed, BestMove: "pass"}
	var best *tree.Node
	for _, c := range children {
		if best == nil || c.Outcome.Count() > best.Outcome.Count() {
			best = c
		}
	}
	if best != nil {
		sample.BestMove = e.vertex(best.Move)
		sample.BestMean = best.Outcome.Value()
		sample.BestCount = best.Outcome.Count()
	}
	return sample
}

func (e *Engine) vertex(p board.Point) string {
	if p == board.PASS {
		return "pass"
	}
	row, col := e.board.RowCol(p)
	return fmt.Sprintf("(%d,%d)", row, col)
}

func workerErrors(s *uct.Searcher) error {
	errs := s.Errors()
	if len(errs) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, e := range errs {
		merr = multierror.Append(merr, e)
	}
	return errors.Wrap(merr.ErrorOrNil(), "engine: search worker failure")
}

// FinalStatus runs a short territory-statistics search (per-point
// ownership averaging) combined with the board's static safe-region
// pass, classifying every stone as alive, dead, or seki by thresholding
// mean ownership from Black's perspective (spec.md §4.7's `finalStatus`).
func (e *Engine) FinalStatus(samples int) map[board.Point]Stone {
	e.mu.Lock()
	defer e.mu.Unlock()

	owner := make([]int, e.board.Size()*e.board.Size())
	cfg := e.cfg.Get().UCTConfig()
	pol := buildScratchPolicy(cfg)
	for i := 0; i < samples; i++ {
		scratch := e.board.Clone()
		playoutToEnd(scratch, pol, cfg)
		scratch.AreaScore(owner)
	}

	safe := e.board.SafeRegions()
	out := make(map[board.Point]Stone)
	for _, p := range e.board.AllPoints() {
		c := e.board.GetColor(p)
		if c != board.Black && c != board.White {
			continue
		}
		if safe[p] {
			out[p] = Alive
			continue
		}
		idx := ownerIndex(e.board, p)
		mean := float64(owner[idx]) / float64(samples)
		switch {
		case c == board.Black && mean > 0.3:
			out[p] = Alive
		case c == board.White && mean < -0.3:
			out[p] = Alive
		case mean > -0.15 && mean < 0.15:
			out[p] = Seki
		default:
			out[p] = Dead
		}
	}
	return out
}

// buildScratchPolicy returns a fresh playout policy for territory
// sampling, independent of any worker's — FinalStatus runs single
// threaded and needn't share internal/uct's RNG pool.
func buildScratchPolicy(cfg uct.Config) *policy.Policy {
	return policy.New(rng.New(time.Now().UnixNano()), 40)
}

// playoutToEnd runs scratch to a natural finish (two passes, mercy, or
// the move cap) the same way internal/uct's simulate does, discarding
// the AMAF move list FinalStatus has no use for.
func playoutToEnd(scratch *board.Board, pol *policy.Policy, cfg uct.Config) {
	maxMoves := cfg.MaxPlayoutMoves
	if maxMoves <= 0 {
		maxMoves = 3 * scratch.Size() * scratch.Size()
	}
	mercy := cfg.MercyThreshold
	if mercy <= 0 {
		mercy = board.MercyThreshold
	}
	for played := 0; played < maxMoves && scratch.NumPasses() < 2; played++ {
		if decided, _ := scratch.MercyResult(mercy); decided {
			return
		}
		mv := pol.GenerateMove(scratch)
		if res, _ := scratch.PlayIfLegal(mv.Point); res != board.ResultOK {
			scratch.Pass()
		}
	}
}

// DumpTree renders the live search tree as an SGF-like collection (one
// variation per child, recursively, down to maxDepth), with each node's
// comment carrying count/mean/raveCount/raveMean, for the
// `uct_savetree` command (spec.md §6's "Tree dump").
func (e *Engine) DumpTree(maxDepth int) *sgf.Collection {
	e.mu.Lock()
	defer e.mu.Unlock()

	root := &sgf.GameTree{Nodes: []*sgf.Node{statsNode(e.board, e.tree.Root())}}
	e.dumpChildren(root, e.tree.Root(), maxDepth)
	return &sgf.Collection{Trees: []*sgf.GameTree{root}}
}

func (e *Engine) dumpChildren(into *sgf.GameTree, node *tree.Node, depthLeft int) {
	if depthLeft <= 0 {
		return
	}
	for _, c := range e.tree.Children(node) {
		child := &sgf.GameTree{Nodes: []*sgf.Node{statsNode(e.board, c)}}
		e.dumpChildren(child, c, depthLeft-1)
		into.Children = append(into.Children, child)
	}
}

func statsNode(b *board.Board, n *tree.Node) *sgf.Node {
	sn := &sgf.Node{Properties: make(map[string][]string)}
	if n.Move != board.PASS {
		sn.Set("B", sgf.PointToSGF(b, n.Move))
	}
	sn.Set("C", fmt.Sprintf("count=%d mean=%.4f raveCount=%d raveMean=%.4f",
		n.Outcome.Count(), n.Outcome.Value(), n.Rave.Count(), n.Rave.Value()))
	return sn
}

func ownerIndex(b *board.Board, p board.Point) int {
	for i, q := range b.AllPoints() {
		if q == p {
			return i
		}
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
