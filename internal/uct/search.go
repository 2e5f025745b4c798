package uct

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/policy"
	"github.com/kref/gouct/internal/prior"
	"github.com/kref/gouct/internal/rng"
	"github.com/kref/gouct/internal/tree"
)

// State is one worker's private search state (spec.md §3's "Search state
// (per worker)"): a scratch board cloned from the search position and
// the policy/prior instances that read it; the policy holds the worker's
// dedicated RNG. Exactly one
// goroutine ever touches a given State.
type State struct {
	Board  *board.Board
	Policy *policy.Policy
	Prior  *prior.Seeder
}

// Searcher runs the four-phase UCT+RAVE loop (select, expand, simulate,
// back-propagate) across Cfg.Workers goroutines against a shared Tree
// (spec.md §4.6, component C6). It is built fresh per genMove call; the
// façade (C7) owns Tree across moves for subtree reuse.
type Searcher struct {
	Tree *tree.Tree
	Cfg  Config
	Root *board.Board // never mutated; workers clone it

	PriorMode      prior.Mode
	PriorConstants prior.Constants
	RootFilter     map[board.Point]bool // nil means unrestricted

	games atomic.Int64
	stop  atomic.Bool

	errMu   sync.Mutex
	workErr []error // recovered per-worker panics, surfaced by the façade

	OnSample func(games int64, elapsed time.Duration) // live-gfx hook, may be nil
}

// Errors returns every worker panic recovered during the last Run, if any
// (spec.md §7: "Background worker exceptions are caught, set the global
// abort, and are surfaced on the next protocol response").
func (s *Searcher) Errors() []error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return append([]error(nil), s.workErr...)
}

// NewSearcher returns a Searcher ready to Run against tr, rooted at the
// (unmutated) position root.
func NewSearcher(tr *tree.Tree, root *board.Board, cfg Config) *Searcher {
	return &Searcher{Tree: tr, Cfg: cfg, Root: root, PriorMode: prior.ModeDefault, PriorConstants: prior.DefaultConstants}
}

// Stop requests every worker to finish its current iteration and return.
func (s *Searcher) Stop() { s.stop.Store(true) }

// Games returns the number of completed iterations so far.
func (s *Searcher) Games() int64 { return s.games.Load() }

// Run blocks until the configured budget (MaxGames/MaxTime/external Stop)
// is exhausted, having spread Cfg.Workers goroutines over the search.
func (s *Searcher) Run() {
	workers := s.Cfg.Workers
	if workers < 1 {
		workers = 1
	}
	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			defer s.recoverWorker(id)
			s.runWorker(id, start)
		}(w)
	}
	wg.Wait()
}

// recoverWorker catches a panic escaping runWorker, requests every other
// worker stop, and records the failure for the façade instead of taking
// the whole process down — reserved for genuinely unexpected conditions;
// a detected invariant violation elsewhere still aborts per spec.md §7.
func (s *Searcher) recoverWorker(id int) {
	if r := recover(); r != nil {
		s.stop.Store(true)
		s.errMu.Lock()
		s.workErr = append(s.workErr, fmt.Errorf("uct: worker %d panicked: %v", id, r))
		s.errMu.Unlock()
	}
}

func (s *Searcher) runWorker(id int, start time.Time) {
	seed := time.Now().UnixNano() ^ int64(uint64(id)*0x9E3779B97F4A7C15)
	r := rng.New(seed)
	st := &State{
		Board:  s.Root.Clone(),
		Policy: policy.New(r, 40),
	}
	st.Prior = prior.New(s.PriorMode, s.PriorConstants, st.Policy)

	allocIdx := id % s.Tree.NumAllocators()
	for !s.shouldStop(start) {
		s.iterate(st, allocIdx)
		s.games.Add(1)
		if id == 0 && s.Cfg.LiveGfxCadence > 0 && s.OnSample != nil && s.games.Load()%s.Cfg.LiveGfxCadence == 0 {
			s.OnSample(s.games.Load(), time.Since(start))
		}
	}
}

func (s *Searcher) shouldStop(start time.Time) bool {
	if s.stop.Load() {
		return true
	}
	if s.Cfg.MaxGames > 0 && s.games.Load() >= s.Cfg.MaxGames {
		return true
	}
	if s.Cfg.MaxTime > 0 && time.Since(start) >= s.Cfg.MaxTime {
		return true
	}
	if s.Cfg.MaxNodes > 0 && s.nodeCount() >= s.Cfg.MaxNodes {
		return true
	}
	if s.passEarly() {
		return true
	}
	return false
}

// minPassEarlySamples is the smallest number of root-child visits trusted
// before the pass-early policy acts on a child's mean, so a lucky early
// run of simulations can't stop the search on noise.
const minPassEarlySamples = 20

// passEarly implements the "best child is PASS and the evaluation is
// already a clear win" half of spec.md §4.6's pass-early policy, letting
// the search stop consuming its budget once the answer is settled. The
// complementary half — "opponent just passed and our best move is
// clearly winning, so pass back" — depends on whether the opponent
// passed, not on anything the search discovers, and is applied in
// SelectMove instead.
func (s *Searcher) passEarly() bool {
	if s.Cfg.PassWinThreshold <= 0 {
		return false
	}
	children := s.Tree.Children(s.Tree.Root())
	if len(children) == 0 {
		return false
	}
	var passChild, best *tree.Node
	for _, c := range children {
		if c.Move == board.PASS {
			passChild = c
		}
		if best == nil || c.Outcome.Value() > best.Outcome.Value() {
			best = c
		}
	}
	if passChild == nil || best != passChild {
		return false
	}
	return passChild.Outcome.Count() >= minPassEarlySamples && passChild.Outcome.Value() >= s.Cfg.PassWinThreshold
}

func (s *Searcher) nodeCount() int64 {
	var n int64
	for i := 0; i < s.Tree.NumAllocators(); i++ {
		n += int64(s.Tree.Allocator(i).Len())
	}
	return n
}

// iterate runs exactly one select/expand/simulate/back-propagate cycle,
// replaying and then unwinding all moves on st.Board via its Undo stack
// so the scratch board is left exactly at the search root afterward —
// reusing internal/board's snapshot-stack Undo instead of re-cloning the
// root every iteration.
func (s *Searcher) iterate(st *State, allocIdx int) {
	node := s.Tree.Root()
	rootColor := st.Board.ToPlay()
	var path []step
	undoCount := 0

	for node.NuChildren() > 0 {
		children := s.Tree.Children(node)
		mover := st.Board.ToPlay()
		chosen := selectChild(children, node.Outcome.Count(), s.Cfg)
		if chosen == nil {
			break
		}
		res, _ := st.Board.PlayIfLegal(chosen.Move)
		if res != board.ResultOK {
			break
		}
		undoCount++
		path = append(path, step{node: chosen, color: mover})
		node = chosen
	}

	isRoot := node == s.Tree.Root()
	if (isRoot || node.Outcome.Count() >= s.Cfg.ExpansionThreshold) && node.TryBeginExpand() {
		var filter map[board.Point]bool
		if isRoot {
			filter = s.RootFilter
		}
		moves := legalCandidates(st.Board, filter)
		seeds := st.Prior.Seed(st.Board, moves)
		values := make([]float64, len(seeds))
		counts := make([]int64, len(seeds))
		pts := make([]board.Point, len(seeds))
		for i, sd := range seeds {
			pts[i], values[i], counts[i] = sd.Move, sd.Value, int64(sd.Count)
		}
		s.Tree.CreateChildrenSeeded(allocIdx, node, pts, values, counts)
	}

	blackValue, sim := simulate(st.Policy, st.Board, s.Cfg)
	undoCount += len(sim)

	for i := 0; i < undoCount; i++ {
		st.Board.Undo()
	}

	backpropagate(s.Tree, s.Tree.Root(), rootColor, path, sim, blackValue, s.Cfg.RaveCheckSame)
}

// SelectMove reads a move off the root's children per Cfg.MoveSelect,
// returning PASS if the root has no children yet.
func (s *Searcher) SelectMove() board.Point {
	children := s.Tree.Children(s.Tree.Root())
	if len(children) == 0 {
		return board.PASS
	}
	best := children[0]
	bestScore := moveScore(best, s.Cfg)
	for _, c := range children[1:] {
		if v := moveScore(c, s.Cfg); v > bestScore {
			bestScore = v
			best = c
		}
	}
	if s.Cfg.PassWinThreshold > 0 && s.Root.LastMove() == board.PASS &&
		best.Outcome.Count() >= minPassEarlySamples && best.Outcome.Value() >= s.Cfg.PassWinThreshold {
		return board.PASS
	}
	return best.Move
}

func moveScore(n *tree.Node, cfg Config) float64 {
	switch cfg.MoveSelect {
	case SelectByCount:
		return float64(n.Outcome.Count())
	case SelectByUCB:
		return n.Outcome.Value() + cfg.Bias/float64(1+n.Outcome.Count())
	case SelectRaw:
		return n.Outcome.Value()
	default: // SelectByMean
		if n.Outcome.Count() == 0 {
			return -1
		}
		return n.Outcome.Value()
	}
}
