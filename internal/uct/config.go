// Package uct implements the UCT+RAVE search core (spec.md §4.6,
// component C6): selection, expansion, simulation, and back-propagation,
// driven by N worker goroutines walking a shared internal/tree.Tree. The
// selection formula and worker loop shape are adapted from the teacher's
// pkg/mcts/search.go and pkg/mcts/rave.go (UCB1/RAVE blend, per-worker
// random source, CAS-gated expansion), generalized from the teacher's
// generic single-thread-owns-a-clone model to per-worker scratch boards
// cloned from a shared root position (spec.md §3's "Search state (per
// worker)").
package uct

import "time"

// MoveSelectMode picks how the façade reads a move off the root once the
// budget is spent (spec.md §3's "move-select mode" global parameter).
type MoveSelectMode int

const (
	SelectByMean MoveSelectMode = iota
	SelectByCount
	SelectByUCB
	SelectRaw
)

// Config is the tunable global parameter set (spec.md §3's "Global
// parameters").
type Config struct {
	Workers int

	ExpansionThreshold int64 // T_E: node becomes expandable once count reaches this
	Bias               float64
	RaveW0, RaveWFinal float64
	RaveCheckSame      bool
	FPU                float64 // first-play urgency value for unvisited children

	MaxGames int64
	MaxNodes int64
	MaxTime  time.Duration

	LockFree bool

	MoveSelect MoveSelectMode

	MaxPlayoutMoves int // simulation length cap in plies; 0 means three times the board area
	MercyThreshold  int

	LiveGfxCadence int64 // emit a telemetry sample every N completed games, 0 disables

	// PassWinThreshold is the win-probability cutoff for the pass-early
	// policy (spec.md §4.6): once the root's PASS child is both the best
	// child and evaluated at or above this threshold, the search stops
	// spending its budget and answers PASS. 0 disables the policy.
	PassWinThreshold float64
}

// DefaultConfig returns sensible defaults in the teacher's style (plain
// constructed literal, no external tuning file).
func DefaultConfig() Config {
	return Config{
		Workers:            1,
		ExpansionThreshold: 8,
		Bias:               0.7,
		RaveW0:             1.0,
		RaveWFinal:         0.0,
		RaveCheckSame:      true,
		FPU:                1.1,
		MaxGames:           1000,
		MaxNodes:           1 << 20,
		MaxTime:            0,
		MoveSelect:         SelectByCount,
		MaxPlayoutMoves:    0, // computed from board size if left 0
		MercyThreshold:     25,
		LiveGfxCadence:     0,
		PassWinThreshold:   0.8,
	}
}
