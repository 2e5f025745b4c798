// Package prior implements the prior-knowledge seeder (spec.md §4.5,
// component C5): at node expansion time it produces a (value, count) pair
// per legal child move, derived from one dry-run of the playout policy
// (component C4), matching Fuego's GoUctDefaultPriorKnowledge::
// ProcessPosition (original_source/gouct/GoUctDefaultPriorKnowledge.cpp):
// run the policy once, read off its winning rule and equivalent-best-move
// set, and grade every other pseudo-legal move relative to that set.
package prior

import (
	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/policy"
)

// Mode selects the seeding scheme (spec.md §4.5's "alternatives").
type Mode int

const (
	// ModeDefault runs the policy-derived scheme described above.
	ModeDefault Mode = iota
	// ModeNone disables seeding: every move starts at zero count, letting
	// plain UCT/RAVE statistics accumulate from scratch.
	ModeNone
	// ModeEven seeds every pseudo-legal move with an identical neutral
	// prior, useful for isolating the effect of prior knowledge in
	// experiments.
	ModeEven
)

// Constants is the tunable set of prior-knowledge magnitudes spec.md §9's
// Open Questions flags as "not baked in": sensible defaults, but every
// field is a normal struct field callers can override via configuration.
type Constants struct {
	CHigh int // equivalent-count given to the policy's winning-rule moves
	CMid  int // equivalent-count given to other neutral pseudo-legal moves
	CLow  int // equivalent-count given to flagged-bad moves

	// LadderWeight scales CHigh down (multiplicatively, as a percentage)
	// for a capture/defend move whose outcome a static ladder read shows
	// actually fails, so a move that merely looks urgent doesn't get the
	// same confidence as one verified to work.
	LadderWeight int // percent, 0..100
}

// DefaultConstants mirrors traveller42-michi-go's PRIOR_CAPTURE_ONE (15) /
// PRIOR_PAT3 (10) / PRIOR_SELFATARI (10) magnitudes (capture priors
// strongest, pattern and flagged-bad priors sharing the same weaker
// magnitude), translated into the count-based scheme Fuego's prior
// knowledge uses.
var DefaultConstants = Constants{
	CHigh:        15,
	CMid:         10,
	CLow:         10,
	LadderWeight: 50,
}

// Seed is one (value, count) prior for a candidate move.
type Seed struct {
	Move  board.Point
	Value float64
	Count int
}

// Seeder produces priors for a freshly expanded node's candidate moves.
type Seeder struct {
	mode   Mode
	k      Constants
	policy *policy.Policy
}

// New returns a Seeder in mode, using k for its magnitudes and policy for
// the dry-run rule evaluation ModeDefault needs. policy may be nil when
// mode is ModeNone or ModeEven.
func New(mode Mode, k Constants, p *policy.Policy) *Seeder {
	return &Seeder{mode: mode, k: k, policy: p}
}

// Seed returns one Seed per point in candidates, a caller-supplied set of
// legal moves at the scratch board b's current position (the search core
// computes this set so the seeder never has to special-case the root
// filter).
func (s *Seeder) Seed(b *board.Board, candidates []board.Point) []Seed {
	switch s.mode {
	case ModeNone:
		return s.seedNone(candidates)
	case ModeEven:
		return s.seedEven(candidates)
	default:
		return s.seedDefault(b, candidates)
	}
}

func (s *Seeder) seedNone(candidates []board.Point) []Seed {
	out := make([]Seed, len(candidates))
	for i, m := range candidates {
		out[i] = Seed{Move: m, Value: 0.5, Count: 0}
	}
	return out
}

func (s *Seeder) seedEven(candidates []board.Point) []Seed {
	out := make([]Seed, len(candidates))
	for i, m := range candidates {
		out[i] = Seed{Move: m, Value: 0.5, Count: s.k.CMid}
	}
	return out
}

func (s *Seeder) seedDefault(b *board.Board, candidates []board.Point) []Seed {
	color := b.ToPlay()
	best := s.equivalentBestMoves(b, color)

	out := make([]Seed, 0, len(candidates))
	if len(best) == 0 {
		// The winning rule was random/pass: no move stands out, so every
		// candidate gets a neutral, uncommitted prior (spec.md §4.5's
		// "every move tied in the highest-priority non-empty rule"
		// degenerates to nothing here).
		for _, m := range candidates {
			out = append(out, Seed{Move: m, Value: 0.5, Count: 0})
		}
		return out
	}

	bestSet := make(map[board.Point]bool, len(best))
	for _, m := range best {
		bestSet[m] = true
	}

	for _, m := range candidates {
		switch {
		case m == board.PASS:
			out = append(out, Seed{Move: m, Value: 0, Count: s.k.CLow})
		case bestSet[m]:
			out = append(out, Seed{Move: m, Value: 1, Count: s.weightedHigh(b, m, color)})
		case isBadMove(b, m, color):
			out = append(out, Seed{Move: m, Value: 0, Count: s.k.CLow})
		default:
			out = append(out, Seed{Move: m, Value: 0.5, Count: s.k.CMid})
		}
	}
	return out
}

// weightedHigh applies the ladder-escape down-weight: a move whose block,
// after playing it, is still capturable via a static ladder read is less
// trustworthy than one verified safe, so its equivalent count shrinks
// proportionally to LadderWeight.
func (s *Seeder) weightedHigh(b *board.Board, move board.Point, color board.Color) int {
	trial := b.Clone()
	if res, _ := trial.PlayIfLegal(move); res != board.ResultOK {
		return s.k.CHigh
	}
	anchor := trial.Anchor(move)
	if len(trial.BlockLiberties(anchor)) != 2 {
		return s.k.CHigh
	}
	if trial.LadderCapture(anchor, board.Opposite(color), 40) {
		return s.k.CHigh * s.k.LadderWeight / 100
	}
	return s.k.CHigh
}

// equivalentBestMoves runs the policy once on a scratch clone (matching
// Fuego's StartPlayout/GenerateMove/EndPlayout bracket, here just a
// Clone/discard) and, unless the winning rule was random or pass, collects
// every pseudo-legal move that the same rule would also have accepted —
// the policy's notion of "tied" moves (spec.md §4.4's
// "Equivalent-best-moves").
func (s *Seeder) equivalentBestMoves(b *board.Board, color board.Color) []board.Point {
	if s.policy == nil {
		return nil
	}
	scratch := b.Clone()
	chosen := s.policy.GenerateMove(scratch)
	if chosen.Source == policy.SourceRandom || chosen.Source == policy.SourcePass {
		return nil
	}
	return s.policy.EquivalentMoves(scratch, chosen.Source)
}

// isBadMove flags self-atari fills and own-eye fills, the two move
// classes spec.md §4.5 singles out for the penalizing prior.
func isBadMove(b *board.Board, move board.Point, color board.Color) bool {
	if move == board.PASS {
		return false
	}
	if b.IsEye(move) == color {
		return true
	}
	trial := b.Clone()
	res, captured := trial.PlayIfLegal(move)
	if res != board.ResultOK || captured > 0 {
		return false
	}
	return trial.InAtari(trial.LastMove())
}
