// Package policy implements the playout move-generation policy (spec.md
// §4.4, component C4): the ordered rule cascade a random playout follows
// at every ply, plus the self-atari correction pass the selection/expansion
// side of the search re-uses for prior knowledge (spec.md §4.5).
//
// The cascade order (atari defense/capture, pattern, generic capture,
// pseudo-random fallback, pass) mirrors Fuego's
// GoUctDefaultPlayoutPolicy::GenerateMove case list
// (ATARI_CAPTURE/ATARI_DEFEND/PATTERN/CAPTURE/RANDOM/PASS in
// original_source/gouct/GoUctDefaultPlayoutPolicy.cpp); the 3x3 pattern
// table itself, and the flood-fill board primitives it calls into, are
// ported from traveller42-michi-go's pat3src and is_eye/is_eyeish.
package policy

import (
	"math/rand"

	"github.com/kref/gouct/internal/board"
)

// Source is the rule that produced a generated move, exposed so callers
// (prior knowledge, telemetry) can weight or log moves by provenance.
type Source int

const (
	SourceAtariCapture Source = iota
	SourceAtariDefend
	SourcePattern
	SourceCapture
	SourceRandom
	SourcePass
)

func (s Source) String() string {
	switch s {
	case SourceAtariCapture:
		return "atari-capture"
	case SourceAtariDefend:
		return "atari-defend"
	case SourcePattern:
		return "pattern"
	case SourceCapture:
		return "capture"
	case SourceRandom:
		return "random"
	case SourcePass:
		return "pass"
	}
	return "unknown"
}

// Move is a generated playout move together with the rule that produced
// it.
type Move struct {
	Point  board.Point
	Source Source
}

// Policy generates one playout ply at a time. It is not safe for
// concurrent use; callers run one Policy per search worker, matching the
// one-board-per-worker scratch state in spec.md §3.
type Policy struct {
	rng         *rand.Rand
	ladderDepth int
}

// New returns a Policy driven by rng, reading at most ladderDepth plies
// deep when checking whether an atari escape survives a ladder.
func New(rng *rand.Rand, ladderDepth int) *Policy {
	if ladderDepth <= 0 {
		ladderDepth = 40
	}
	return &Policy{rng: rng, ladderDepth: ladderDepth}
}

// GenerateMove returns the next playout move for b.ToPlay(), following the
// ordered cascade. It never returns an illegal move; the final fallback is
// always PASS. The returned move is not yet played.
func (p *Policy) GenerateMove(b *board.Board) Move {
	color := b.ToPlay()

	if m, ok := p.atariCapture(b, color); ok {
		return Move{m, SourceAtariCapture}
	}
	if m, ok := p.atariDefend(b, color); ok {
		return Move{m, SourceAtariDefend}
	}
	if m, ok := p.patternMove(b, color); ok {
		return Move{m, SourcePattern}
	}
	if m, ok := p.captureMove(b, color); ok {
		return Move{m, SourceCapture}
	}
	if m, ok := p.randomMove(b, color); ok {
		return Move{m, SourceRandom}
	}
	return Move{board.PASS, SourcePass}
}

// atariCapture looks for an opponent block in atari adjacent to the last
// move and captures it, the highest-priority rule (Fuego's
// GOUCT_ATARI_CAPTURE): ignoring an atari capture almost always loses the
// exchanged stones for nothing.
func (p *Policy) atariCapture(b *board.Board, color board.Color) (board.Point, bool) {
	last := b.LastMove()
	if last == board.PASS {
		return 0, false
	}
	enemy := board.Opposite(color)
	anchors := b.NeighborBlocks(last, enemy, 1)
	p.shufflePoints(anchors)
	for _, a := range anchors {
		libs := b.BlockLiberties(a)
		if len(libs) == 1 && b.PseudoLegal(libs[0]) {
			return libs[0], true
		}
	}
	return 0, false
}

// atariDefend extends the mover's own block that the opponent just put in
// atari, but only when the extension is not itself a losing ladder
// (Fuego's GOUCT_ATARI_DEFEND, using a static ladder read rather than
// playing blindly into a capture race).
func (p *Policy) atariDefend(b *board.Board, color board.Color) (board.Point, bool) {
	last := b.LastMove()
	if last == board.PASS {
		return 0, false
	}
	anchors := b.NeighborBlocks(last, color, 1)
	p.shufflePoints(anchors)
	for _, a := range anchors {
		libs := b.BlockLiberties(a)
		if len(libs) != 1 || !b.PseudoLegal(libs[0]) {
			continue
		}
		if p.escapeWalksIntoLadder(b, libs[0], color) {
			continue // extending just walks into a ladder, skip
		}
		return libs[0], true
	}
	return 0, false
}

// escapeWalksIntoLadder plays the escape move on a scratch clone and asks
// whether the resulting block is still capturable by a static ladder read.
// LadderCapture assumes a block with exactly two liberties (score.go), which
// only holds after the escape is actually played — calling it on the
// pre-escape one-liberty block just re-checks the move's own legality and
// always says "captured", matching prior.weightedHigh's same clone-first
// precondition check.
func (p *Policy) escapeWalksIntoLadder(b *board.Board, escape board.Point, color board.Color) bool {
	trial := b.Clone()
	if res, _ := trial.PlayIfLegal(escape); res != board.ResultOK {
		return true
	}
	newAnchor := trial.Anchor(escape)
	if len(trial.BlockLiberties(newAnchor)) != 2 {
		return false
	}
	return trial.LadderCapture(newAnchor, board.Opposite(color), p.ladderDepth)
}

// patternMove tries every 3x3 pattern in table order around the last move,
// matching traveller42-michi-go's pat3src cascade: patterns are only
// evaluated in the immediate neighborhood of the opponent's last move
// (gridcular distance <= 1), since that is where a reply is almost always
// played in a real playout.
func (p *Policy) patternMove(b *board.Board, color board.Color) (board.Point, bool) {
	last := b.LastMove()
	if last == board.PASS {
		return 0, false
	}
	candidates := candidateNeighborhood(b, last)
	p.shufflePoints(candidates)
	for _, c := range candidates {
		if !b.PseudoLegal(c) || isSelfAtari(b, c, color) {
			continue
		}
		if matchesAnyPattern3(b, c, color) {
			return c, true
		}
	}
	return 0, false
}

// captureMove plays any move that captures an opponent block anywhere on
// the board, not just adjacent to the last move (Fuego's GOUCT_CAPTURE,
// the generic fallback below pattern matching).
func (p *Policy) captureMove(b *board.Board, color board.Color) (board.Point, bool) {
	enemy := board.Opposite(color)
	pts := append([]board.Point(nil), b.AllPoints()...)
	p.shufflePoints(pts)
	for _, pt := range pts {
		c := b.GetColor(pt)
		if c != enemy {
			continue
		}
		if !b.InAtari(pt) {
			continue
		}
		libs := b.BlockLiberties(pt)
		if len(libs) == 1 && b.PseudoLegal(libs[0]) {
			return libs[0], true
		}
	}
	return 0, false
}

// randomMove picks a uniformly random pseudo-legal point that is not one
// of the mover's own true eyes. A self-atari choice is replaced via
// CorrectSelfAtari when an alternative exists and is otherwise played as
// chosen. Filling a true eye is never played by a playout (it can only
// ever lose a liberty for no gain).
func (p *Policy) randomMove(b *board.Board, color board.Color) (board.Point, bool) {
	pts := append([]board.Point(nil), b.AllPoints()...)
	p.shufflePoints(pts)
	for _, pt := range pts {
		if !b.IsEmpty(pt) || !b.PseudoLegal(pt) {
			continue
		}
		if b.IsEye(pt) == color {
			continue
		}
		if fixed, ok := p.CorrectSelfAtari(b, pt, color); ok {
			return fixed, true
		}
		return pt, true
	}
	return 0, false
}

// CorrectSelfAtari implements spec.md §4.4's self-atari correction: if
// playing move would leave the mover's own resulting block in atari, it
// looks for a liberty of that prospective block which escapes the atari
// (typically by capturing or extending into more space) and plays that
// instead. It is idempotent — re-applying it to its own output is a no-op
// — and deterministic given the same board and move.
func (p *Policy) CorrectSelfAtari(b *board.Board, move board.Point, color board.Color) (board.Point, bool) {
	if !isSelfAtari(b, move, color) {
		return move, false
	}
	trial := b.Clone()
	if res, _ := trial.PlayIfLegal(move); res != board.ResultOK {
		return move, false
	}
	libs := trial.BlockLiberties(trial.LastMove())
	for _, alt := range libs {
		if alt == move || !b.PseudoLegal(alt) {
			continue
		}
		if !isSelfAtari(b, alt, color) {
			return alt, true
		}
	}
	return move, false
}

// isSelfAtari reports whether playing move for color would leave the
// resulting block with exactly one liberty, without requiring the move
// itself capture anything first.
func isSelfAtari(b *board.Board, move board.Point, color board.Color) bool {
	trial := b.Clone()
	if res, captured := trial.PlayIfLegal(move); res != board.ResultOK || captured > 0 {
		return false
	}
	return trial.InAtari(trial.LastMove())
}

// candidateNeighborhood returns the eight neighbors and diagonals of last,
// deduplicated, matching the single-distance gridcular window pat3src
// patterns are defined over.
func candidateNeighborhood(b *board.Board, last board.Point) []board.Point {
	seen := make(map[board.Point]bool)
	var out []board.Point
	add := func(p board.Point) {
		if !b.IsBorder(p) && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, d := range b.Neighbors(last) {
		add(d)
	}
	for _, d := range b.DiagNeighbors(last) {
		add(d)
	}
	return out
}

func (p *Policy) shufflePoints(pts []board.Point) {
	p.rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })
}

// EquivalentMoves returns every pseudo-legal move the given rule would
// also have accepted at b's current position, for the prior-knowledge
// seeder's "equivalent-best-moves" set (spec.md §4.4). It is a pure query
// re-deriving the rule's full candidate set rather than the single
// shuffled pick GenerateMove returns, so it is safe to call without
// mutating b.
func (p *Policy) EquivalentMoves(b *board.Board, source Source) []board.Point {
	color := b.ToPlay()
	switch source {
	case SourceAtariCapture:
		return p.allAtariCaptures(b, color)
	case SourceAtariDefend:
		return p.allAtariDefends(b, color)
	case SourcePattern:
		return p.allPatternMoves(b, color)
	case SourceCapture:
		return p.allCaptureMoves(b, color)
	}
	return nil
}

func (p *Policy) allAtariCaptures(b *board.Board, color board.Color) []board.Point {
	last := b.LastMove()
	if last == board.PASS {
		return nil
	}
	enemy := board.Opposite(color)
	var out []board.Point
	for _, a := range b.NeighborBlocks(last, enemy, 1) {
		libs := b.BlockLiberties(a)
		if len(libs) == 1 && b.PseudoLegal(libs[0]) {
			out = append(out, libs[0])
		}
	}
	return out
}

func (p *Policy) allAtariDefends(b *board.Board, color board.Color) []board.Point {
	last := b.LastMove()
	if last == board.PASS {
		return nil
	}
	var out []board.Point
	for _, a := range b.NeighborBlocks(last, color, 1) {
		libs := b.BlockLiberties(a)
		if len(libs) != 1 || !b.PseudoLegal(libs[0]) {
			continue
		}
		if p.escapeWalksIntoLadder(b, libs[0], color) {
			continue
		}
		out = append(out, libs[0])
	}
	return out
}

func (p *Policy) allPatternMoves(b *board.Board, color board.Color) []board.Point {
	last := b.LastMove()
	if last == board.PASS {
		return nil
	}
	var out []board.Point
	for _, c := range candidateNeighborhood(b, last) {
		if !b.PseudoLegal(c) || isSelfAtari(b, c, color) {
			continue
		}
		if matchesAnyPattern3(b, c, color) {
			out = append(out, c)
		}
	}
	return out
}

func (p *Policy) allCaptureMoves(b *board.Board, color board.Color) []board.Point {
	enemy := board.Opposite(color)
	var out []board.Point
	for _, pt := range b.AllPoints() {
		if b.GetColor(pt) != enemy || !b.InAtari(pt) {
			continue
		}
		libs := b.BlockLiberties(pt)
		if len(libs) == 1 && b.PseudoLegal(libs[0]) {
			out = append(out, libs[0])
		}
	}
	return out
}
