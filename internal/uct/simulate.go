package uct

import (
	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/policy"
)

// ply records one simulation move for the RAVE AMAF pass.
type ply struct {
	move  board.Point
	color board.Color
}

// simulate drives the playout policy to completion: alternating
// GenerateMove/PlayIfLegal until two consecutive passes, the mercy rule
// decides the game early, or maxMoves plies have been played. It returns
// the final position's Black-perspective score converted to a [0,1]
// "probability" via a soft sigmoid-like squash (spec.md §4.6's
// "Bernoulli conversion with score-scaled bonus": a decisive margin
// counts for more than a one-point win, without the full value collapsing
// to a hard 0/1 that would throw away margin information RAVE could use),
// plus the list of moves played for AMAF bookkeeping.
func simulate(pol *policy.Policy, b *board.Board, cfg Config) (blackValue float64, moves []ply) {
	maxMoves := cfg.MaxPlayoutMoves
	if maxMoves <= 0 {
		maxMoves = defaultMaxPlayoutMoves(b)
	}
	mercy := cfg.MercyThreshold
	if mercy <= 0 {
		mercy = board.MercyThreshold
	}

	played := 0
	for played < maxMoves && b.NumPasses() < 2 {
		if decided, blackWins := b.MercyResult(mercy); decided {
			if blackWins {
				return 1, moves
			}
			return 0, moves
		}
		mv := pol.GenerateMove(b)
		color := b.ToPlay()
		res, _ := b.PlayIfLegal(mv.Point)
		if res != board.ResultOK {
			// The policy's own output is expected to always be legal;
			// fall back to a pass rather than stall the simulation if
			// something slipped through (e.g. a stale self-atari fix
			// against a since-changed board).
			b.Pass()
			moves = append(moves, ply{move: board.PASS, color: color})
			played++
			continue
		}
		moves = append(moves, ply{move: mv.Point, color: color})
		played++
	}

	score := b.AreaScore(nil) // from the side to move's perspective
	if b.ToPlay() == board.White {
		score = -score // now positive favors Black
	}
	area := float64(b.Size() * b.Size())
	return squash(score, area), moves
}

// squash maps a Black-perspective area-score margin into (0,1), centered
// at 0.5, saturating gently as the margin grows relative to board area.
func squash(margin, area float64) float64 {
	if area <= 0 {
		area = 1
	}
	x := margin / area
	// A cheap bounded odd function (rather than math.Tanh) so a 40-point
	// blowout doesn't saturate identically to a 4-point win.
	v := x / (1 + abs(x))
	return 0.5 + 0.5*v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
