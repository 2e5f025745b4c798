package uct

import "github.com/kref/gouct/internal/board"

// legalCandidates lists the pseudo-legal moves to offer a freshly
// expanded node: every empty point that is pseudo-legal and does not
// fill the mover's own true eye, plus PASS (spec.md §4.3's "generate
// candidate moves (legal moves on the scratch board, minus any
// caller-supplied filter at the root)"). filter, when non-nil, further
// restricts the set to its keys — the façade's root-move-filter hook
// (spec.md §4.7).
func legalCandidates(b *board.Board, filter map[board.Point]bool) []board.Point {
	color := b.ToPlay()
	out := make([]board.Point, 0, b.Size()*b.Size()+1)
	for _, p := range b.AllPoints() {
		if !b.IsEmpty(p) || !b.PseudoLegal(p) {
			continue
		}
		if b.IsEye(p) == color {
			continue
		}
		if filter != nil && !filter[p] {
			continue
		}
		out = append(out, p)
	}
	out = append(out, board.PASS)
	return out
}

// defaultMaxPlayoutMoves scales the playout length cap to board area,
// matching the rule of thumb traveller42-michi-go's main loop uses
// (several times the point count, since Go games rarely run much longer
// than that before scoring is decisive).
func defaultMaxPlayoutMoves(b *board.Board) int {
	return 3 * b.Size() * b.Size()
}
