package policy

import "github.com/kref/gouct/internal/board"

// pattern3 is a 3x3 playout pattern, read top-to-bottom, left-to-right,
// with the candidate move at the center (always implicitly empty, so the
// center cell is never encoded). Symbols, ported verbatim from
// traveller42-michi-go's pat3src table:
//
//	X  mover's own stone
//	O  opponent's stone
//	.  empty point
//	?  anything, including off-board
//	x  anything except the mover's stone
//	o  anything except the opponent's stone
//	(space) off-board (board edge), used by the side/edge patterns
//
// Each pattern is tried in all 4 rotations and their mirror (8 symmetries
// total), same as the source cascade.
type pattern3 [3]string

var pat3Table = []pattern3{
	{"XOX", "...", "???"}, // hane - enclosing hane
	{"XO.", "...", "?.?"}, // hane - non-cutting hane
	{"XO?", "X..", "x.?"}, // hane - magari
	{".O.", "X..", "..."}, // diagonal attachment / katatsuke
	{"XO?", "O.o", "?o?"}, // cut1 - unprotected cut
	{"XO?", "O.X", "???"}, // cut1 - peeped cut
	{"?X?", "O.O", "ooo"}, // cut2 - de
	{"OX?", "o.O", "???"}, // cut keima
	{"X.?", "O.?", "   "}, // side - chase
	{"OX?", "X.O", "   "}, // side - block side cut
	{"?X?", "x.O", "   "}, // side - block side connection
	{"?XO", "x.x", "   "}, // side - sagari
	{"?OX", "X.O", "   "}, // side - cut
}

// matchesAnyPattern3 reports whether any table pattern, in any of its 8
// symmetries, matches the 3x3 neighborhood around move for the given
// mover color.
func matchesAnyPattern3(b *board.Board, move board.Point, mover board.Color) bool {
	for _, pat := range pat3Table {
		for _, sym := range symmetries(pat) {
			if matchOne(b, move, mover, sym) {
				return true
			}
		}
	}
	return false
}

// matchOne checks a single (already-transformed) 3x3 pattern against the
// board neighborhood of move.
func matchOne(b *board.Board, move board.Point, mover board.Color, pat pattern3) bool {
	row, col := b.RowCol(move)
	for dr := -1; dr <= 1; dr++ {
		line := pat[dr+1]
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue // center is the (empty) candidate move itself
			}
			sym := rune(line[dc+1])
			if !matchSymbol(b, row+dr, col+dc, mover, sym) {
				return false
			}
		}
	}
	return true
}

func matchSymbol(b *board.Board, row, col int, mover board.Color, sym rune) bool {
	if sym == '?' {
		return true
	}
	onBoard := row >= 0 && row < b.Size() && col >= 0 && col < b.Size()
	var p board.Point
	var off bool
	if onBoard {
		p = b.Point(row, col)
		off = b.IsBorder(p)
	} else {
		off = true
	}
	opp := board.Opposite(mover)

	switch sym {
	case ' ':
		return off
	case '.':
		return !off && b.IsEmpty(p)
	case 'X':
		return !off && b.GetColor(p) == mover
	case 'O':
		return !off && b.GetColor(p) == opp
	case 'x':
		return off || b.GetColor(p) != mover
	case 'o':
		return off || b.GetColor(p) != opp
	}
	return false
}

// symmetries returns the 8 rotations/reflections of a 3x3 pattern
// (including the identity), deduplicated is not necessary: redundant
// checks are cheap and harmless.
func symmetries(pat pattern3) []pattern3 {
	grid := toGrid(pat)
	out := make([]pattern3, 0, 8)
	cur := grid
	for i := 0; i < 4; i++ {
		out = append(out, fromGrid(cur))
		out = append(out, fromGrid(mirrorGrid(cur)))
		cur = rotateGrid(cur)
	}
	return out
}

func toGrid(pat pattern3) [3][3]rune {
	var g [3][3]rune
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			g[r][c] = rune(pat[r][c])
		}
	}
	return g
}

func fromGrid(g [3][3]rune) pattern3 {
	var pat pattern3
	for r := 0; r < 3; r++ {
		pat[r] = string(g[r][:])
	}
	return pat
}

func rotateGrid(g [3][3]rune) [3][3]rune {
	var out [3][3]rune
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[c][2-r] = g[r][c]
		}
	}
	return out
}

func mirrorGrid(g [3][3]rune) [3][3]rune {
	var out [3][3]rune
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][2-c] = g[r][c]
		}
	}
	return out
}
