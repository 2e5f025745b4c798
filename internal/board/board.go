// Package board implements the board adapter consumed by the search core
// (spec.md §4.1, component C1): a padded-border point grid with simple
// Chinese-area rules, floodfill-based capture/liberty/score routines, and
// positional/situational superko via internal/zobrist. The group-finding
// approach (flood fill on demand rather than incrementally maintained
// union-find groups) is carried over from traveller42-michi-go's
// string-board implementation, rewritten over a byte slice with an
// explicit border ring instead of string slicing and regular expressions.
package board

import (
	"fmt"

	"github.com/kref/gouct/internal/zobrist"
)

// Point is a board coordinate: a row-major index into the padded grid.
// PASS is the single distinguished non-coordinate move.
type Point int

// PASS is the distinguished pass move.
const PASS Point = -1

// Color is a stone color, or Empty/Border for the other grid states.
type Color = zobrist.Color

const (
	Empty  = zobrist.Empty
	Black  = zobrist.Color(zobrist.Black)
	White  = zobrist.Color(zobrist.White)
	Border Color = 3
)

// KoRule selects how repetition is rejected.
type KoRule int

const (
	// SimpleKo forbids only the immediately preceding board position
	// (the classic "one move ko ban").
	SimpleKo KoRule = iota
	// PositionalSuperko forbids recreating any earlier board position,
	// regardless of whose turn it was.
	PositionalSuperko
	// SituationalSuperko is accepted as a distinct configuration value for
	// future refinement but currently behaves like PositionalSuperko: the
	// Zobrist hash tracked by internal/zobrist is board-only (see
	// DESIGN.md), so the two rules are not yet distinguished.
	SituationalSuperko
)

// Board is a mutable Go position: the read/write surface consumed by the
// search core and playout policy. Every Board owns its own padded grid, so
// per-worker scratch boards are produced with Clone and mutated
// independently (spec.md §3, "Search state (per worker)").
type Board struct {
	size   int
	stride int // size + 2, includes one border cell on each side
	cells  []Color

	toPlay  Color
	cap     [2]int // stones captured BY black (index 0) and white (index 1)
	ko      Point
	last    Point
	last2   Point
	passes  int
	moveNum int
	komi    float64
	rule    KoRule

	hash    uint64
	zobrist *zobrist.Table
	history *zobrist.History

	undoStack []snapshot
}

type snapshot struct {
	cells          []Color
	toPlay         Color
	cap            [2]int
	ko, last, last2 Point
	passes, moveNum int
	hash            uint64
}

// New creates an empty board of the given size (9..19) with the given komi.
func New(size int, komi float64) *Board {
	b := &Board{
		size:    size,
		stride:  size + 2,
		toPlay:  Black,
		ko:      PASS,
		last:    PASS,
		last2:   PASS,
		komi:    komi,
		rule:    PositionalSuperko,
		zobrist: zobrist.GetTable(size),
		history: zobrist.NewHistory(),
	}
	b.cells = make([]Color, b.stride*b.stride)
	for i := range b.cells {
		b.cells[i] = Empty
	}
	for i := 0; i < b.stride; i++ {
		b.cells[i] = Border
		b.cells[b.stride*(b.stride-1)+i] = Border
		b.cells[i*b.stride] = Border
		b.cells[i*b.stride+b.stride-1] = Border
	}
	return b
}

// Clone returns a deep copy sharing no mutable state with b, for per-worker
// scratch boards and subtree-reuse board cloning.
func (b *Board) Clone() *Board {
	out := *b
	out.cells = append([]Color(nil), b.cells...)
	out.history = zobrist.NewHistory()
	for _, h := range b.history.Snapshot() {
		out.history.Push(h)
	}
	out.undoStack = nil
	return &out
}

// Size returns the board edge length N.
func (b *Board) Size() int { return b.size }

// Komi returns the komi compensation for White.
func (b *Board) Komi() float64 { return b.komi }

// SetKomi updates the komi compensation used by scoring; callers
// changing komi mid-game (GTP's `komi` command) are responsible for
// deciding whether that is sound for their protocol.
func (b *Board) SetKomi(komi float64) { b.komi = komi }

// SetKoRule configures the repetition rule used by PlayIfLegal.
func (b *Board) SetKoRule(r KoRule) { b.rule = r }

// ToPlay returns the color to move.
func (b *Board) ToPlay() Color { return b.toPlay }

// LastMove and SecondLastMove return the previous two moves (PASS for none).
func (b *Board) LastMove() Point       { return b.last }
func (b *Board) SecondLastMove() Point { return b.last2 }

// NumPasses returns the number of consecutive passes just played.
func (b *Board) NumPasses() int { return b.passes }

// MoveNum returns how many plies (including passes) have been played.
func (b *Board) MoveNum() int { return b.moveNum }

// Captures returns the number of stones captured by Black and by White.
func (b *Board) Captures() (black, white int) { return b.cap[0], b.cap[1] }

// Hash returns the current Zobrist position hash.
func (b *Board) Hash() uint64 { return b.hash }

// Point converts (row, col), both 0-indexed, into a Point.
func (b *Board) Point(row, col int) Point {
	return Point((row+1)*b.stride + (col + 1))
}

// RowCol converts a Point back into (row, col), both 0-indexed.
func (b *Board) RowCol(p Point) (row, col int) {
	return int(p)/b.stride - 1, int(p)%b.stride - 1
}

// IsBorder reports whether p is off the playable grid.
func (b *Board) IsBorder(p Point) bool {
	return p == PASS || b.cells[p] == Border
}

// IsEmpty reports whether p is empty and on-board.
func (b *Board) IsEmpty(p Point) bool {
	return !b.IsBorder(p) && b.cells[p] == Empty
}

// GetColor returns the stone color at p (Empty/Border included).
func (b *Board) GetColor(p Point) Color {
	if p == PASS {
		return Empty
	}
	return b.cells[p]
}

// Opposite returns the other player's color.
func Opposite(c Color) Color {
	if c == Black {
		return White
	}
	return Black
}

// Neighbors returns the four orthogonal neighbors of p, in a fixed order.
func (b *Board) Neighbors(p Point) [4]Point {
	return [4]Point{p - 1, p + 1, p - Point(b.stride), p + Point(b.stride)}
}

// DiagNeighbors returns the four diagonal neighbors of p.
func (b *Board) DiagNeighbors(p Point) [4]Point {
	s := Point(b.stride)
	return [4]Point{p - s - 1, p - s + 1, p + s - 1, p + s + 1}
}

// HasEmptyNeighbors reports whether any orthogonal neighbor of p is empty.
func (b *Board) HasEmptyNeighbors(p Point) bool {
	for _, d := range b.Neighbors(p) {
		if b.IsEmpty(d) {
			return true
		}
	}
	return false
}

// AllPoints returns every on-board point, row-major.
func (b *Board) AllPoints() []Point {
	pts := make([]Point, 0, b.size*b.size)
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			pts = append(pts, b.Point(row, col))
		}
	}
	return pts
}

func (b *Board) pushSnapshot() {
	b.undoStack = append(b.undoStack, snapshot{
		cells:   append([]Color(nil), b.cells...),
		toPlay:  b.toPlay,
		cap:     b.cap,
		ko:      b.ko,
		last:    b.last,
		last2:   b.last2,
		passes:  b.passes,
		moveNum: b.moveNum,
		hash:    b.hash,
	})
}

// Undo reverts the most recent Play/Pass. It panics if there is nothing to
// undo, which would indicate a caller bug (spec.md §9: scoped state
// restoration is the caller's responsibility, not a hidden stack trick).
func (b *Board) Undo() {
	n := len(b.undoStack)
	if n == 0 {
		panic("board: Undo called with empty history")
	}
	s := b.undoStack[n-1]
	b.undoStack = b.undoStack[:n-1]
	b.cells = s.cells
	b.toPlay = s.toPlay
	b.cap = s.cap
	b.ko = s.ko
	b.last = s.last
	b.last2 = s.last2
	b.passes = s.passes
	b.moveNum = s.moveNum
	b.hash = s.hash
	b.history.Pop()
}

// Pass plays a pass for the side to move.
func (b *Board) Pass() {
	b.pushSnapshot()
	b.last2 = b.last
	b.last = PASS
	b.ko = PASS
	b.passes++
	b.moveNum++
	b.toPlay = Opposite(b.toPlay)
	b.history.Push(b.hash)
}

// PlayResult reports why a move was (or was not) played.
type PlayResult int

const (
	ResultOK PlayResult = iota
	ResultSuicide
	ResultKo
	ResultOccupied
	ResultOffBoard
)

func (r PlayResult) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultSuicide:
		return "suicide"
	case ResultKo:
		return "ko"
	case ResultOccupied:
		return "occupied"
	case ResultOffBoard:
		return "off-board"
	}
	return fmt.Sprintf("PlayResult(%d)", int(r))
}

// PlayIfLegal attempts to play move for the side to move, applying the
// configured ko rule and rejecting suicide. On success it mutates the
// board and returns (ResultOK, capturedCount). On failure the board is
// left unchanged.
func (b *Board) PlayIfLegal(move Point) (PlayResult, int) {
	if move == PASS {
		b.Pass()
		return ResultOK, 0
	}
	if b.IsBorder(move) {
		return ResultOffBoard, 0
	}
	if !b.IsEmpty(move) {
		return ResultOccupied, 0
	}
	if move == b.ko {
		return ResultKo, 0
	}

	color := b.toPlay
	b.pushSnapshot()
	captured, newKo, ok := b.place(move, color)
	if !ok {
		b.undoStack = b.undoStack[:len(b.undoStack)-1]
		return ResultSuicide, 0
	}

	if b.rule != SimpleKo && b.history.Contains(b.hash) {
		// Positional/situational superko: revert to the pre-move snapshot.
		s := b.undoStack[len(b.undoStack)-1]
		b.undoStack = b.undoStack[:len(b.undoStack)-1]
		b.cells = s.cells
		b.toPlay = s.toPlay
		b.cap = s.cap
		b.ko = s.ko
		b.last = s.last
		b.last2 = s.last2
		b.passes = s.passes
		b.moveNum = s.moveNum
		b.hash = s.hash
		return ResultKo, 0
	}

	b.last2 = b.last
	b.last = move
	b.ko = newKo
	b.passes = 0
	b.moveNum++
	b.cap[colorIndex(color)] += captured
	b.toPlay = Opposite(color)
	b.history.Push(b.hash)
	return ResultOK, captured
}

// Play is PlayIfLegal but panics on illegality; it is used by callers
// (e.g. GTP `play`) that have already validated full legality at the root.
func (b *Board) Play(move Point) int {
	res, captured := b.PlayIfLegal(move)
	if res != ResultOK {
		panic("board: Play of illegal move " + res.String())
	}
	return captured
}

// PseudoLegal reports whether move is legal ignoring full superko history
// (only suicide and the single-move ko ban are checked), matching spec.md
// §4.1's "sufficient for simulations" contract.
func (b *Board) PseudoLegal(move Point) bool {
	if move == PASS {
		return true
	}
	if b.IsBorder(move) || !b.IsEmpty(move) || move == b.ko {
		return false
	}
	return !b.wouldBeSuicide(move, b.toPlay)
}

func colorIndex(c Color) int {
	if c == White {
		return 1
	}
	return 0
}

// place performs the actual stone placement, capture detection, and ko
// bookkeeping. It returns (capturedCount, newKoPoint, legal).
func (b *Board) place(move Point, color Color) (int, Point, bool) {
	enemy := Opposite(color)
	b.cells[move] = color
	b.hash ^= b.zobrist.Stone(int(move), color)

	wasEye := b.isEyeish(move, enemy) == enemy

	captured := 0
	var singleCapturePoint Point = PASS
	singleCaptureCount := 0
	var capturedGroups [][]Point

	seen := make(map[Point]bool)
	for _, d := range b.Neighbors(move) {
		if b.GetColor(d) != enemy || seen[d] {
			continue
		}
		stones := b.blockStones(d)
		for _, s := range stones {
			seen[s] = true
		}
		if b.blockLibertyCount(stones) == 0 {
			capturedGroups = append(capturedGroups, stones)
			captured += len(stones)
			if len(stones) == 1 {
				singleCapturePoint = stones[0]
				singleCaptureCount++
			}
		}
	}
	for _, stones := range capturedGroups {
		for _, s := range stones {
			b.cells[s] = Empty
			b.hash ^= b.zobrist.Stone(int(s), enemy)
		}
	}

	// Suicide check: after resolving captures, our own group must still
	// have a liberty.
	ownStones := b.blockStones(move)
	if b.blockLibertyCount(ownStones) == 0 {
		// revert
		b.cells[move] = Empty
		b.hash ^= b.zobrist.Stone(int(move), color)
		for _, stones := range capturedGroups {
			for _, s := range stones {
				b.cells[s] = enemy
				b.hash ^= b.zobrist.Stone(int(s), enemy)
			}
		}
		return 0, PASS, false
	}

	newKo := PASS
	if wasEye && singleCaptureCount == 1 && captured == 1 {
		newKo = singleCapturePoint
	}

	return captured, newKo, true
}

func (b *Board) wouldBeSuicide(move Point, color Color) bool {
	enemy := Opposite(color)
	b.cells[move] = color
	defer func() { b.cells[move] = Empty }()

	for _, d := range b.Neighbors(move) {
		if b.GetColor(d) != enemy {
			continue
		}
		stones := b.blockStones(d)
		if b.blockLibertyCount(stones) == 0 {
			return false // captures something, so not suicide
		}
	}
	stones := b.blockStones(move)
	return b.blockLibertyCount(stones) == 0
}
