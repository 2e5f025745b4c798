package sgf

import (
	"strconv"

	"github.com/kref/gouct/internal/board"
	"github.com/pkg/errors"
)

// sgfCoord encodes a 0-based coordinate as SGF's lowercase-letter axis
// (a=0, b=1, ... matching the classic SGF FF[4] point encoding).
func sgfCoord(v int) byte { return byte('a' + v) }

// PointToSGF renders a board point as an SGF coordinate pair, or the
// empty string for board.PASS (SGF represents a pass as an empty value).
func PointToSGF(b *board.Board, p board.Point) string {
	if p == board.PASS {
		return ""
	}
	row, col := b.RowCol(p)
	return string([]byte{sgfCoord(col), sgfCoord(row)})
}

// SGFToPoint parses an SGF coordinate pair back into a board point.
func SGFToPoint(b *board.Board, s string) (board.Point, error) {
	if s == "" {
		return board.PASS, nil
	}
	if len(s) != 2 {
		return board.PASS, errors.Errorf("sgf: malformed coordinate %q", s)
	}
	col := int(s[0] - 'a')
	row := int(s[1] - 'a')
	if col < 0 || row < 0 || col >= b.Size() || row >= b.Size() {
		return board.PASS, errors.Errorf("sgf: coordinate %q out of range for a %dx%d board", s, b.Size(), b.Size())
	}
	return b.Point(row, col), nil
}

// NewGame returns a single-tree collection with a root node carrying
// board size and komi, ready for AppendMove to extend.
func NewGame(size int, komi float64) *Collection {
	root := &Node{Properties: make(map[string][]string)}
	root.Set("GM", "1")
	root.Set("FF", "4")
	root.Set("SZ", strconv.Itoa(size))
	root.Set("KM", strconv.FormatFloat(komi, 'f', -1, 64))
	return &Collection{Trees: []*GameTree{{Nodes: []*Node{root}}}}
}

// AppendMove adds a move node (B[..] or W[..]) to the main line of
// tree's last game tree.
func AppendMove(col *Collection, b *board.Board, color board.Color, move board.Point) {
	tree := col.Trees[len(col.Trees)-1]
	key := "B"
	if color == board.White {
		key = "W"
	}
	n := &Node{Properties: make(map[string][]string)}
	n.Set(key, PointToSGF(b, move))
	tree.Nodes = append(tree.Nodes, n)
}

// Comment attaches a C[...] comment to the tree's most recently
// appended node.
func Comment(col *Collection, text string) {
	tree := col.Trees[len(col.Trees)-1]
	if len(tree.Nodes) == 0 {
		return
	}
	tree.Nodes[len(tree.Nodes)-1].Set("C", text)
}

// Replay constructs a board from the root node's SZ/KM properties, then
// walks the main line calling visit(b, color, move) for every B/W
// property in node order — letting the caller decide what "visiting" a
// move means (commit it with b.PlayIfLegal, or just record it) while
// always seeing the same board Replay itself returns.
func Replay(tree *GameTree, visit func(b *board.Board, color board.Color, move board.Point) error) (*board.Board, error) {
	if len(tree.Nodes) == 0 {
		return nil, errors.New("sgf: empty game tree")
	}
	root := tree.Nodes[0]
	size := 19
	if v, ok := root.Get("SZ"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, "sgf: parsing SZ")
		}
		size = n
	}
	komi := 7.5
	if v, ok := root.Get("KM"); ok {
		k, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrap(err, "sgf: parsing KM")
		}
		komi = k
	}
	b := board.New(size, komi)

	for _, n := range tree.Nodes {
		if v, ok := n.Get("B"); ok {
			p, err := SGFToPoint(b, v)
			if err != nil {
				return nil, err
			}
			if err := visit(b, board.Black, p); err != nil {
				return nil, err
			}
		}
		if v, ok := n.Get("W"); ok {
			p, err := SGFToPoint(b, v)
			if err != nil {
				return nil, err
			}
			if err := visit(b, board.White, p); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}
