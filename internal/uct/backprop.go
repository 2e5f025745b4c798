package uct

import (
	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/tree"
)

// step is one in-tree ply of an iteration: the node reached, and the
// color that was to move when it was chosen (i.e. the color the node's
// own Outcome/Rave statistics are measured from, per spec.md §3: "mean,
// count: online mean and visit count of the outcome from this node's
// perspective").
type step struct {
	node  *tree.Node
	color board.Color
}

// backpropagate updates count/mean on every node in path, then updates the
// RAVE accumulator of every sibling of a path node whose move was also
// played later in the same iteration by the same color (the AMAF window:
// spec.md's "every sibling of a visited node that matches a move played
// later in that iteration"). raveCheckSame controls double counting, not
// whether the update happens at all: when set, a sibling is credited at
// most once per path node even if its move recurs later in the same
// iteration (e.g. a ko recapture); when unset, it is credited once per
// recurrence, per spec.md's "optionally restricted to first occurrence to
// avoid double counting". root is the tree root, whose posCount is
// credited once per completed iteration (path nodes below it are credited
// via their own parent in path).
func backpropagate(tr *tree.Tree, root *tree.Node, rootColor board.Color, path []step, sim []ply, blackValue float64, raveCheckSame bool) {
	rootValue := blackValue
	if rootColor == board.White {
		rootValue = 1 - blackValue
	}
	root.Outcome.Add(rootValue)
	root.AddPosCount(1)

	if len(path) == 0 {
		return
	}

	// Flatten the rest of the game (path continuation + simulation) once,
	// newest-last, so each path position can look forward into it.
	tail := make([]ply, 0, len(path)+len(sim))
	for _, s := range path {
		tail = append(tail, ply{move: s.node.Move, color: s.color})
	}
	tail = append(tail, sim...)

	for i := len(path) - 1; i >= 0; i-- {
		node := path[i].node
		mover := path[i].color
		v := blackValue
		if mover == board.White {
			v = 1 - blackValue
		}
		node.Outcome.Add(v)

		if i > 0 {
			path[i-1].node.AddPosCount(1)
		}

		parent := root
		if i > 0 {
			parent = path[i-1].node
		}
		for _, sib := range tr.Children(parent) {
			occurrences := amafOccurrences(tail[i+1:], sib.Move, mover)
			if raveCheckSame {
				if occurrences > 0 {
					sib.Rave.Add(v)
				}
				continue
			}
			for n := 0; n < occurrences; n++ {
				sib.Rave.Add(v)
			}
		}
	}
}

// amafOccurrences counts how many times move was played by color later in
// the same iteration, for the AMAF/RAVE credit assigned to a sibling node.
func amafOccurrences(future []ply, move board.Point, color board.Color) int {
	n := 0
	for _, p := range future {
		if p.move == move && p.color == color {
			n++
		}
	}
	return n
}
