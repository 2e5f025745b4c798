package uct

import (
	"math"

	"github.com/kref/gouct/internal/tree"
)

// selectChild applies the UCT+RAVE blend (teacher's rave.go RAVE()
// function, generalized to read from internal/tree.Node and to use a
// configurable (w0, wFinal) schedule instead of the teacher's
// fixed-formula RaveDSilver). Unvisited children are scored with FPU
// rather than returned immediately, so first-play urgency actually
// competes against already-sampled siblings instead of short-circuiting
// selection (spec.md §3's "first-play urgency FPU" parameter).
func selectChild(children []*tree.Node, parentCount int64, cfg Config) *tree.Node {
	lnParent := math.Log(float64(max64(parentCount, 1)))
	var best *tree.Node
	bestScore := math.Inf(-1)
	for _, c := range children {
		count := c.Outcome.Count()
		var score float64
		if count == 0 {
			score = cfg.FPU + cfg.Bias*math.Sqrt(lnParent)
		} else {
			q := c.Outcome.Value()
			beta := raveBeta(count, c.Rave.Count(), cfg.RaveW0, cfg.RaveWFinal)
			rave := c.Rave.Value()
			score = (1-beta)*q + beta*rave + cfg.Bias*math.Sqrt(lnParent/float64(count))
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

// raveBeta computes the AMAF blend weight, adapted from the teacher's
// RaveDSilver schedule: beta is largest while the node has few visits of
// its own and decays toward wFinal as count grows, reflecting growing
// confidence in the node's own (non-AMAF) statistics.
func raveBeta(count, raveCount int64, w0, wFinal float64) float64 {
	if raveCount <= 0 {
		return 0
	}
	const b = 0.5
	const factor = 4 * b * b
	silver := float64(raveCount) / (float64(count+raveCount) + factor*float64(count*raveCount))
	return wFinal + (w0-wFinal)*silver
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
