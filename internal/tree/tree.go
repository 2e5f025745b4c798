package tree

import (
	"sync/atomic"
	"time"

	"github.com/kref/gouct/internal/board"
)

// Tree is the search tree: one root owned directly by the tree, plus K
// per-worker allocators (spec.md §3's "Tree" data model).
type Tree struct {
	root       Node
	allocators []*Allocator
	rrCursor   int32 // atomic round-robin cursor for ExtractSubtree targets
}

// NewTree builds a tree with numWorkers allocators, each sized to
// totalCapacity/numWorkers nodes (spec.md §3: "Total capacity is the
// configured tree size divided by K").
func NewTree(numWorkers, totalCapacity int) *Tree {
	if numWorkers < 1 {
		numWorkers = 1
	}
	per := totalCapacity / numWorkers
	t := &Tree{allocators: make([]*Allocator, numWorkers)}
	for i := range t.allocators {
		t.allocators[i] = NewAllocator(i, per)
	}
	return t
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return &t.root }

// NumAllocators returns K, the number of per-worker allocators.
func (t *Tree) NumAllocators() int { return len(t.allocators) }

// Allocator returns the i'th worker allocator.
func (t *Tree) Allocator(i int) *Allocator { return t.allocators[i] }

// ChildAt dereferences the i'th node in the contiguous run starting at ref.
func (t *Tree) ChildAt(ref Ref, i int32) *Node {
	a := t.allocators[ref.AllocatorIndex()]
	return a.At(ref.Offset() + i)
}

// Children returns every published child of node as a slice of pointers.
// Safe to call concurrently with another worker expanding a different
// node; if node is not yet expanded it returns nil.
func (t *Tree) Children(node *Node) []*Node {
	n := node.NuChildren()
	if n == 0 {
		return nil
	}
	ref := node.FirstChild()
	out := make([]*Node, n)
	for i := int32(0); i < n; i++ {
		out[i] = t.ChildAt(ref, i)
	}
	return out
}

// Clear resets the tree to a single empty root and empties every
// allocator, for a fresh search when subtree reuse is disabled or fails.
func (t *Tree) Clear() {
	t.root = Node{}
	for _, a := range t.allocators {
		a.Reset()
	}
}

// CreateChildren appends len(moves) freshly allocated children to
// allocator allocatorIdx and publishes them on parent, in the fixed order
// spec.md §4.3 requires: fill child data, then firstChild, then
// nuChildren. It returns false (no mutation at all) if the allocator has
// no room left.
func (t *Tree) CreateChildren(allocatorIdx int, parent *Node, moves []board.Point) (Ref, bool) {
	if len(moves) == 0 {
		return NoRef, true
	}
	a := t.allocators[allocatorIdx]
	start, ok := a.Bump(int32(len(moves)))
	if !ok {
		return NoRef, false
	}
	for i, mv := range moves {
		a.At(start + int32(i)).Move = mv
	}
	ref := newRef(allocatorIdx, start)
	parent.publish(ref, int32(len(moves)))
	return ref, true
}

// CreateChildrenSeeded is CreateChildren plus an (value, count) prior per
// move, applied before publication so no reader ever observes a
// just-created child with a seeded count missing (spec.md §4.5).
func (t *Tree) CreateChildrenSeeded(allocatorIdx int, parent *Node, moves []board.Point, values []float64, counts []int64) (Ref, bool) {
	if len(moves) == 0 {
		return NoRef, true
	}
	a := t.allocators[allocatorIdx]
	start, ok := a.Bump(int32(len(moves)))
	if !ok {
		return NoRef, false
	}
	for i, mv := range moves {
		node := a.At(start + int32(i))
		node.Move = mv
		if i < len(values) && i < len(counts) && counts[i] > 0 {
			node.Outcome.Seed(values[i], counts[i])
		}
	}
	ref := newRef(allocatorIdx, start)
	parent.publish(ref, int32(len(moves)))
	return ref, true
}

// ApplyFilter rebuilds parent's child array from an allow-list: it
// allocates a new contiguous run in allocatorIdx containing only the
// allowed moves, shallow-copying each survivor's statistics and descendant
// pointer, then republishes parent onto the new run. The old run is left
// in place, unreferenced (leaked until the next Clear), matching spec.md
// §4.3's "abandoned (leaked until the next clear)".
func (t *Tree) ApplyFilter(allocatorIdx int, parent *Node, allowed map[board.Point]bool) (Ref, bool) {
	old := t.Children(parent)
	var kept []*Node
	for _, c := range old {
		if allowed[c.Move] {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		parent.publish(NoRef, 0)
		return NoRef, true
	}
	a := t.allocators[allocatorIdx]
	start, ok := a.Bump(int32(len(kept)))
	if !ok {
		return NoRef, false
	}
	for i, src := range kept {
		dst := a.At(start + int32(i))
		dst.Move = src.Move
		if n := src.Outcome.Count(); n > 0 {
			dst.Outcome.Seed(src.Outcome.Value(), n)
		}
		if n := src.Rave.Count(); n > 0 {
			dst.Rave.Seed(src.Rave.Value(), n)
		}
		dst.posCount = src.PosCount()
		dst.publish(src.FirstChild(), src.NuChildren())
	}
	ref := newRef(allocatorIdx, start)
	parent.publish(ref, int32(len(kept)))
	return ref, true
}

// nextAllocatorIndex round-robins across numAllocators targets, used by
// ExtractSubtree to spread copied nodes evenly across the destination
// tree's workers.
func (t *Tree) nextAllocatorIndex() int {
	n := int32(len(t.allocators))
	v := atomic.AddInt32(&t.rrCursor, 1) - 1
	return int(v % n)
}

// ExtractSubtree copies the subtree rooted at node (a node of src) into
// dst, round-robining across dst's allocators and truncating the current
// branch once any target allocator fills up or deadline passes. A
// truncated node is still copied (with its own statistics) but with
// posCount zeroed and no children, per spec.md §4.3's "keep the copied
// node but zero its posCount to signal discarded statistics".
func ExtractSubtree(src, dst *Tree, node *Node, deadline time.Time) *Node {
	out := &Node{Move: node.Move}
	if n := node.Outcome.Count(); n > 0 {
		out.Outcome.Seed(node.Outcome.Value(), n)
	}
	if n := node.Rave.Count(); n > 0 {
		out.Rave.Seed(node.Rave.Value(), n)
	}

	srcChildren := src.Children(node)
	if len(srcChildren) == 0 || (!deadline.IsZero() && time.Now().After(deadline)) {
		out.posCount = 0
		out.publish(NoRef, 0)
		return out
	}

	copied := make([]*Node, 0, len(srcChildren))
	for _, c := range srcChildren {
		copied = append(copied, ExtractSubtree(src, dst, c, deadline))
	}

	out.posCount = node.PosCount()
	allocIdx := dst.nextAllocatorIndex()
	a := dst.allocators[allocIdx]
	start, ok := a.Bump(int32(len(copied)))
	if !ok {
		// No room for this whole contiguous run in the chosen allocator:
		// truncate here rather than split the run across allocators,
		// which would violate the "contiguous run in a single allocator"
		// invariant.
		out.publish(NoRef, 0)
		out.posCount = 0
		return out
	}
	for i, c := range copied {
		*a.At(start + int32(i)) = *c
	}
	out.publish(newRef(allocIdx, start), int32(len(copied)))
	return out
}
