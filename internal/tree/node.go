// Package tree implements the search tree and its per-worker bump
// allocators (spec.md §4.3, component C3): immutable-shape nodes whose
// statistics counters are updated in place, contiguous child runs
// published in a fixed write order, and breadth-bounded subtree
// extraction for reuse across moves.
//
// The statistics shape (mean+count tolerant of torn reads, a separate
// RAVE accumulator) is lifted directly from internal/stats.Mean, reused
// rather than reinvented here. The allocator design — a grow-only vector
// per worker addressed by (allocatorID, offset) instead of pointers, with
// no free list — is grounded
// on Elvenson-alphabeth's naughty-index arena (mcts/node.go, mcts/tree.go)
// generalized from a single shared arena to the one-allocator-per-worker
// partitioning spec.md §3 requires ("only the owning worker appends to
// its allocator").
package tree

import (
	"sync/atomic"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/stats"
)

// Ref addresses a node: either a child run's start, a single node, or
// NoRef. AllocatorID is 1-based internally so the zero Ref value means
// "no reference" without a separate boolean.
type Ref struct {
	allocatorID int32 // 0 means NoRef
	offset      int32
}

// NoRef is the distinguished "no node" reference (spec.md's NONE).
var NoRef = Ref{}

// Valid reports whether r actually addresses a node.
func (r Ref) Valid() bool { return r.allocatorID != 0 }

// AllocatorIndex returns the zero-based allocator index r belongs to. Only
// valid when r.Valid().
func (r Ref) AllocatorIndex() int { return int(r.allocatorID - 1) }

// Offset returns the node's offset within its allocator.
func (r Ref) Offset() int32 { return r.offset }

func newRef(allocatorIdx int, offset int32) Ref {
	return Ref{allocatorID: int32(allocatorIdx + 1), offset: offset}
}

// packedRef encodes a Ref into a single uint64 for atomic storage:
// allocatorID in the high 32 bits, offset in the low 32 bits.
func packRef(r Ref) uint64 {
	return uint64(uint32(r.allocatorID))<<32 | uint64(uint32(r.offset))
}

func unpackRef(v uint64) Ref {
	return Ref{allocatorID: int32(v >> 32), offset: int32(v)}
}

// Node is one tree node. Its shape is fixed at publication: Move never
// changes, and FirstChild/NuChildren are written once at expansion (and
// once more if ApplyFilter narrows the node's child run), always in
// spec.md §3's "publication order" — child data first, then
// FirstChild, then NuChildren, so a reader observing NuChildren > 0 is
// guaranteed FirstChild and every child's fields are already visible.
type Node struct {
	Move board.Point

	Outcome stats.Mean // mean/count of the outcome from this node's perspective
	Rave    stats.Mean // AMAF mean/count for Move, seen from the parent position

	posCount int64 // atomic: sum of children counts, may lag (display/aging only)

	firstChild uint64 // atomic, packed Ref
	nuChildren int32  // atomic

	expanding int32 // atomic CAS flag: 0 = free, 1 = a worker is expanding this node
}

// PosCount returns the (possibly lagging) sum of children visit counts.
func (n *Node) PosCount() int64 { return atomic.LoadInt64(&n.posCount) }

// AddPosCount adds delta to the lagging children-count aggregate.
func (n *Node) AddPosCount(delta int64) { atomic.AddInt64(&n.posCount, delta) }

// FirstChild returns the published first-child reference, or NoRef.
func (n *Node) FirstChild() Ref {
	return unpackRef(atomic.LoadUint64(&n.firstChild))
}

// NuChildren returns the published child count. Readers must check this
// before trusting FirstChild, per spec.md §3's publication-order
// invariant.
func (n *Node) NuChildren() int32 {
	return atomic.LoadInt32(&n.nuChildren)
}

// publish sets FirstChild then NuChildren, in that order, making the
// child run visible to other workers. Called once when a node is expanded
// or copied; ApplyFilter calls it again to republish a parent onto its
// filtered run.
func (n *Node) publish(first Ref, count int32) {
	atomic.StoreUint64(&n.firstChild, packRef(first))
	atomic.StoreInt32(&n.nuChildren, count)
}

// TryBeginExpand reports whether the caller has won the right to expand
// this node (a CAS on a zero/one flag), matching the teacher's
// NodeBase.CanExpand pattern so only one worker ever expands a given node
// even when several reach it at once under the lock-free discipline.
func (n *Node) TryBeginExpand() bool {
	return atomic.CompareAndSwapInt32(&n.expanding, 0, 1)
}

// Leaf reports whether the node currently has no children.
func (n *Node) Leaf() bool { return n.NuChildren() == 0 }
