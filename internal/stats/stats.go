// Package stats provides the online statistics primitives shared by the
// search tree: a mean/count accumulator tolerant of torn reads under the
// lock-free search discipline, an optional Welford variance recurrence for
// single-writer series, and a small fixed-bin histogram used for
// diagnostics and tree dumps.
package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
)

// Mean is an online mean/count accumulator. Count and Sum are updated with
// plain atomic adds, so a reader computing Sum()/Count() may observe a
// torn pair (a sum whose matching count increment has not yet landed);
// spec.md §4.2 accepts this as a minor selection bias rather than a
// correctness bug, so no locking is used here.
type Mean struct {
	sum   uint64 // float64 bits via math.Float64bits-free fixed point, see Add
	count int64
}

const meanScale = 1e6

// Add folds one observation into the accumulator.
func (m *Mean) Add(v float64) {
	atomic.AddUint64(&m.sum, uint64(int64(v*meanScale)))
	atomic.AddInt64(&m.count, 1)
}

// Count returns the number of observations folded in so far.
func (m *Mean) Count() int64 {
	return atomic.LoadInt64(&m.count)
}

// Value returns the current mean, or 0 if there have been no observations.
func (m *Mean) Value() float64 {
	n := atomic.LoadInt64(&m.count)
	if n == 0 {
		return 0
	}
	return float64(int64(atomic.LoadUint64(&m.sum))) / meanScale / float64(n)
}

// Reset clears the accumulator back to zero observations.
func (m *Mean) Reset() {
	atomic.StoreUint64(&m.sum, 0)
	atomic.StoreInt64(&m.count, 0)
}

// Seed initializes the accumulator as if n observations of value had
// already been folded in, for prior-knowledge seeding of freshly expanded
// nodes (spec.md §4.5). Callers must only use Seed before the accumulator
// is visible to other goroutines.
func (m *Mean) Seed(value float64, n int64) {
	atomic.StoreUint64(&m.sum, uint64(int64(value*float64(n)*meanScale)))
	atomic.StoreInt64(&m.count, n)
}

// String renders the accumulator as whitespace-separated text, matching the
// plaintext logging convention used for tree dumps.
func (m *Mean) String() string {
	return fmt.Sprintf("%d %.6f", m.Count(), m.Value())
}

// Welford is a mean+variance accumulator using Welford's recurrence. It
// assumes a single-writer-per-value discipline (spec.md §4.2) and is not
// safe for concurrent Add calls from multiple goroutines without external
// synchronization.
type Welford struct {
	count int64
	mean  float64
	m2    float64
	min   float64
	max   float64
}

// NewWelford returns a Welford accumulator ready to accept observations.
func NewWelford() *Welford {
	return &Welford{min: math.Inf(1), max: math.Inf(-1)}
}

// Add folds in one observation. Not safe for concurrent callers.
func (w *Welford) Add(v float64) {
	w.count++
	delta := v - w.mean
	w.mean += delta / float64(w.count)
	delta2 := v - w.mean
	w.m2 += delta * delta2
	if v < w.min {
		w.min = v
	}
	if v > w.max {
		w.max = v
	}
}

// Count returns the number of observations folded in.
func (w *Welford) Count() int64 { return w.count }

// Mean returns the running mean.
func (w *Welford) Mean() float64 { return w.mean }

// Variance returns the population variance (0 when fewer than 2 samples).
func (w *Welford) Variance() float64 {
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count)
}

// Min/Max return the extremes seen so far.
func (w *Welford) Min() float64 { return w.min }
func (w *Welford) Max() float64 { return w.max }

// Histogram is a fixed-bin-count histogram over [lo, hi).
type Histogram struct {
	lo, hi float64
	bins   []int64
}

// NewHistogram creates a histogram with nBins buckets spanning [lo, hi).
func NewHistogram(lo, hi float64, nBins int) *Histogram {
	if nBins < 1 {
		nBins = 1
	}
	return &Histogram{lo: lo, hi: hi, bins: make([]int64, nBins)}
}

// Add records one observation, clamping out-of-range values into the
// nearest edge bucket.
func (h *Histogram) Add(v float64) {
	n := len(h.bins)
	if h.hi <= h.lo {
		h.bins[0]++
		return
	}
	frac := (v - h.lo) / (h.hi - h.lo)
	idx := int(frac * float64(n))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	h.bins[idx]++
}

// Bins returns a copy of the current bucket counts.
func (h *Histogram) Bins() []int64 {
	out := make([]int64, len(h.bins))
	copy(out, h.bins)
	return out
}

// String renders the histogram as whitespace-separated bucket counts.
func (h *Histogram) String() string {
	parts := make([]string, len(h.bins))
	for i, c := range h.bins {
		parts[i] = strconv.FormatInt(c, 10)
	}
	return strings.Join(parts, " ")
}
