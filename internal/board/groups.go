package board

// blockStones returns every stone in the connected block containing p, via
// flood fill. This mirrors traveller42-michi-go's floodfill helper (there
// operating over a string board with a "#" marker) but walks the byte grid
// directly with a visited set instead of rewriting the board.
func (b *Board) blockStones(p Point) []Point {
	color := b.GetColor(p)
	if color != Black && color != White {
		return nil
	}
	visited := map[Point]bool{p: true}
	fringe := []Point{p}
	stones := []Point{p}
	for len(fringe) > 0 {
		cur := fringe[len(fringe)-1]
		fringe = fringe[:len(fringe)-1]
		for _, d := range b.Neighbors(cur) {
			if !visited[d] && b.GetColor(d) == color {
				visited[d] = true
				fringe = append(fringe, d)
				stones = append(stones, d)
			}
		}
	}
	return stones
}

func (b *Board) blockLiberties(stones []Point) []Point {
	seen := map[Point]bool{}
	var libs []Point
	for _, s := range stones {
		for _, d := range b.Neighbors(s) {
			if b.IsEmpty(d) && !seen[d] {
				seen[d] = true
				libs = append(libs, d)
			}
		}
	}
	return libs
}

func (b *Board) blockLibertyCount(stones []Point) int {
	seen := map[Point]bool{}
	n := 0
	for _, s := range stones {
		for _, d := range b.Neighbors(s) {
			if b.IsEmpty(d) && !seen[d] {
				seen[d] = true
				n++
			}
		}
	}
	return n
}

// BlockStones returns every stone belonging to the block at p (empty if p
// is not a stone).
func (b *Board) BlockStones(p Point) []Point {
	return b.blockStones(p)
}

// BlockLiberties returns the liberty points of the block at p.
func (b *Board) BlockLiberties(p Point) []Point {
	return b.blockLiberties(b.blockStones(p))
}

// NumLiberties returns the liberty count of the block at p.
func (b *Board) NumLiberties(p Point) int {
	return b.blockLibertyCount(b.blockStones(p))
}

// InAtari reports whether the block at p has exactly one liberty.
func (b *Board) InAtari(p Point) bool {
	return b.NumLiberties(p) == 1
}

// Anchor returns the representative point of the block containing p: the
// smallest-index point in the block. Anchors are stable identifiers for a
// block across calls within the same board generation (spec.md §4.1).
func (b *Board) Anchor(p Point) Point {
	stones := b.blockStones(p)
	if len(stones) == 0 {
		return p
	}
	anchor := stones[0]
	for _, s := range stones[1:] {
		if s < anchor {
			anchor = s
		}
	}
	return anchor
}

// NeighborBlocks returns up to four distinct anchors of color-colored
// blocks orthogonally adjacent to p. If maxLib > 0, only blocks with at
// most maxLib liberties are included (used to find blocks in or near
// atari); maxLib <= 0 means no filtering.
func (b *Board) NeighborBlocks(p Point, color Color, maxLib int) []Point {
	seen := map[Point]bool{}
	var anchors []Point
	for _, d := range b.Neighbors(p) {
		if b.GetColor(d) != color {
			continue
		}
		a := b.Anchor(d)
		if seen[a] {
			continue
		}
		if maxLib > 0 && b.NumLiberties(a) > maxLib {
			continue
		}
		seen[a] = true
		anchors = append(anchors, a)
		if len(anchors) == 4 {
			break
		}
	}
	return anchors
}

// isEyeish reports the single color surrounding p if every on-board
// neighbor is that color (or off-board), Empty otherwise. Ported from
// michi.go's is_eyeish.
func (b *Board) isEyeish(p Point, wantNeighborColor Color) Color {
	eyeColor := Empty
	for _, d := range b.Neighbors(p) {
		if b.IsBorder(d) {
			continue
		}
		c := b.GetColor(d)
		if c == Empty {
			return Empty
		}
		if eyeColor == Empty {
			eyeColor = c
		} else if c != eyeColor {
			return Empty
		}
	}
	if eyeColor != Empty && eyeColor != wantNeighborColor && wantNeighborColor != Empty {
		return Empty
	}
	return eyeColor
}

// IsEyeish reports the color of stones surrounding p if p is a
// single-color diamond shape (a candidate eye, possibly false).
func (b *Board) IsEyeish(p Point) Color {
	return b.isEyeish(p, Empty)
}

// IsEye reports the color of a genuine (not falsified) eye at p, or Empty
// if p is not an eye. Ported from michi.go's is_eye: an eyeish point is
// falsified if at least two diagonal neighbors (edge/corner points count
// the missing diagonals as hostile) are the opposing color.
func (b *Board) IsEye(p Point) Color {
	eyeColor := b.isEyeish(p, Empty)
	if eyeColor == Empty {
		return Empty
	}
	hostile := Opposite(eyeColor)
	falseCount := 0
	atEdge := false
	for _, d := range b.DiagNeighbors(p) {
		if b.IsBorder(d) {
			atEdge = true
		} else if b.GetColor(d) == hostile {
			falseCount++
		}
	}
	if atEdge {
		falseCount++
	}
	if falseCount >= 2 {
		return Empty
	}
	return eyeColor
}

// IsSurroundedByOneColor reports whether p is an eyeish point surrounded
// entirely by color, independent of false-eye diagonal analysis. This
// distinguishes "candidate eye shape" from "genuine eye" for callers (the
// playout policy's eye-filling filter) that only need the cheaper check.
func (b *Board) IsSurroundedByOneColor(p Point, color Color) bool {
	return b.isEyeish(p, color) == color
}
