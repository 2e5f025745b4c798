package board

// AreaScore computes area (Tromp-Taylor-style) score for the side to move,
// following traveller42-michi-go's Position.score: every empty region is
// flood-filled and awarded to the unique bordering color (left untouched,
// i.e. scored as neutral/seki, if it touches both colors). If owner is
// non-nil it must have length Size()*Size() (row-major) and receives +1/-1
// per point from Black's perspective, accumulated across repeated calls —
// used by the façade's finalStatus territory-statistics search (spec.md
// §4.7). This is the "fast simple scoring" spec.md §9's Open Question
// resolves to use as the simulation terminator's scoring function; the
// open question is resolved in DESIGN.md.
func (b *Board) AreaScore(owner []int) float64 {
	region := make([]Color, len(b.cells))
	copy(region, b.cells)

	for _, p := range b.AllPoints() {
		if region[p] != Empty {
			continue
		}
		pts, touchesBlack, touchesWhite := b.floodRegion(region, p)
		var fill Color
		switch {
		case touchesBlack && !touchesWhite:
			fill = Black
		case touchesWhite && !touchesBlack:
			fill = White
		default:
			fill = Empty // seki / dame: stays neutral
		}
		for _, q := range pts {
			region[q] = fill
		}
	}

	blackStones, whiteStones := 0, 0
	for _, p := range b.AllPoints() {
		switch region[p] {
		case Black:
			blackStones++
		case White:
			whiteStones++
		}
	}

	if owner != nil {
		for i, p := range b.AllPoints() {
			switch region[p] {
			case Black:
				owner[i]++
			case White:
				owner[i]--
			}
		}
	}

	score := float64(blackStones-whiteStones) - b.komi
	if b.toPlay == White {
		return -score
	}
	return score
}

// floodRegion flood-fills the empty region containing p (marking visited
// points in region as a private sentinel within this call), returning the
// member points and whether the region touches Black/White stones.
func (b *Board) floodRegion(region []Color, start Point) (pts []Point, touchesBlack, touchesWhite bool) {
	const filling Color = 99 // private in-progress marker, never observed outside this func
	fringe := []Point{start}
	region[start] = filling
	pts = append(pts, start)
	for len(fringe) > 0 {
		cur := fringe[len(fringe)-1]
		fringe = fringe[:len(fringe)-1]
		for _, d := range b.Neighbors(cur) {
			if b.IsBorder(d) {
				continue
			}
			switch {
			case region[d] == filling:
				continue
			case b.GetColor(d) == Black:
				touchesBlack = true
			case b.GetColor(d) == White:
				touchesWhite = true
			case region[d] == Empty:
				region[d] = filling
				pts = append(pts, d)
				fringe = append(fringe, d)
			}
		}
	}
	return pts, touchesBlack, touchesWhite
}

// MercyThreshold is the default stone-count margin that triggers the
// playout-terminating mercy rule (spec.md §4.4).
const MercyThreshold = 25

// MercyResult reports whether the current stone-count difference already
// decides the game for mercy purposes, and for whom.
func (b *Board) MercyResult(threshold int) (decided bool, blackWins bool) {
	black, white := 0, 0
	for _, p := range b.AllPoints() {
		switch b.GetColor(p) {
		case Black:
			black++
		case White:
			white++
		}
	}
	diff := black - white
	if diff >= threshold {
		return true, true
	}
	if -diff >= threshold {
		return true, false
	}
	return false, false
}

// LadderCapture performs a bounded-depth static ladder read: it asks
// whether the block anchored at target, assumed to presently have exactly
// two liberties, can be captured by attacker repeatedly putting it in
// atari while the defender extends along its one remaining liberty. At
// each step only the first liberty at which the atari is legal is tried.
// This is
// a deliberately small, direct port of the kind of fast ladder reader
// spec.md §1 describes as an external collaborator the prior-knowledge
// module may consult (Fuego's GoLadder family); it is not a general ladder
// solver and gives up (reports not-captured) once maxDepth plies have been
// tried without a resolution. The caller's board must have the attacker
// to move.
func (b *Board) LadderCapture(target Point, attacker Color, maxDepth int) bool {
	scratch := b.Clone()
	return scratch.ladderStep(target, attacker, maxDepth)
}

func (b *Board) ladderStep(target Point, attacker Color, depthLeft int) bool {
	if depthLeft <= 0 {
		return false
	}
	if b.GetColor(target) == Empty {
		return false
	}
	libs := b.BlockLiberties(target)
	switch len(libs) {
	case 0:
		return true
	case 1:
		res, _ := b.PlayIfLegal(libs[0])
		return res == ResultOK
	}
	if len(libs) != 2 {
		return false // already escaped the ladder shape
	}

	for _, extend := range libs {
		trial := b.Clone()
		if res, _ := trial.PlayIfLegal(extend); res != ResultOK {
			continue
		}
		if trial.NumLiberties(target) >= 3 {
			return false // escaped
		}
		attackLib := trial.BlockLiberties(target)
		if len(attackLib) == 0 {
			return true
		}
		captured := true
		for _, lib := range attackLib {
			t2 := trial.Clone()
			if res, _ := t2.PlayIfLegal(lib); res != ResultOK {
				continue
			}
			if !t2.ladderStep(target, attacker, depthLeft-1) {
				captured = false
			}
		}
		return captured
	}
	return false
}

// SafeRegions returns, for every on-board point belonging to a stone
// block, whether that block is judged unconditionally alive by a bounded
// static safety check: a block is alive if it borders at least two
// distinct real eyes. This is a deliberately narrow subset of full
// Benson-style unconditional life (spec.md §1's "Benson-style safe
// regions" external collaborator) good enough to resolve simple life in
// finalStatus without flood-filling shared regions across multiple
// blocks; see DESIGN.md for the scope decision.
func (b *Board) SafeRegions() map[Point]bool {
	alive := make(map[Point]bool)
	eyeCountByAnchor := make(map[Point]int)

	for _, p := range b.AllPoints() {
		color := b.IsEye(p)
		if color == Empty {
			continue
		}
		counted := make(map[Point]bool)
		for _, d := range b.Neighbors(p) {
			if b.GetColor(d) != color {
				continue
			}
			a := b.Anchor(d)
			if !counted[a] {
				counted[a] = true
				eyeCountByAnchor[a]++
			}
		}
	}

	for _, p := range b.AllPoints() {
		c := b.GetColor(p)
		if c != Black && c != White {
			continue
		}
		a := b.Anchor(p)
		if eyeCountByAnchor[a] >= 2 {
			alive[p] = true
		}
	}
	return alive
}
