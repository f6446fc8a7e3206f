package layout

import (
	"github.com/matzehuels/kintree/pkg/family"
)

// Compute lays out every member of ix and returns their positions.
// Zero card dimensions in opts are replaced by the defaults. Compute never
// fails: cycles, dangling edges and isolated members all end up with a
// position.
func Compute(ix *family.Index, opts Options) PositionMap {
	opts.SetDefaults()
	a := newAllocator(ix, opts)

	for _, root := range ix.Roots() {
		if a.placed[root] {
			continue
		}
		a.place(a.pending(ix.SpouseCluster(root)), 0)
	}

	for _, id := range ix.Members() {
		if a.placed[id] {
			continue
		}
		cluster := a.pending(ix.SpouseCluster(id))
		a.place(cluster, a.leftoverDepth(cluster))
	}

	if opts.OriginX != 0 || opts.OriginY != 0 {
		for id, p := range a.pos {
			a.pos[id] = Position{X: p.X + opts.OriginX, Y: p.Y + opts.OriginY}
		}
	}
	return a.pos
}

// allocator carries the state of one Compute call. The cursor is the
// first x coordinate not yet claimed by any placed subtree.
type allocator struct {
	ix     *family.Index
	opts   Options
	cursor float64
	placed map[family.ID]bool
	depth  map[family.ID]int
	order  []family.ID
	pos    PositionMap
}

func newAllocator(ix *family.Index, opts Options) *allocator {
	return &allocator{
		ix:     ix,
		opts:   opts,
		placed: make(map[family.ID]bool, ix.Len()),
		depth:  make(map[family.ID]int, ix.Len()),
		order:  make([]family.ID, 0, ix.Len()),
		pos:    make(PositionMap, ix.Len()),
	}
}

// place lays out cluster and its descendants at band depth and returns the
// cluster's horizontal center.
func (a *allocator) place(cluster []family.ID, depth int) float64 {
	// Claim the cluster before descending so cycles back into it stop.
	for _, id := range cluster {
		a.placed[id] = true
	}

	start := a.cursor
	mark := len(a.order)

	var lo, hi float64
	laidOut := 0
	for _, child := range a.ix.SharedChildren(cluster) {
		if a.placed[child] {
			continue
		}
		center := a.place(a.pending(a.ix.SpouseCluster(child)), depth+1)
		if laidOut == 0 {
			lo, hi = center, center
		} else {
			lo, hi = min(lo, center), max(hi, center)
		}
		laidOut++
	}

	width := float64(len(cluster)) * a.opts.slot()
	left := start
	if laidOut > 0 {
		left = (lo+hi)/2 - width/2
		if left < start {
			a.shift(mark, start-left)
			left = start
		}
	}

	y := float64(depth) * a.opts.band()
	for i, id := range cluster {
		a.pos[id] = Position{
			X: left + float64(i)*a.opts.slot() + a.opts.HorizontalGap/2,
			Y: y,
		}
		a.depth[id] = depth
		a.order = append(a.order, id)
	}

	a.cursor = max(a.cursor, left+width)
	return left + width/2
}

// shift moves everything placed since mark, and the cursor, right by dx.
func (a *allocator) shift(mark int, dx float64) {
	for _, id := range a.order[mark:] {
		p := a.pos[id]
		a.pos[id] = Position{X: p.X + dx, Y: p.Y}
	}
	a.cursor += dx
}

// pending filters out members that already have a position.
func (a *allocator) pending(cluster []family.ID) []family.ID {
	out := cluster[:0:0]
	for _, id := range cluster {
		if !a.placed[id] {
			out = append(out, id)
		}
	}
	return out
}

// leftoverDepth puts a cluster one band below its deepest placed parent,
// or in the top band when none of its parents is placed.
func (a *allocator) leftoverDepth(cluster []family.ID) int {
	depth := 0
	for _, id := range cluster {
		for _, p := range a.ix.Parents(id) {
			if d, ok := a.depth[p]; ok {
				depth = max(depth, d+1)
			}
		}
	}
	return depth
}
