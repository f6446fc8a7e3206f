package family

import "slices"

// Index holds adjacency lookups built from a snapshot. Every known member
// has an entry in each lookup, so queries for a known ID never miss.
// Neighbour lists are sorted by ID and free of duplicates.
type Index struct {
	members  map[ID]Member
	ids      []ID
	children map[ID][]ID // parent -> children (parent-child edges only)
	parents  map[ID][]ID // child -> parents
	spouses  map[ID][]ID // symmetric
	rels     []Relationship
	dropped  int
}

// NewIndex builds an index over s. Self-referencing relationships and
// relationships that reference a member missing from s.Members are dropped
// and counted in Dropped. Only
// parent-child edges contribute to the parent/child lookups; spouse edges
// contribute to both endpoints regardless of direction.
func NewIndex(s Snapshot) *Index {
	ix := &Index{
		members:  make(map[ID]Member, len(s.Members)),
		children: make(map[ID][]ID, len(s.Members)),
		parents:  make(map[ID][]ID, len(s.Members)),
		spouses:  make(map[ID][]ID, len(s.Members)),
	}

	for _, m := range s.Members {
		if _, dup := ix.members[m.ID]; !dup {
			ix.ids = append(ix.ids, m.ID)
		}
		ix.members[m.ID] = m
		ix.children[m.ID] = nil
		ix.parents[m.ID] = nil
		ix.spouses[m.ID] = nil
	}
	slices.Sort(ix.ids)

	for _, r := range s.Relationships {
		if r.From == r.To || !ix.Has(r.From) || !ix.Has(r.To) {
			ix.dropped++
			continue
		}
		ix.rels = append(ix.rels, r)
		switch r.Kind {
		case KindParentChild:
			ix.children[r.From] = insertSorted(ix.children[r.From], r.To)
			ix.parents[r.To] = insertSorted(ix.parents[r.To], r.From)
		case KindSpouse:
			ix.spouses[r.From] = insertSorted(ix.spouses[r.From], r.To)
			ix.spouses[r.To] = insertSorted(ix.spouses[r.To], r.From)
		}
	}
	return ix
}

func insertSorted(s []ID, id ID) []ID {
	i, found := slices.BinarySearch(s, id)
	if found {
		return s
	}
	return slices.Insert(s, i, id)
}

// Len returns the number of members.
func (ix *Index) Len() int { return len(ix.ids) }

// Members returns all member IDs in ascending order.
func (ix *Index) Members() []ID { return slices.Clone(ix.ids) }

// Has reports whether id is a known member.
func (ix *Index) Has(id ID) bool {
	_, ok := ix.members[id]
	return ok
}

// Member returns the member record for id.
func (ix *Index) Member(id ID) (Member, bool) {
	m, ok := ix.members[id]
	return m, ok
}

// Children returns the parent-child targets of id in ascending order.
func (ix *Index) Children(id ID) []ID { return ix.children[id] }

// Parents returns the parent-child sources pointing at id in ascending order.
func (ix *Index) Parents(id ID) []ID { return ix.parents[id] }

// Spouses returns the direct spouses of id in ascending order.
func (ix *Index) Spouses(id ID) []ID { return ix.spouses[id] }

// IsParent reports whether parent is recorded as a parent of child.
func (ix *Index) IsParent(parent, child ID) bool {
	_, found := slices.BinarySearch(ix.parents[child], parent)
	return found
}

// Roots returns the members without any parent, in ascending order.
func (ix *Index) Roots() []ID {
	var roots []ID
	for _, id := range ix.ids {
		if len(ix.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Relationships returns the edges whose endpoints are both known, in input
// order.
func (ix *Index) Relationships() []Relationship { return ix.rels }

// Dropped returns the number of relationships ignored because an endpoint
// is missing or the edge points back at its own member.
func (ix *Index) Dropped() int { return ix.dropped }
